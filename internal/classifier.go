package internal

import (
	"fmt"
	"strings"
)

type OrderOrigin struct {
	value string
}

var (
	OriginInternal = OrderOrigin{value: "Internal"}
	OriginMarket   = OrderOrigin{value: "Market"}
)

func NewOrderOrigin(value string) (OrderOrigin, error) {
	switch value {
	case "Internal":
		return OriginInternal, nil
	case "Market":
		return OriginMarket, nil
	case "":
		return OrderOrigin{}, fmt.Errorf("origin is required")
	default:
		return OrderOrigin{}, fmt.Errorf("invalid origin: %q", value)
	}
}

func (o OrderOrigin) ToString() string {
	return o.value
}

func (o OrderOrigin) IsInternal() bool {
	return o.value == "Internal"
}

func (o OrderOrigin) IsMarket() bool {
	return o.value == "Market"
}

// Classifier labels orders by the identity of their creator.
//
// Identities and the internal domain are compared trimmed and lowercased.
// An identity that ends with the domain is Internal; since such an identity
// also contains the domain, an Internal order never has marketplace access.
type Classifier struct {
	internalDomain string
}

func NewClassifier(internalDomain string) (Classifier, error) {
	domain := strings.ToLower(strings.TrimSpace(internalDomain))
	if domain == "" {
		return Classifier{}, fmt.Errorf("internal domain is required")
	}
	return Classifier{internalDomain: domain}, nil
}

// Origin classifies the creator. A null or blank creator cannot prove an
// internal identity and is Market.
func (c Classifier) Origin(createdBy *string) OrderOrigin {
	identity, ok := identityOf(createdBy)
	if ok && strings.HasSuffix(identity, c.internalDomain) {
		return OriginInternal
	}
	return OriginMarket
}

// MarketplaceAccess reports whether the creator is outside the internal
// domain. A null creator has access.
func (c Classifier) MarketplaceAccess(createdBy *string) bool {
	identity, ok := identityOf(createdBy)
	if !ok {
		return true
	}
	return !strings.Contains(identity, c.internalDomain)
}

// ClassifyRenewal reports whether the item type is "renewal", ignoring case
// and surrounding whitespace.
func ClassifyRenewal(itemType *string) bool {
	if itemType == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*itemType), "renewal")
}

func identityOf(createdBy *string) (string, bool) {
	if createdBy == nil {
		return "", false
	}
	identity := strings.ToLower(strings.TrimSpace(*createdBy))
	return identity, identity != ""
}
