package internal

import (
	"strings"
	"time"

	"github.com/chrisconley/salesboard/specs"
)

type Order struct {
	ID           string
	Organization string
	CreatedBy    string
	ItemType     string
	Status       string
	Product      string

	// Amount is only meaningful when HasAmount is true.
	Amount    Decimal
	HasAmount bool

	// CreatedOn is only meaningful when HasDate is true.
	CreatedOn time.Time
	HasDate   bool

	Segment           string
	Origin            OrderOrigin
	Renewal           bool
	MarketplaceAccess bool
}

// NewOrder normalizes and classifies an order row. The returned order is
// always usable; every returned error is a *DataError for an amount or date
// that could not be parsed.
func NewOrder(spec specs.OrderSpec, segment string, config ReportConfig) (Order, []error) {
	var errs []error

	order := Order{
		ID:                strings.TrimSpace(spec.OrderID),
		Organization:      strings.TrimSpace(specs.CellValue(spec.Organization)),
		CreatedBy:         strings.TrimSpace(specs.CellValue(spec.CreatedBy)),
		ItemType:          strings.TrimSpace(specs.CellValue(spec.ItemType)),
		Status:            strings.TrimSpace(specs.CellValue(spec.OrderStatus)),
		Product:           strings.TrimSpace(specs.CellValue(spec.Product)),
		Segment:           segment,
		Origin:            config.Classifier().Origin(spec.CreatedBy),
		Renewal:           ClassifyRenewal(spec.ItemType),
		MarketplaceAccess: config.Classifier().MarketplaceAccess(spec.CreatedBy),
	}

	if spec.TCVItem == nil {
		errs = append(errs, &DataError{Field: "amount", Err: ErrEmptyValue})
	} else if amount, err := NormalizeAmount(*spec.TCVItem); err != nil {
		errs = append(errs, err)
	} else {
		order.Amount = amount
		order.HasAmount = true
	}

	if spec.CreationDate == nil {
		errs = append(errs, &DataError{Field: "date", Err: ErrEmptyValue})
	} else if createdOn, err := NormalizeDate(*spec.CreationDate, config.DateLayout()); err != nil {
		errs = append(errs, err)
	} else {
		order.CreatedOn = createdOn
		order.HasDate = true
	}

	return order, errs
}

// InRange reports whether the order has a parsed date inside r.
func (o Order) InRange(r DateRange) bool {
	return o.HasDate && r.Contains(o.CreatedOn)
}

func (o Order) ToSpec() specs.OrderLineSpec {
	line := specs.OrderLineSpec{
		OrderID:           o.ID,
		Organization:      o.Organization,
		CreatedBy:         o.CreatedBy,
		ItemType:          o.ItemType,
		OrderStatus:       o.Status,
		Product:           o.Product,
		Segment:           o.Segment,
		Origin:            o.Origin.ToString(),
		Renewal:           o.Renewal,
		MarketplaceAccess: o.MarketplaceAccess,
	}
	if o.HasAmount {
		amount := o.Amount.String()
		line.Amount = &amount
	}
	if o.HasDate {
		line.CreationDate = o.CreatedOn.Format("2006-01-02")
	}
	return line
}
