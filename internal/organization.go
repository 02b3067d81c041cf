package internal

import (
	"strings"

	"github.com/chrisconley/salesboard/specs"
)

type Organization struct {
	Name string
	// Owner and Country are "" when null or blank.
	Owner   string
	Country string
	Segment string
	Status  string
}

// NewOrganization normalizes an organization row. The returned organization
// is always usable; a non-nil error is a *DataError for a status that was
// bucketed as Unspecified.
func NewOrganization(spec specs.OrganizationSpec) (Organization, error) {
	status, err := statusOf(spec.Status)
	return Organization{
		Name:    strings.TrimSpace(spec.Name),
		Owner:   strings.TrimSpace(specs.CellValue(spec.Owner)),
		Country: strings.TrimSpace(specs.CellValue(spec.Country)),
		Segment: SegmentOf(spec.Segment),
		Status:  status,
	}, err
}

func (o Organization) IsSegmented() bool {
	return o.Segment != UnassignedSegment
}

// IsAttributable reports whether the organization has both an owner and a
// country.
func (o Organization) IsAttributable() bool {
	return o.Owner != "" && o.Country != ""
}
