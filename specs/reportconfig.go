package specs

import "time"

// DateRangeSpec represents a closed date interval [Start, End].
//
// Both ends are inclusive: an order created on End is inside the range.
// Dates are compared at day granularity in UTC.
type DateRangeSpec struct {
	// Inclusive first day of the range.
	Start time.Time `json:"start"`

	// Inclusive last day of the range.
	End time.Time `json:"end"`
}

// ReportConfigSpec defines the parameters of a single report run.
type ReportConfigSpec struct {
	// Email domain of the internal operating company, e.g. "orion.global".
	//
	// Creators whose identity ends with this domain are Internal origin;
	// everyone else is Market origin and has marketplace access.
	InternalDomain string `json:"internalDomain"`

	// Go time layout used to parse "Date Creation Order".
	//
	// Defaults to day-month-year ("2-1-2006") when empty.
	DateLayout string `json:"dateLayout"`

	// Date range restricting the marketplace aggregates and listings.
	DateRange DateRangeSpec `json:"dateRange"`

	// Segments of interest.
	//
	// When non-empty, segment metrics and the company ranking only include
	// these segments. Empty means every segment.
	Segments []string `json:"segments,omitempty"`

	// Number of companies kept in the ranking. Zero or negative keeps all.
	TopN int `json:"topN"`

	// Order the status summary as Active, Pending, Suspended, Unspecified
	// first instead of order of first appearance.
	CanonicalStatusOrder bool `json:"canonicalStatusOrder"`
}

// TablesSpec bundles the three raw input tables of a report run.
//
// A nil or empty table is treated as missing.
type TablesSpec struct {
	Organizations []OrganizationSpec `json:"organizations"`
	Subscriptions []SubscriptionSpec `json:"subscriptions"`
	Orders        []OrderSpec        `json:"orders"`
}
