package specs

// ReportSpec is the fixed metric bundle produced by one report run.
//
// Every section is always present. A section whose input table was missing
// is empty and the failure is listed in Diagnostics.Sections.
type ReportSpec struct {
	// Deterministic identifier of the run.
	//
	// Derived from the input tables and the configuration, so two runs over
	// the same inputs share an ID. Hosts can use it as a cache key.
	ID string `json:"id"`

	Headline HeadlineSpec `json:"headline"`

	// Organization count per normalized status.
	StatusSummary []StatusCountSpec `json:"status_summary"`

	// One row per (owner, country) pair with both values present.
	OwnerCountrySummary []OwnerCountrySummarySpec `json:"owner_country_summary"`

	// Organizations without a segment, as (owner, name).
	UnsegmentedCompanies []UnsegmentedCompanySpec `json:"unsegmented_companies"`

	// Unsegmented organizations counted per owner.
	UnsegmentedByOwner []CategoryCountSpec `json:"unsegmented_by_owner"`

	// Active subscriptions not yet linked to a company.
	FilteredSubscriptions []SubscriptionSpec `json:"filtered_subscriptions"`

	// Filtered subscriptions counted per console domain.
	SubscriptionsByDomain []CategoryCountSpec `json:"subscriptions_by_domain"`

	// Filtered subscriptions counted per product.
	SubscriptionsByProduct []CategoryCountSpec `json:"subscriptions_by_product"`

	// Market-origin orders in the date range, grouped by segment.
	SegmentMetrics []SegmentMetricSpec `json:"segment_metrics"`

	// Sum of SegmentMetrics amounts; the denominator of every percentage.
	SegmentTotal string `json:"segment_total"`

	// Market-origin orders in the date range, per month and segment.
	TimeSeries []TimeSeriesPointSpec `json:"time_series"`

	// Organizations ranked by Market-origin amount in the date range.
	RankedCompanies []RankedCompanySpec `json:"ranked_companies"`

	// Renewal orders in the date range.
	RenewalList []OrderLineSpec `json:"renewal_list"`

	// Orders with marketplace access in the date range.
	MarketAccessList []OrderLineSpec `json:"market_access_list"`

	Diagnostics DiagnosticsSpec `json:"diagnostics"`
}

// HeadlineSpec holds the single-number indicators shown above the tables.
type HeadlineSpec struct {
	ActiveCompanies       int `json:"active_companies"`
	PendingCompanies      int `json:"pending_companies"`
	UnsegmentedCompanies  int `json:"unsegmented_companies"`
	FilteredSubscriptions int `json:"filtered_subscriptions"`
}

// StatusCountSpec is one row of the status summary.
type StatusCountSpec struct {
	Status string `json:"Status"`
	Count  int    `json:"Count"`
}

// OwnerCountrySummarySpec is one row of the owner/country progress summary.
//
// Total is the number of organization rows for the pair. Active, Pending,
// Suspended and Other partition Total. CompletionPct is Active/Total*100
// rounded to 2 decimal places, as a decimal string, or "0" when Total is 0.
type OwnerCountrySummarySpec struct {
	Owner         string `json:"owner"`
	Country       string `json:"country"`
	Active        int    `json:"Active"`
	Pending       int    `json:"Pending"`
	Suspended     int    `json:"Suspended"`
	Other         int    `json:"Other"`
	Total         int    `json:"Total"`
	CompletionPct string `json:"Completion%"`
}

// UnsegmentedCompanySpec is one row of the unsegmented listing.
type UnsegmentedCompanySpec struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// CategoryCountSpec is a (category, count) pair used by the breakdowns.
type CategoryCountSpec struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// SegmentMetricSpec aggregates Market-origin orders of one segment.
type SegmentMetricSpec struct {
	Segment string `json:"segment"`

	// Distinct order IDs.
	Orders int `json:"orders"`

	// Distinct organizations.
	Companies int `json:"companies"`

	// Summed amount as a decimal string. Rows with unparseable amounts are
	// counted in Orders but contribute nothing here.
	Amount string `json:"amount"`

	// Share of SegmentTotal, in percent, rounded to 2 decimal places.
	Percentage string `json:"percentage"`
}

// TimeSeriesPointSpec aggregates Market-origin orders of one segment in one
// calendar month. Months without orders are omitted.
type TimeSeriesPointSpec struct {
	// Calendar month as "YYYY-MM".
	Month   string `json:"month"`
	Segment string `json:"segment"`
	Orders  int    `json:"orders"`
	Amount  string `json:"amount"`
}

// RankedCompanySpec is one entry of the company ranking.
type RankedCompanySpec struct {
	Organization string `json:"organization"`
	Segment      string `json:"segment"`
	Amount       string `json:"amount"`
}

// DiagnosticsSpec reports rows that field-level failures excluded or
// bucketed, and sections that could not be built.
type DiagnosticsSpec struct {
	// Organizations whose status was null or blank ("Unspecified").
	UnspecifiedStatuses int `json:"unspecified_statuses"`

	// Orders whose amount parsed. AmountsParsed + AmountsExcluded always
	// equals the number of input orders.
	AmountsParsed   int `json:"amounts_parsed"`
	AmountsExcluded int `json:"amounts_excluded"`

	// Orders whose creation date failed to parse.
	UnparseableDates int `json:"unparseable_dates"`

	// Organization names that occur more than once.
	AmbiguousJoins int `json:"ambiguous_joins"`

	// Sections left empty because a required table was missing.
	Sections []SectionErrorSpec `json:"sections,omitempty"`
}

// SectionErrorSpec names a bundle section that could not be assembled.
type SectionErrorSpec struct {
	Section string `json:"section"`
	Reason  string `json:"reason"`
}
