package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chrisconley/salesboard/internal/infra"
	"github.com/chrisconley/salesboard/specs"
	"go.uber.org/zap/zapcore"
)

// Section names as they appear in diagnostics and exports.
const (
	SectionHeadline               = "headline"
	SectionStatusSummary          = "status_summary"
	SectionOwnerCountrySummary    = "owner_country_summary"
	SectionUnsegmentedCompanies   = "unsegmented_companies"
	SectionUnsegmentedByOwner     = "unsegmented_by_owner"
	SectionFilteredSubscriptions  = "filtered_subscriptions"
	SectionSubscriptionsByDomain  = "subscriptions_by_domain"
	SectionSubscriptionsByProduct = "subscriptions_by_product"
	SectionSegmentMetrics         = "segment_metrics"
	SectionTimeSeries             = "time_series"
	SectionRankedCompanies        = "ranked_companies"
	SectionRenewalList            = "renewal_list"
	SectionMarketAccessList       = "market_access_list"
)

var (
	organizationSections = []string{
		SectionHeadline,
		SectionStatusSummary,
		SectionOwnerCountrySummary,
		SectionUnsegmentedCompanies,
		SectionUnsegmentedByOwner,
	}
	subscriptionSections = []string{
		SectionFilteredSubscriptions,
		SectionSubscriptionsByDomain,
		SectionSubscriptionsByProduct,
	}
	orderSections = []string{
		SectionSegmentMetrics,
		SectionTimeSeries,
		SectionRankedCompanies,
		SectionRenewalList,
		SectionMarketAccessList,
	}
)

// ReportAssembledEvent is published once per assembled report.
type ReportAssembledEvent struct {
	Report specs.ReportSpec
}

func (e ReportAssembledEvent) EventType() infra.EventType {
	return infra.ReportAssembled
}

func (e ReportAssembledEvent) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	d := e.Report.Diagnostics
	enc.AddString("id", e.Report.ID)
	enc.AddInt("unspecified_statuses", d.UnspecifiedStatuses)
	enc.AddInt("amounts_parsed", d.AmountsParsed)
	enc.AddInt("amounts_excluded", d.AmountsExcluded)
	enc.AddInt("unparseable_dates", d.UnparseableDates)
	enc.AddInt("ambiguous_joins", d.AmbiguousJoins)
	enc.AddInt("failed_sections", len(d.Sections))
	return nil
}

// Assembler builds report bundles and publishes diagnostics on its bus.
// It keeps no state between runs.
type Assembler struct {
	bus *infra.Bus
}

// NewAssembler returns an assembler publishing on bus. A nil bus discards
// diagnostics events; the counters in the bundle are unaffected.
func NewAssembler(bus *infra.Bus) *Assembler {
	return &Assembler{bus: bus}
}

// Assemble implements specs.Assemble without publishing events.
func Assemble(tables specs.TablesSpec, configSpec specs.ReportConfigSpec) (specs.ReportSpec, error) {
	return NewAssembler(nil).Assemble(tables, configSpec)
}

// Assemble implements specs.Assemble.
func (a *Assembler) Assemble(tables specs.TablesSpec, configSpec specs.ReportConfigSpec) (specs.ReportSpec, error) {
	report := emptyReport()

	config, err := NewReportConfig(configSpec)
	if err != nil {
		return report, fmt.Errorf("invalid config: %w", err)
	}

	id, err := computeReportID(tables, configSpec)
	if err != nil {
		return report, fmt.Errorf("invalid report ID: %w", err)
	}
	report.ID = id

	var errs []error

	if len(tables.Organizations) == 0 {
		errs = append(errs, a.failSections(&report, organizationSections, "organizations")...)
	} else {
		a.assembleOrganizations(&report, tables.Organizations, config)
	}

	if len(tables.Subscriptions) == 0 {
		errs = append(errs, a.failSections(&report, subscriptionSections, "subscriptions")...)
	} else {
		assembleSubscriptions(&report, tables.Subscriptions)
	}

	if len(tables.Orders) == 0 {
		errs = append(errs, a.failSections(&report, orderSections, "orders")...)
	} else {
		a.assembleOrders(&report, tables.Orders, tables.Organizations, config)
	}

	a.bus.Publish(ReportAssembledEvent{Report: report})
	return report, errors.Join(errs...)
}

func (a *Assembler) assembleOrganizations(report *specs.ReportSpec, rows []specs.OrganizationSpec, config ReportConfig) {
	organizations := make([]Organization, len(rows))
	for i, row := range rows {
		org, err := NewOrganization(row)
		if err != nil {
			report.Diagnostics.UnspecifiedStatuses++
			a.rejectField("organizations", i, err)
		}
		organizations[i] = org
	}

	report.StatusSummary = StatusSummary(organizations, config.CanonicalStatusOrder())
	report.OwnerCountrySummary = OwnerCountrySummary(organizations)
	report.UnsegmentedCompanies = UnsegmentedCompanies(organizations)
	report.UnsegmentedByOwner = UnsegmentedByOwner(organizations)
	report.Headline.ActiveCompanies = CountStatus(organizations, "Active")
	report.Headline.PendingCompanies = CountStatus(organizations, "Pending")
	report.Headline.UnsegmentedCompanies = len(report.UnsegmentedCompanies)
}

func assembleSubscriptions(report *specs.ReportSpec, rows []specs.SubscriptionSpec) {
	filtered := FilterSubscriptions(rows)

	domains := make([]string, len(filtered))
	products := make([]string, len(filtered))
	for i, sub := range filtered {
		domains[i] = specs.CellValue(sub.ConsoleDomain)
		products[i] = specs.CellValue(sub.Product)
	}

	report.FilteredSubscriptions = filtered
	report.SubscriptionsByDomain = CountBy(domains)
	report.SubscriptionsByProduct = CountBy(products)
	report.Headline.FilteredSubscriptions = len(filtered)
}

func (a *Assembler) assembleOrders(report *specs.ReportSpec, rows []specs.OrderSpec, organizations []specs.OrganizationSpec, config ReportConfig) {
	index := NewSegmentIndex(organizations)
	for _, w := range index.Ambiguities() {
		a.bus.Publish(w)
	}
	report.Diagnostics.AmbiguousJoins = len(index.Ambiguities())

	orders := make([]Order, len(rows))
	for i, row := range rows {
		order, errs := NewOrder(row, index.Lookup(row.Organization), config)
		for _, err := range errs {
			a.rejectField("orders", i, err)
		}
		if order.HasAmount {
			report.Diagnostics.AmountsParsed++
		} else {
			report.Diagnostics.AmountsExcluded++
		}
		if !order.HasDate {
			report.Diagnostics.UnparseableDates++
		}
		orders[i] = order
	}

	r := config.DateRange()
	metrics, total := SegmentMetrics(orders, r, config.Segments())
	report.SegmentMetrics = metrics
	report.SegmentTotal = total.String()
	report.TimeSeries = TimeSeries(orders, r)
	report.RankedCompanies = TopN(CompanyAmounts(orders, r), config.TopN(), config.Segments())
	report.RenewalList = OrderLines(orders, r, func(o Order) bool { return o.Renewal })
	report.MarketAccessList = OrderLines(orders, r, func(o Order) bool { return o.MarketplaceAccess })
}

func (a *Assembler) failSections(report *specs.ReportSpec, sections []string, table string) []error {
	errs := make([]error, 0, len(sections))
	for _, section := range sections {
		err := &AssemblyError{Section: section, Table: table}
		report.Diagnostics.Sections = append(report.Diagnostics.Sections, specs.SectionErrorSpec{
			Section: section,
			Reason:  err.Error(),
		})
		a.bus.Publish(err)
		errs = append(errs, err)
	}
	return errs
}

func (a *Assembler) rejectField(table string, row int, err error) {
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		return
	}
	dataErr.Table = table
	dataErr.Row = row
	a.bus.Publish(dataErr)
}

// emptyReport returns a bundle whose sections are all present and empty.
func emptyReport() specs.ReportSpec {
	return specs.ReportSpec{
		StatusSummary:          []specs.StatusCountSpec{},
		OwnerCountrySummary:    []specs.OwnerCountrySummarySpec{},
		UnsegmentedCompanies:   []specs.UnsegmentedCompanySpec{},
		UnsegmentedByOwner:     []specs.CategoryCountSpec{},
		FilteredSubscriptions:  []specs.SubscriptionSpec{},
		SubscriptionsByDomain:  []specs.CategoryCountSpec{},
		SubscriptionsByProduct: []specs.CategoryCountSpec{},
		SegmentMetrics:         []specs.SegmentMetricSpec{},
		SegmentTotal:           "0",
		TimeSeries:             []specs.TimeSeriesPointSpec{},
		RankedCompanies:        []specs.RankedCompanySpec{},
		RenewalList:            []specs.OrderLineSpec{},
		MarketAccessList:       []specs.OrderLineSpec{},
	}
}

// computeReportID generates a deterministic ID from the inputs of a run.
func computeReportID(tables specs.TablesSpec, config specs.ReportConfigSpec) (string, error) {
	input, err := json.Marshal(struct {
		Tables specs.TablesSpec       `json:"tables"`
		Config specs.ReportConfigSpec `json:"config"`
	}{tables, config})
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(input)
	return hex.EncodeToString(hash[:16]), nil
}
