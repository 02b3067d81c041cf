package examples

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisconley/salesboard/internal"
	"github.com/chrisconley/salesboard/internal/export"
	"github.com/chrisconley/salesboard/internal/infra"
	"github.com/chrisconley/salesboard/specs"
)

// === CONFIG REPO ===

type ConfigRepo interface {
	GetReportConfig(month time.Time) specs.ReportConfigSpec
}

type HardcodedConfigRepo struct{}

func (r *HardcodedConfigRepo) GetReportConfig(month time.Time) specs.ReportConfigSpec {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return specs.ReportConfigSpec{
		InternalDomain: "orion.global",
		DateLayout:     internal.DefaultDateLayout,
		DateRange: specs.DateRangeSpec{
			Start: start,
			End:   start.AddDate(0, 1, -1),
		},
		TopN:                 3,
		CanonicalStatusOrder: true,
	}
}

// === HANDLERS ===

// DiagnosticsCollector counts the diagnostics published while assembling.
type DiagnosticsCollector struct {
	counts map[infra.EventType]int
}

func NewDiagnosticsCollector(bus *infra.Bus) *DiagnosticsCollector {
	c := &DiagnosticsCollector{counts: map[infra.EventType]int{}}
	for _, et := range []infra.EventType{infra.FieldRejected, infra.JoinAmbiguityDetected, infra.SectionFailed} {
		bus.Subscribe(et, c.Handle)
	}
	return c
}

func (c *DiagnosticsCollector) Handle(e infra.Event) {
	c.counts[e.EventType()]++
}

func (c *DiagnosticsCollector) Reset() {
	c.counts = map[infra.EventType]int{}
}

// SnapshotHandler keeps the latest bundle and its owner summary export, as
// a dashboard refresh would.
type SnapshotHandler struct {
	reports  []specs.ReportSpec
	exported []bytes.Buffer
}

func (h *SnapshotHandler) Handle(e infra.Event) {
	report := e.(internal.ReportAssembledEvent).Report

	var buf bytes.Buffer
	if err := export.Write(&buf, export.OwnerCountrySummary(report.OwnerCountrySummary)); err != nil {
		panic(fmt.Sprintf("Failed to export summary: %v", err))
	}

	h.reports = append(h.reports, report)
	h.exported = append(h.exported, buf)
}

func TestMonthlyDashboardRefresh(t *testing.T) {
	bus := infra.NewBus()
	configRepo := &HardcodedConfigRepo{}

	diagnostics := NewDiagnosticsCollector(bus)
	snapshots := &SnapshotHandler{}
	bus.Subscribe(infra.ReportAssembled, snapshots.Handle)

	assembler := internal.NewAssembler(bus)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	orders, expected := generateOrders(start, 59, 3)
	tables := specs.TablesSpec{
		Organizations: generateOrganizations(),
		Subscriptions: generateSubscriptions(),
		Orders:        orders,
	}

	months := []time.Time{start, start.AddDate(0, 1, 0), start}
	for _, month := range months {
		diagnostics.Reset()

		report, err := assembler.Assemble(tables, configRepo.GetReportConfig(month))
		require.NoError(t, err)

		key := month.Format("2006-01")
		t.Run(key, func(t *testing.T) {
			d := report.Diagnostics
			assert.Equal(t, len(orders), d.AmountsParsed+d.AmountsExcluded, "every order is either parsed or excluded")
			assert.Equal(t, d.UnspecifiedStatuses+d.AmountsExcluded+d.UnparseableDates,
				diagnostics.counts[infra.FieldRejected], "every rejected field is published")
			assert.Equal(t, 1, diagnostics.counts[infra.JoinAmbiguityDetected])
			assert.Zero(t, diagnostics.counts[infra.SectionFailed])

			total, err := internal.NewDecimal(report.SegmentTotal)
			require.NoError(t, err)
			assert.Zero(t, total.Cmp(internal.NewDecimalFromInt64(expected[key])),
				"segment total %s, want %d", report.SegmentTotal, expected[key])

			sum := internal.NewDecimalFromInt64(0)
			pct := internal.NewDecimalFromInt64(0)
			for _, m := range report.SegmentMetrics {
				amount, err := internal.NewDecimal(m.Amount)
				require.NoError(t, err)
				p, err := internal.NewDecimal(m.Percentage)
				require.NoError(t, err)
				sum = sum.Add(amount)
				pct = pct.Add(p)
			}
			assert.Zero(t, sum.Cmp(total), "segment amounts add up to the total")
			low, _ := internal.NewDecimal("99.9")
			high, _ := internal.NewDecimal("100.1")
			assert.True(t, pct.Cmp(low) >= 0 && pct.Cmp(high) <= 0, "percentages add up to 100, got %s", pct)

			for _, p := range report.TimeSeries {
				assert.Equal(t, key, p.Month)
			}
			assert.LessOrEqual(t, len(report.RankedCompanies), 3)
			for _, line := range report.RenewalList {
				assert.True(t, line.Renewal)
				assert.Equal(t, key, line.CreationDate[:7])
			}
			for _, line := range report.MarketAccessList {
				assert.Equal(t, "Market", line.Origin)
			}
		})
	}

	require.Len(t, snapshots.reports, len(months))

	t.Run("refreshing the same month reuses the bundle ID", func(t *testing.T) {
		assert.Equal(t, snapshots.reports[0].ID, snapshots.reports[2].ID)
		assert.NotEqual(t, snapshots.reports[0].ID, snapshots.reports[1].ID)
		if diff := cmp.Diff(snapshots.reports[0], snapshots.reports[2]); diff != "" {
			t.Errorf("repeated run differs (-first +repeat):\n%s", diff)
		}
	})

	t.Run("exported summaries read back unchanged", func(t *testing.T) {
		for i, buf := range snapshots.exported {
			table, err := export.Read(&buf)
			require.NoError(t, err)

			parsed, err := export.ParseOwnerCountrySummary(table)
			require.NoError(t, err)

			if diff := cmp.Diff(snapshots.reports[i].OwnerCountrySummary, parsed); diff != "" {
				t.Errorf("export %d mismatch (-want +got):\n%s", i, diff)
			}
		}
	})

	t.Run("organization sections ignore the date range", func(t *testing.T) {
		jan, feb := snapshots.reports[0], snapshots.reports[1]
		assert.Equal(t, jan.StatusSummary, feb.StatusSummary)
		assert.Equal(t, jan.Headline, feb.Headline)
		assert.Equal(t, []specs.UnsegmentedCompanySpec{{Owner: "luis", Name: "Umbrella"}}, jan.UnsegmentedCompanies)
	})
}

// === HELPER FUNCTIONS ===

func cell(s string) *string { return &s }

var organizationNames = []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli", "Ghost"}

func generateOrganizations() []specs.OrganizationSpec {
	return []specs.OrganizationSpec{
		{Name: "Acme", Owner: cell("ana"), Country: cell("AR"), Segment: cell("SMB"), Status: cell("active")},
		{Name: "Globex", Owner: cell("ana"), Country: cell("AR"), Segment: cell("Enterprise"), Status: cell("PENDING")},
		{Name: "Initech", Owner: cell("luis"), Country: cell("CL"), Segment: cell("SMB"), Status: cell(" suspended ")},
		{Name: "Umbrella", Owner: cell("luis"), Country: cell("CL"), Status: cell("Active")},
		{Name: "Hooli", Owner: cell("ana"), Country: cell("AR"), Segment: cell("Mid-Market")},
		{Name: "Acme", Owner: cell("ana"), Country: cell("AR"), Segment: cell("Enterprise"), Status: cell("active")},
	}
}

func generateSubscriptions() []specs.SubscriptionSpec {
	return []specs.SubscriptionSpec{
		{Status: "active", ConsoleDomain: cell("acme.io"), Product: cell("Console")},
		{Status: "Active", Company: cell(" "), ConsoleDomain: cell("hooli.xyz"), Product: cell("Console")},
		{Status: "active", Company: cell("Acme"), ConsoleDomain: cell("acme.io"), Product: cell("API")},
		{Status: "cancelled", ConsoleDomain: cell("initech.com"), Product: cell("API")},
	}
}

// generateOrders creates perDay orders for each of days consecutive days,
// cycling organizations, creators and amount formats. It returns the
// expected Market amount per "YYYY-MM".
func generateOrders(start time.Time, days int, perDay int) ([]specs.OrderSpec, map[string]int64) {
	amounts := []string{"$1,000.00", "1.000,00", "1000", "USD 1000", "n/a"}
	itemTypes := []string{"New", "Renewal", "Upsell"}

	var orders []specs.OrderSpec
	expected := map[string]int64{}
	n := 0

	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		for i := 0; i < perDay; i++ {
			org := organizationNames[n%len(organizationNames)]
			creator := fmt.Sprintf("buyer@%s.com", org)
			if n%4 == 0 {
				creator = "rep@orion.global"
			}
			amount := amounts[n%len(amounts)]

			orders = append(orders, specs.OrderSpec{
				OrderID:      fmt.Sprintf("ord-%d", n),
				Organization: cell(org),
				CreatedBy:    cell(creator),
				ItemType:     cell(itemTypes[n%len(itemTypes)]),
				TCVItem:      cell(amount),
				CreationDate: cell(date.Format("2-1-2006")),
				OrderStatus:  cell("Closed"),
				Product:      cell("Console"),
			})

			if n%4 != 0 && amount != "n/a" {
				expected[date.Format("2006-01")] += 1000
			}
			n++
		}
	}

	return orders, expected
}
