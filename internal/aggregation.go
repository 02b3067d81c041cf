package internal

import (
	"cmp"
	"slices"
	"strings"

	"github.com/chrisconley/salesboard/specs"
)

// CanonicalStatuses is the fixed status order callers can request for the
// status summary.
var CanonicalStatuses = []string{"Active", "Pending", "Suspended", UnspecifiedStatus}

// StatusSummary counts organizations per normalized status.
//
// Rows follow the order of first appearance. With canonical set, the four
// canonical statuses come first in fixed order (zero counts included),
// followed by any other status in order of first appearance.
func StatusSummary(organizations []Organization, canonical bool) []specs.StatusCountSpec {
	counts := make(map[string]int)
	var order []string
	if canonical {
		for _, status := range CanonicalStatuses {
			counts[status] = 0
			order = append(order, status)
		}
	}
	for _, org := range organizations {
		if _, seen := counts[org.Status]; !seen {
			order = append(order, org.Status)
		}
		counts[org.Status]++
	}

	summary := make([]specs.StatusCountSpec, 0, len(order))
	for _, status := range order {
		summary = append(summary, specs.StatusCountSpec{Status: status, Count: counts[status]})
	}
	return summary
}

// CountStatus returns the number of organizations with the given status.
func CountStatus(organizations []Organization, status string) int {
	n := 0
	for _, org := range organizations {
		if org.Status == status {
			n++
		}
	}
	return n
}

type ownerCountry struct {
	owner   string
	country string
}

// OwnerCountrySummary groups attributable organizations by (owner, country)
// in a single pass. Rows are sorted by owner, then country.
func OwnerCountrySummary(organizations []Organization) []specs.OwnerCountrySummarySpec {
	index := make(map[ownerCountry]int)
	rows := make([]specs.OwnerCountrySummarySpec, 0)

	for _, org := range organizations {
		if !org.IsAttributable() {
			continue
		}
		key := ownerCountry{owner: org.Owner, country: org.Country}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, specs.OwnerCountrySummarySpec{Owner: org.Owner, Country: org.Country})
		}
		row := &rows[i]
		switch org.Status {
		case "Active":
			row.Active++
		case "Pending":
			row.Pending++
		case "Suspended":
			row.Suspended++
		default:
			row.Other++
		}
		row.Total++
	}

	for i := range rows {
		total := NewDecimalFromInt64(int64(rows[i].Total))
		rows[i].CompletionPct = Percent(NewDecimalFromInt64(int64(rows[i].Active)), total).String()
	}

	slices.SortFunc(rows, func(a, b specs.OwnerCountrySummarySpec) int {
		return cmp.Or(cmp.Compare(a.Owner, b.Owner), cmp.Compare(a.Country, b.Country))
	})
	return rows
}

// UnsegmentedCompanies lists organizations without a segment in input order.
func UnsegmentedCompanies(organizations []Organization) []specs.UnsegmentedCompanySpec {
	companies := make([]specs.UnsegmentedCompanySpec, 0)
	for _, org := range organizations {
		if !org.IsSegmented() {
			companies = append(companies, specs.UnsegmentedCompanySpec{Owner: org.Owner, Name: org.Name})
		}
	}
	return companies
}

// UnsegmentedByOwner counts unsegmented organizations per owner. Organizations
// without an owner are not counted.
func UnsegmentedByOwner(organizations []Organization) []specs.CategoryCountSpec {
	owners := make([]string, 0)
	for _, org := range organizations {
		if !org.IsSegmented() {
			owners = append(owners, org.Owner)
		}
	}
	return CountBy(owners)
}

// CountBy counts occurrences of each non-blank value, most frequent first
// and ties by value.
func CountBy(values []string) []specs.CategoryCountSpec {
	index := make(map[string]int)
	counts := make([]specs.CategoryCountSpec, 0)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		i, ok := index[v]
		if !ok {
			i = len(counts)
			index[v] = i
			counts = append(counts, specs.CategoryCountSpec{Category: v})
		}
		counts[i].Count++
	}
	slices.SortFunc(counts, func(a, b specs.CategoryCountSpec) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Category, b.Category))
	})
	return counts
}

// FilterSubscriptions keeps active subscriptions not yet linked to a
// company, in input order.
func FilterSubscriptions(subscriptions []specs.SubscriptionSpec) []specs.SubscriptionSpec {
	filtered := make([]specs.SubscriptionSpec, 0)
	for _, sub := range subscriptions {
		if !strings.EqualFold(strings.TrimSpace(sub.Status), "active") {
			continue
		}
		if strings.TrimSpace(specs.CellValue(sub.Company)) != "" {
			continue
		}
		filtered = append(filtered, sub)
	}
	return filtered
}

// MarketOrders keeps Market-origin orders whose date lies in r. Orders with
// an unparseable date are never included.
func MarketOrders(orders []Order, r DateRange) []Order {
	market := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Origin.IsMarket() && o.InRange(r) {
			market = append(market, o)
		}
	}
	return market
}

type segmentGroup struct {
	segment   string
	orders    map[string]struct{}
	companies map[string]struct{}
	amount    Decimal
}

// SegmentMetrics groups Market-origin orders in r by segment, keeping only
// segments the filter allows. Percentages are shares of the returned total,
// which is the sum of the per-segment amounts. Rows are sorted by amount
// descending, then segment.
func SegmentMetrics(orders []Order, r DateRange, filter SegmentFilter) ([]specs.SegmentMetricSpec, Decimal) {
	index := make(map[string]int)
	var groups []segmentGroup

	for _, o := range MarketOrders(orders, r) {
		if !filter.Allows(o.Segment) {
			continue
		}
		i, ok := index[o.Segment]
		if !ok {
			i = len(groups)
			index[o.Segment] = i
			groups = append(groups, segmentGroup{
				segment:   o.Segment,
				orders:    make(map[string]struct{}),
				companies: make(map[string]struct{}),
				amount:    NewDecimalFromInt64(0),
			})
		}
		g := &groups[i]
		g.orders[o.ID] = struct{}{}
		if o.Organization != "" {
			g.companies[o.Organization] = struct{}{}
		}
		if o.HasAmount {
			g.amount = g.amount.Add(o.Amount)
		}
	}

	total := NewDecimalFromInt64(0)
	for _, g := range groups {
		total = total.Add(g.amount)
	}

	slices.SortFunc(groups, func(a, b segmentGroup) int {
		return cmp.Or(b.amount.Cmp(a.amount), cmp.Compare(a.segment, b.segment))
	})

	metrics := make([]specs.SegmentMetricSpec, 0, len(groups))
	for _, g := range groups {
		metrics = append(metrics, specs.SegmentMetricSpec{
			Segment:    g.segment,
			Orders:     len(g.orders),
			Companies:  len(g.companies),
			Amount:     g.amount.String(),
			Percentage: Percent(g.amount, total).String(),
		})
	}
	return metrics, total
}

type monthSegment struct {
	month   string
	segment string
}

// TimeSeries groups Market-origin orders in r by calendar month and segment.
// Only (month, segment) pairs with orders appear. Rows are sorted by month,
// then segment.
func TimeSeries(orders []Order, r DateRange) []specs.TimeSeriesPointSpec {
	index := make(map[monthSegment]int)
	var amounts []Decimal
	var ids []map[string]struct{}
	points := make([]specs.TimeSeriesPointSpec, 0)

	for _, o := range MarketOrders(orders, r) {
		key := monthSegment{month: o.CreatedOn.Format("2006-01"), segment: o.Segment}
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, specs.TimeSeriesPointSpec{Month: key.month, Segment: key.segment})
			amounts = append(amounts, NewDecimalFromInt64(0))
			ids = append(ids, make(map[string]struct{}))
		}
		ids[i][o.ID] = struct{}{}
		if o.HasAmount {
			amounts[i] = amounts[i].Add(o.Amount)
		}
	}

	for i := range points {
		points[i].Orders = len(ids[i])
		points[i].Amount = amounts[i].String()
	}

	slices.SortFunc(points, func(a, b specs.TimeSeriesPointSpec) int {
		return cmp.Or(cmp.Compare(a.Month, b.Month), cmp.Compare(a.Segment, b.Segment))
	})
	return points
}

// CompanyAmount is an organization with its summed order amount.
type CompanyAmount struct {
	Organization string
	Segment      string
	Amount       Decimal
}

// CompanyAmounts sums Market-origin order amounts in r per organization, in
// order of first appearance. Orders without an organization are skipped.
func CompanyAmounts(orders []Order, r DateRange) []CompanyAmount {
	index := make(map[string]int)
	companies := make([]CompanyAmount, 0)
	for _, o := range MarketOrders(orders, r) {
		if o.Organization == "" {
			continue
		}
		i, ok := index[o.Organization]
		if !ok {
			i = len(companies)
			index[o.Organization] = i
			companies = append(companies, CompanyAmount{
				Organization: o.Organization,
				Segment:      o.Segment,
				Amount:       NewDecimalFromInt64(0),
			})
		}
		if o.HasAmount {
			companies[i].Amount = companies[i].Amount.Add(o.Amount)
		}
	}
	return companies
}

// TopN ranks companies the filter allows by amount descending, ties broken
// by organization name, and keeps the first n. A non-positive n keeps all.
func TopN(companies []CompanyAmount, n int, filter SegmentFilter) []specs.RankedCompanySpec {
	ranked := make([]CompanyAmount, 0, len(companies))
	for _, c := range companies {
		if filter.Allows(c.Segment) {
			ranked = append(ranked, c)
		}
	}

	slices.SortStableFunc(ranked, func(a, b CompanyAmount) int {
		return cmp.Or(b.Amount.Cmp(a.Amount), cmp.Compare(a.Organization, b.Organization))
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	result := make([]specs.RankedCompanySpec, 0, len(ranked))
	for _, c := range ranked {
		result = append(result, specs.RankedCompanySpec{
			Organization: c.Organization,
			Segment:      c.Segment,
			Amount:       c.Amount.String(),
		})
	}
	return result
}

// OrderLines lists orders in r that satisfy keep, in input order.
func OrderLines(orders []Order, r DateRange, keep func(Order) bool) []specs.OrderLineSpec {
	lines := make([]specs.OrderLineSpec, 0)
	for _, o := range orders {
		if o.InRange(r) && keep(o) {
			lines = append(lines, o.ToSpec())
		}
	}
	return lines
}
