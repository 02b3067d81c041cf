package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/chrisconley/salesboard/specs"
)

// Table is a section of the report rendered as named columns of text cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

var (
	UnsegmentedCompaniesColumns  = []string{"owner", "name"}
	FilteredSubscriptionsColumns = []string{"status", "company", "console_domain", "product"}
	OwnerCountrySummaryColumns   = []string{"owner", "country", "Active", "Pending", "Suspended", "Other", "Total", "Completion%"}
)

// Tables returns every exportable section of the report, in a fixed order.
func Tables(report specs.ReportSpec) []Table {
	return []Table{
		UnsegmentedCompanies(report.UnsegmentedCompanies),
		FilteredSubscriptions(report.FilteredSubscriptions),
		OwnerCountrySummary(report.OwnerCountrySummary),
	}
}

func UnsegmentedCompanies(rows []specs.UnsegmentedCompanySpec) Table {
	t := Table{Name: "unsegmented_companies", Columns: UnsegmentedCompaniesColumns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Owner, r.Name})
	}
	return t
}

func FilteredSubscriptions(rows []specs.SubscriptionSpec) Table {
	t := Table{Name: "filtered_subscriptions", Columns: FilteredSubscriptionsColumns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Status,
			specs.CellValue(r.Company),
			specs.CellValue(r.ConsoleDomain),
			specs.CellValue(r.Product),
		})
	}
	return t
}

func OwnerCountrySummary(rows []specs.OwnerCountrySummarySpec) Table {
	t := Table{Name: "owner_country_summary", Columns: OwnerCountrySummaryColumns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Owner,
			r.Country,
			strconv.Itoa(r.Active),
			strconv.Itoa(r.Pending),
			strconv.Itoa(r.Suspended),
			strconv.Itoa(r.Other),
			strconv.Itoa(r.Total),
			r.CompletionPct,
		})
	}
	return t
}

// Write renders the table as CSV with a header row.
func Write(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write %s header: %w", t.Name, err)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("write %s row %d: %d cells for %d columns", t.Name, i+1, len(row), len(t.Columns))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s row %d: %w", t.Name, i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses a CSV written by Write. The first record is the header.
func Read(r io.Reader) (Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, errors.New("read csv: missing header")
	}
	return Table{Columns: records[0], Rows: records[1:]}, nil
}

// ParseOwnerCountrySummary converts a table read back from CSV into summary
// rows. Columns are matched by name.
func ParseOwnerCountrySummary(t Table) ([]specs.OwnerCountrySummarySpec, error) {
	index := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		index[c] = i
	}
	for _, c := range OwnerCountrySummaryColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	out := make([]specs.OwnerCountrySummarySpec, 0, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, fmt.Errorf("row %d: %d cells for %d columns", i+1, len(row), len(t.Columns))
		}
		counts := make(map[string]int, 5)
		for _, c := range []string{"Active", "Pending", "Suspended", "Other", "Total"} {
			n, err := strconv.Atoi(row[index[c]])
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s: %w", i+1, c, err)
			}
			counts[c] = n
		}
		out = append(out, specs.OwnerCountrySummarySpec{
			Owner:         row[index["owner"]],
			Country:       row[index["country"]],
			Active:        counts["Active"],
			Pending:       counts["Pending"],
			Suspended:     counts["Suspended"],
			Other:         counts["Other"],
			Total:         counts["Total"],
			CompletionPct: row[index["Completion%"]],
		})
	}
	return out, nil
}
