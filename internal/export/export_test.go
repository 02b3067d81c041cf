package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chrisconley/salesboard/specs"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestOwnerCountrySummaryRoundTrip(t *testing.T) {
	rows := []specs.OwnerCountrySummarySpec{
		{Owner: "ana", Country: "AR", Active: 2, Pending: 1, Suspended: 0, Other: 1, Total: 4, CompletionPct: "50.00"},
		{Owner: "luis", Country: "CL", Active: 0, Pending: 0, Suspended: 3, Other: 0, Total: 3, CompletionPct: "0"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, OwnerCountrySummary(rows)))

	table, err := Read(&buf)
	require.NoError(t, err)

	t.Run("preserves column order", func(t *testing.T) {
		assert.Equal(t, OwnerCountrySummaryColumns, table.Columns)
	})

	t.Run("preserves row count", func(t *testing.T) {
		assert.Len(t, table.Rows, len(rows))
	})

	t.Run("preserves numeric values", func(t *testing.T) {
		parsed, err := ParseOwnerCountrySummary(table)
		require.NoError(t, err)

		if diff := cmp.Diff(rows, parsed); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestWrite(t *testing.T) {
	t.Run("null cells become empty strings", func(t *testing.T) {
		subs := []specs.SubscriptionSpec{
			{Status: "active", ConsoleDomain: ptr("acme.io"), Product: nil},
		}

		var buf bytes.Buffer
		require.NoError(t, Write(&buf, FilteredSubscriptions(subs)))

		assert.Equal(t, "status,company,console_domain,product\nactive,,acme.io,\n", buf.String())
	})

	t.Run("quotes cells with separators", func(t *testing.T) {
		rows := []specs.UnsegmentedCompanySpec{{Owner: "ana", Name: "Acme, Inc."}}

		var buf bytes.Buffer
		require.NoError(t, Write(&buf, UnsegmentedCompanies(rows)))

		assert.Equal(t, "owner,name\nana,\"Acme, Inc.\"\n", buf.String())
	})

	t.Run("empty sections still write a header", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, UnsegmentedCompanies(nil)))

		assert.Equal(t, "owner,name\n", buf.String())
	})

	t.Run("rejects ragged rows", func(t *testing.T) {
		table := Table{Name: "x", Columns: []string{"a", "b"}, Rows: [][]string{{"1"}}}

		err := Write(&bytes.Buffer{}, table)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 cells for 2 columns")
	})
}

func TestRead(t *testing.T) {
	t.Run("empty input has no header", func(t *testing.T) {
		_, err := Read(strings.NewReader(""))
		require.Error(t, err)
	})
}

func TestParseOwnerCountrySummary(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		_, err := ParseOwnerCountrySummary(Table{Columns: []string{"owner", "country"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing column "Active"`)
	})

	t.Run("non numeric count", func(t *testing.T) {
		table := Table{
			Columns: OwnerCountrySummaryColumns,
			Rows:    [][]string{{"ana", "AR", "x", "0", "0", "0", "0", "0"}},
		}

		_, err := ParseOwnerCountrySummary(table)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1: invalid Active")
	})
}

func TestTables(t *testing.T) {
	report := specs.ReportSpec{
		UnsegmentedCompanies: []specs.UnsegmentedCompanySpec{{Owner: "ana", Name: "Acme"}},
	}

	tables := Tables(report)

	require.Len(t, tables, 3)
	assert.Equal(t, "unsegmented_companies", tables[0].Name)
	assert.Equal(t, [][]string{{"ana", "Acme"}}, tables[0].Rows)
	assert.Equal(t, "filtered_subscriptions", tables[1].Name)
	assert.Empty(t, tables[1].Rows)
	assert.Equal(t, "owner_country_summary", tables[2].Name)
}
