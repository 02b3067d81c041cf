package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chrisconley/salesboard/specs"
)

// Column names of the raw tables. Headers are matched trimmed and
// case-insensitively.
var (
	OrganizationColumns = []string{"name", "owner", "country", "segment", "status"}
	SubscriptionColumns = []string{"status", "company", "console_domain", "product"}
	OrderColumns        = []string{
		"Order id",
		"Organization",
		"Order created by",
		"Order item type",
		"TCV Item",
		"Date Creation Order",
		"Order status",
		"Product",
	}
)

// CSV loads the three tables from files. An empty path leaves that table
// missing.
type CSV struct {
	Organizations string
	Subscriptions string
	Orders        string
}

func (c CSV) Load(ctx context.Context) (specs.TablesSpec, error) {
	var tables specs.TablesSpec
	var err error

	if tables.Organizations, err = loadFile(c.Organizations, ReadOrganizations); err != nil {
		return specs.TablesSpec{}, err
	}
	if err := ctx.Err(); err != nil {
		return specs.TablesSpec{}, err
	}
	if tables.Subscriptions, err = loadFile(c.Subscriptions, ReadSubscriptions); err != nil {
		return specs.TablesSpec{}, err
	}
	if err := ctx.Err(); err != nil {
		return specs.TablesSpec{}, err
	}
	if tables.Orders, err = loadFile(c.Orders, ReadOrders); err != nil {
		return specs.TablesSpec{}, err
	}

	return tables, nil
}

func loadFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadOrganizations parses an organizations CSV. Only "name" is required.
func ReadOrganizations(r io.Reader) ([]specs.OrganizationSpec, error) {
	return readRows(r, []string{"name"}, func(row record) specs.OrganizationSpec {
		return specs.OrganizationSpec{
			Name:    row.value("name"),
			Owner:   row.cell("owner"),
			Country: row.cell("country"),
			Segment: row.cell("segment"),
			Status:  row.cell("status"),
		}
	})
}

// ReadSubscriptions parses a subscriptions CSV. Only "status" is required.
func ReadSubscriptions(r io.Reader) ([]specs.SubscriptionSpec, error) {
	return readRows(r, []string{"status"}, func(row record) specs.SubscriptionSpec {
		return specs.SubscriptionSpec{
			Status:        row.value("status"),
			Company:       row.cell("company"),
			ConsoleDomain: row.cell("console_domain"),
			Product:       row.cell("product"),
		}
	})
}

// ReadOrders parses an orders CSV. Only "Order id" is required.
func ReadOrders(r io.Reader) ([]specs.OrderSpec, error) {
	return readRows(r, []string{"order id"}, func(row record) specs.OrderSpec {
		return specs.OrderSpec{
			OrderID:      row.value("order id"),
			Organization: row.cell("organization"),
			CreatedBy:    row.cell("order created by"),
			ItemType:     row.cell("order item type"),
			TCVItem:      row.cell("tcv item"),
			CreationDate: row.cell("date creation order"),
			OrderStatus:  row.cell("order status"),
			Product:      row.cell("product"),
		}
	})
}

type record struct {
	index  map[string]int
	fields []string
}

// cell returns nil for a missing column or blank value.
func (r record) cell(key string) *string {
	pos, ok := r.index[key]
	if !ok || pos >= len(r.fields) {
		return nil
	}
	return specs.NewCell(r.fields[pos])
}

func (r record) value(key string) string {
	return specs.CellValue(r.cell(key))
}

func readRows[T any](r io.Reader, required []string, build func(record) T) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := mapHeaders(header)
	if missing := missingHeaders(required, index); len(missing) > 0 {
		return nil, fmt.Errorf("missing required headers: %s", strings.Join(missing, ", "))
	}

	var rows []T
	line := 1
	for {
		line++
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, build(record{index: index, fields: fields}))
	}
	return rows, nil
}

func mapHeaders(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if i == 0 {
			key = strings.TrimPrefix(key, "\ufeff")
		}
		index[key] = i
	}
	return index
}

func missingHeaders(required []string, index map[string]int) []string {
	var missing []string
	for _, key := range required {
		if _, ok := index[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
