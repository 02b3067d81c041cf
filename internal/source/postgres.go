package source

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisconley/salesboard/specs"
)

// Querier is the subset of *pgxpool.Pool used by Postgres.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TableNames names the PostgreSQL tables holding the raw rows.
type TableNames struct {
	Organizations string
	Subscriptions string
	Orders        string
}

// Postgres loads the three tables from PostgreSQL. Every column is read as
// text so the normalizer sees the same cells a CSV export would carry.
type Postgres struct {
	db     Querier
	tables TableNames
}

func NewPostgres(db Querier, tables TableNames) *Postgres {
	return &Postgres{db: db, tables: tables}
}

// Connect opens a connection pool and checks it with a ping.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func (p *Postgres) Load(ctx context.Context) (specs.TablesSpec, error) {
	var tables specs.TablesSpec
	var err error

	tables.Organizations, err = queryRows(ctx, p.db, SelectText(p.tables.Organizations, OrganizationColumns),
		func(c []*string) specs.OrganizationSpec {
			return specs.OrganizationSpec{
				Name:    specs.CellValue(c[0]),
				Owner:   c[1],
				Country: c[2],
				Segment: c[3],
				Status:  c[4],
			}
		})
	if err != nil {
		return specs.TablesSpec{}, fmt.Errorf("load %s: %w", p.tables.Organizations, err)
	}

	tables.Subscriptions, err = queryRows(ctx, p.db, SelectText(p.tables.Subscriptions, SubscriptionColumns),
		func(c []*string) specs.SubscriptionSpec {
			return specs.SubscriptionSpec{
				Status:        specs.CellValue(c[0]),
				Company:       c[1],
				ConsoleDomain: c[2],
				Product:       c[3],
			}
		})
	if err != nil {
		return specs.TablesSpec{}, fmt.Errorf("load %s: %w", p.tables.Subscriptions, err)
	}

	tables.Orders, err = queryRows(ctx, p.db, SelectText(p.tables.Orders, OrderColumns),
		func(c []*string) specs.OrderSpec {
			return specs.OrderSpec{
				OrderID:      specs.CellValue(c[0]),
				Organization: c[1],
				CreatedBy:    c[2],
				ItemType:     c[3],
				TCVItem:      c[4],
				CreationDate: c[5],
				OrderStatus:  c[6],
				Product:      c[7],
			}
		})
	if err != nil {
		return specs.TablesSpec{}, fmt.Errorf("load %s: %w", p.tables.Orders, err)
	}

	return tables, nil
}

// SelectText builds a SELECT of the quoted columns cast to text.
func SelectText(table string, columns []string) sq.SelectBuilder {
	exprs := make([]string, len(columns))
	for i, c := range columns {
		exprs[i] = pgx.Identifier{c}.Sanitize() + "::text"
	}
	return sq.Select(exprs...).
		From(pgx.Identifier{table}.Sanitize()).
		PlaceholderFormat(sq.Dollar)
}

func queryRows[T any](ctx context.Context, db Querier, query sq.SelectBuilder, build func([]*string) T) ([]T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		cells := make([]*string, len(row.FieldDescriptions()))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := row.Scan(dest...); err != nil {
			var zero T
			return zero, err
		}
		for i, c := range cells {
			if c != nil {
				cells[i] = specs.NewCell(*c)
			}
		}
		return build(cells), nil
	})
}
