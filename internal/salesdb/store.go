// Package salesdb reads sales aggregates from MySQL, PostgreSQL or SQLite.
package salesdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/dbconn"
	"github.com/huangsam/salespulse/schema"
	"github.com/shopspring/decimal"
)

// dayLayout is the bind format for date parameters.
const dayLayout = "2006-01-02"

// Store is a SalesSource backed by a SQL database.
type Store struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SalesSource = &Store{} // Compile-time check

// Open connects to the sales database. An empty SQLite connection string uses the default file.
func Open(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	if _, ok := schema.ValidSalesBackends[backend]; !ok {
		return nil, fmt.Errorf("unsupported sales backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}
	db, err := dbconn.Open(backend, connStr, contract.GetSalesDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open sales database: %w", err)
	}
	return New(db, backend), nil
}

// New wraps an open handle.
func New(db *sql.DB, backend schema.DatabaseBackend) *Store {
	return &Store{db: db, backend: backend}
}

// DB exposes the underlying handle for migrations and seeding.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Backend returns the SQL dialect of the store.
func (s *Store) Backend() schema.DatabaseBackend {
	return s.backend
}

// Close closes the underlying DB connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// filter accumulates WHERE conditions and their bind arguments.
type filter struct {
	backend schema.DatabaseBackend
	conds   []string
	args    []any
}

func (f *filter) dateRange(col string, start, end time.Time) {
	n := len(f.args)
	f.conds = append(f.conds, fmt.Sprintf("%s BETWEEN %s AND %s", col,
		dbconn.DateParam(f.backend, n+1), dbconn.DateParam(f.backend, n+2)))
	f.args = append(f.args, start.Format(dayLayout), end.Format(dayLayout))
}

func (f *filter) in(col string, values []string) {
	if len(values) == 0 {
		return
	}
	f.conds = append(f.conds, fmt.Sprintf("%s IN (%s)", col, dbconn.Placeholders(f.backend, len(f.args)+1, len(values))))
	for _, v := range values {
		f.args = append(f.args, v)
	}
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// ListBranches returns every branch ordered by city and name.
func (s *Store) ListBranches(ctx context.Context) ([]schema.Branch, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT branch_id, name, city FROM branches ORDER BY city, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Branch
	for rows.Next() {
		var b schema.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.City); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DataRange returns the first and last sale dates and the row count.
func (s *Store) DataRange(ctx context.Context) (schema.DataRange, error) {
	var minDate, maxDate sql.NullString
	var dr schema.DataRange
	row := s.db.QueryRowContext(ctx, "SELECT MIN(sold_at), MAX(sold_at), COUNT(*) FROM sales")
	if err := row.Scan(&minDate, &maxDate, &dr.Rows); err != nil {
		return dr, fmt.Errorf("failed to read sales coverage: %w", err)
	}
	var err error
	if dr.MinDate, err = parseDay(minDate); err != nil {
		return dr, err
	}
	if dr.MaxDate, err = parseDay(maxDate); err != nil {
		return dr, err
	}
	return dr, nil
}

// FetchMonthlyTotals returns per-branch monthly totals for sales dated within [start, end].
// An empty branch list selects every branch.
func (s *Store) FetchMonthlyTotals(ctx context.Context, branches []string, start, end time.Time) ([]schema.Observation, error) {
	f := &filter{backend: s.backend}
	f.dateRange("s.sold_at", start, end)
	f.in("s.branch_id", branches)

	query := fmt.Sprintf(`SELECT s.branch_id, %s AS sale_year, %s AS sale_month, SUM(s.net) AS total
		FROM sales s%s
		GROUP BY 1, 2, 3
		ORDER BY 2, 3, 1`,
		dbconn.YearExpr(s.backend, "s.sold_at"), dbconn.MonthExpr(s.backend, "s.sold_at"), f.where())

	rows, err := s.db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch monthly totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Observation
	for rows.Next() {
		var o schema.Observation
		var total decimal.NullDecimal
		if err := rows.Scan(&o.EntityID, &o.Year, &o.Month, &total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		o.Amount = total.Decimal.InexactFloat64()
		out = append(out, o)
	}
	return out, rows.Err()
}

// FetchAnnualTotals returns yearly totals over the given branches (all when empty).
func (s *Store) FetchAnnualTotals(ctx context.Context, branches []string) ([]schema.YearAmount, error) {
	f := &filter{backend: s.backend}
	f.in("s.branch_id", branches)

	query := fmt.Sprintf(`SELECT %s AS sale_year, SUM(s.net) AS total
		FROM sales s%s
		GROUP BY 1
		ORDER BY 1`, dbconn.YearExpr(s.backend, "s.sold_at"), f.where())

	rows, err := s.db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch annual totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.YearAmount
	for rows.Next() {
		var y schema.YearAmount
		var total decimal.NullDecimal
		if err := rows.Scan(&y.Year, &total); err != nil {
			return nil, fmt.Errorf("failed to scan annual total: %w", err)
		}
		y.Amount = total.Decimal.InexactFloat64()
		out = append(out, y)
	}
	return out, rows.Err()
}

// FetchEntityAggregates returns total sales per product or branch within [start, end].
func (s *Store) FetchEntityAggregates(ctx context.Context, dim schema.Dimension, branches []string, start, end time.Time) ([]schema.EntityAmount, error) {
	f := &filter{backend: s.backend}
	f.dateRange("s.sold_at", start, end)
	f.in("s.branch_id", branches)

	var query string
	switch dim {
	case schema.ProductDimension:
		query = fmt.Sprintf(`SELECT p.product_id, p.name, '' AS extra, SUM(s.net) AS total
			FROM sales s
			JOIN products p ON p.product_id = s.product_id%s
			GROUP BY p.product_id, p.name`, f.where())
	case schema.BranchDimension:
		query = fmt.Sprintf(`SELECT b.branch_id, b.name, b.city, SUM(s.net) AS total
			FROM sales s
			JOIN branches b ON b.branch_id = s.branch_id%s
			GROUP BY b.branch_id, b.name, b.city`, f.where())
	default:
		return nil, fmt.Errorf("unsupported dimension: %s", dim)
	}

	rows, err := s.db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s aggregates: %w", dim, err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.EntityAmount
	for rows.Next() {
		var id, name, extra string
		var total decimal.NullDecimal
		if err := rows.Scan(&id, &name, &extra, &total); err != nil {
			return nil, fmt.Errorf("failed to scan %s aggregate: %w", dim, err)
		}
		label := name
		if dim == schema.BranchDimension {
			label = schema.Branch{ID: id, Name: name, City: extra}.Label()
		}
		out = append(out, schema.EntityAmount{EntityID: id, Label: label, Amount: total.Decimal.InexactFloat64()})
	}
	return out, rows.Err()
}

// FetchKPIs returns total sales, distinct orders and the average ticket within [start, end].
func (s *Store) FetchKPIs(ctx context.Context, branches []string, start, end time.Time) (schema.KPISummary, error) {
	f := &filter{backend: s.backend}
	f.dateRange("s.sold_at", start, end)
	f.in("s.branch_id", branches)

	query := fmt.Sprintf(`SELECT SUM(s.net) AS total, COUNT(DISTINCT s.order_id) AS orders FROM sales s%s`, f.where())

	var total decimal.NullDecimal
	var kpis schema.KPISummary
	if err := s.db.QueryRowContext(ctx, query, f.args...).Scan(&total, &kpis.Orders); err != nil {
		return kpis, fmt.Errorf("failed to fetch KPIs: %w", err)
	}
	kpis.TotalSales = total.Decimal.InexactFloat64()
	if kpis.Orders > 0 {
		kpis.AverageTicket = total.Decimal.DivRound(decimal.NewFromInt(int64(kpis.Orders)), 2).InexactFloat64()
	}
	return kpis, nil
}

// parseDay reads the leading YYYY-MM-DD of a driver-formatted date.
func parseDay(v sql.NullString) (time.Time, error) {
	if !v.Valid || v.String == "" {
		return time.Time{}, nil
	}
	s := v.String
	if len(s) > len(dayLayout) {
		s = s[:len(dayLayout)]
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse sale date %q: %w", v.String, err)
	}
	return t, nil
}
