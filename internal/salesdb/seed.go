package salesdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/salespulse/internal/dbconn"
	"github.com/huangsam/salespulse/schema"
	"github.com/shopspring/decimal"
)

// ErrAlreadySeeded is returned when the sales table already has rows.
var ErrAlreadySeeded = errors.New("sales table is not empty")

// orderNamespace scopes generated order ids so reseeding yields the same ids.
var orderNamespace = uuid.MustParse("6f1c6e2a-5d0b-4a8e-9c55-3f2b7f0e9a41")

// SeedOptions controls demo data generation.
type SeedOptions struct {
	End            time.Time // Last month to generate (inclusive)
	Months         int       // Number of months ending at End
	OrdersPerMonth int       // Base orders per branch per month
	Seed           uint64    // Random seed
}

// DefaultSeedOptions returns two years of data ending in the current month.
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{End: time.Now(), Months: 24, OrdersPerMonth: 40, Seed: 42}
}

// SeedSummary reports what Seed inserted.
type SeedSummary struct {
	Branches int `json:"branches"`
	Products int `json:"products"`
	Orders   int `json:"orders"`
	Lines    int `json:"lines"`
}

type demoBranch struct {
	schema.Branch
	weight float64
}

type demoProduct struct {
	id, name, category string
	price              float64
}

var demoBranches = []demoBranch{
	{schema.Branch{ID: "NYC01", Name: "Midtown", City: "New York"}, 1.35},
	{schema.Branch{ID: "NYC02", Name: "Brooklyn", City: "New York"}, 1.0},
	{schema.Branch{ID: "CHI01", Name: "Loop", City: "Chicago"}, 0.9},
	{schema.Branch{ID: "SEA01", Name: "Capitol Hill", City: "Seattle"}, 0.7},
}

var demoProducts = []demoProduct{
	{"ESP-001", "Espresso Machine", "Appliances", 349.00},
	{"GRN-002", "Coffee Grinder", "Appliances", 129.50},
	{"BNS-003", "House Blend Beans", "Coffee", 18.75},
	{"BNS-004", "Single Origin Beans", "Coffee", 24.00},
	{"MUG-005", "Ceramic Mug", "Merchandise", 12.00},
	{"FLT-006", "Paper Filters", "Supplies", 6.25},
	{"KTL-007", "Gooseneck Kettle", "Appliances", 79.99},
	{"SCL-008", "Brew Scale", "Supplies", 45.00},
}

// productWeights skews demand so a few products dominate revenue.
var productWeights = []float64{0.08, 0.10, 0.30, 0.20, 0.12, 0.10, 0.05, 0.05}

// Seed fills an empty sales database with deterministic demo data.
func Seed(ctx context.Context, db *sql.DB, backend schema.DatabaseBackend, opts SeedOptions) (SeedSummary, error) {
	var summary SeedSummary
	if opts.Months <= 0 {
		return summary, fmt.Errorf("months must be positive, got %d", opts.Months)
	}
	if opts.OrdersPerMonth <= 0 {
		return summary, fmt.Errorf("orders per month must be positive, got %d", opts.OrdersPerMonth)
	}

	var existing int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sales").Scan(&existing); err != nil {
		return summary, fmt.Errorf("failed to inspect sales table: %w", err)
	}
	if existing > 0 {
		return summary, fmt.Errorf("%w: %d rows", ErrAlreadySeeded, existing)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	branchStmt := fmt.Sprintf("INSERT INTO branches (branch_id, name, city) VALUES (%s)", dbconn.Placeholders(backend, 1, 3))
	for _, b := range demoBranches {
		if _, err := tx.ExecContext(ctx, branchStmt, b.ID, b.Name, b.City); err != nil {
			return summary, fmt.Errorf("failed to insert branch %s: %w", b.ID, err)
		}
		summary.Branches++
	}

	productStmt := fmt.Sprintf("INSERT INTO products (product_id, name, category) VALUES (%s)", dbconn.Placeholders(backend, 1, 3))
	for _, p := range demoProducts {
		if _, err := tx.ExecContext(ctx, productStmt, p.id, p.name, p.category); err != nil {
			return summary, fmt.Errorf("failed to insert product %s: %w", p.id, err)
		}
		summary.Products++
	}

	saleStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO sales (order_id, branch_id, product_id, sold_at, quantity, net) VALUES (%s, %s, %s, %s, %s, %s)",
		dbconn.Placeholder(backend, 1), dbconn.Placeholder(backend, 2), dbconn.Placeholder(backend, 3),
		dbconn.DateParam(backend, 4), dbconn.Placeholder(backend, 5), dbconn.Placeholder(backend, 6)))
	if err != nil {
		return summary, fmt.Errorf("failed to prepare sales insert: %w", err)
	}
	defer func() { _ = saleStmt.Close() }()

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	last := time.Date(opts.End.Year(), opts.End.Month(), 1, 0, 0, 0, 0, time.UTC)
	first := last.AddDate(0, -(opts.Months - 1), 0)

	for m := 0; m < opts.Months; m++ {
		month := first.AddDate(0, m, 0)
		days := month.AddDate(0, 1, -1).Day()
		// Mild growth over time plus a year-end peak.
		trend := 1 + 0.02*float64(m)
		if month.Month() >= time.November {
			trend *= 1.25
		}
		for _, b := range demoBranches {
			orders := int(float64(opts.OrdersPerMonth) * b.weight * trend * (0.85 + 0.3*rng.Float64()))
			for o := 0; o < orders; o++ {
				orderID := uuid.NewSHA1(orderNamespace, fmt.Appendf(nil, "%s/%s/%d", b.ID, month.Format("2006-01"), o)).String()
				soldAt := month.AddDate(0, 0, rng.IntN(days)).Format(dayLayout)
				lines := 1 + rng.IntN(3)
				for l := 0; l < lines; l++ {
					p := demoProducts[pickWeighted(rng, productWeights)]
					qty := 1 + rng.IntN(3)
					net := decimal.NewFromFloat(p.price).Mul(decimal.NewFromInt(int64(qty))).Round(2)
					if _, err := saleStmt.ExecContext(ctx, orderID, b.ID, p.id, soldAt, qty, net); err != nil {
						return summary, fmt.Errorf("failed to insert sale line: %w", err)
					}
					summary.Lines++
				}
				summary.Orders++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("failed to commit seed data: %w", err)
	}
	return summary, nil
}

func pickWeighted(rng *rand.Rand, weights []float64) int {
	r := rng.Float64()
	var acc float64
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}
