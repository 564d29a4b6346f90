// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/salespulse/schema"
)

// SalesSource defines the read operations needed from a sales store.
// This allows the analysis logic to be tested without a real database.
type SalesSource interface {
	// --- Catalog ---

	// ListBranches returns every known branch ordered by city and name.
	ListBranches(ctx context.Context) ([]schema.Branch, error)

	// DataRange returns the date coverage of the sales table.
	DataRange(ctx context.Context) (schema.DataRange, error)

	// --- Aggregates ---

	// FetchMonthlyTotals returns per-branch monthly totals for sales dated within [start, end].
	FetchMonthlyTotals(ctx context.Context, branches []string, start, end time.Time) ([]schema.Observation, error)

	// FetchAnnualTotals returns yearly totals across the given branches (all branches when empty).
	FetchAnnualTotals(ctx context.Context, branches []string) ([]schema.YearAmount, error)

	// FetchEntityAggregates returns total amounts per product or branch within [start, end].
	FetchEntityAggregates(ctx context.Context, dim schema.Dimension, branches []string, start, end time.Time) ([]schema.EntityAmount, error)

	// FetchKPIs returns headline figures within [start, end].
	FetchKPIs(ctx context.Context, branches []string, start, end time.Time) (schema.KPISummary, error)

	// Close closes the underlying connection.
	Close() error
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
