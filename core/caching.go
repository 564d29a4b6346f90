package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// CachedSource decorates a SalesSource with a TTL-checked result cache.
type CachedSource struct {
	src   contract.SalesSource
	store contract.CacheStore
	ttl   time.Duration
	now   func() time.Time
}

var _ contract.SalesSource = &CachedSource{} // Compile-time check

// NewCachedSource wraps src. Caching is skipped when mgr has no store or ttl is zero.
func NewCachedSource(src contract.SalesSource, mgr contract.CacheManager, ttl time.Duration) *CachedSource {
	c := &CachedSource{src: src, ttl: ttl, now: time.Now}
	if mgr != nil {
		c.store = mgr.GetResultStore()
	}
	return c
}

// cached serves op from the cache when a fresh entry exists, otherwise runs fetch and stores its result.
func cached[T any](ctx context.Context, c *CachedSource, op string, args []string, fetch func() (T, error)) (T, error) {
	if c.store == nil || c.ttl <= 0 || shouldBypassCache(ctx) {
		return fetch()
	}

	key := generateCacheKey(op, args)

	// Check for cache hit
	if result, ok := checkCacheHit[T](c, key); ok {
		contract.LoggerFrom(ctx).Debug().Str("op", op).Msg("cache hit")
		return result, nil
	}

	// Cache miss: compute and store
	result, err := fetch()
	if err != nil {
		return result, err
	}
	if data, err := json.Marshal(result); err == nil {
		if err := c.store.Set(key, data, currentCacheVersion, c.now().Unix()); err != nil {
			contract.LoggerFrom(ctx).Warn().Err(err).Str("op", op).Msg("failed to write cache entry")
		}
	}
	return result, nil
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit[T any](c *CachedSource, key string) (T, bool) {
	var result T
	data, version, ts, err := c.store.Get(key)
	if err != nil {
		return result, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || c.now().Sub(time.Unix(ts, 0)) > c.ttl {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

// generateCacheKey hashes the operation with its normalized arguments.
func generateCacheKey(op string, args []string) string {
	key := op + ":" + strings.Join(args, ":")
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// branchArg renders a branch filter independent of order.
func branchArg(branches []string) string {
	sorted := slices.Clone(branches)
	slices.Sort(sorted)
	return strings.Join(sorted, ",")
}

func dateArg(t time.Time) string {
	return t.Format(contract.DayLayout)
}

// ListBranches implements the SalesSource interface.
func (c *CachedSource) ListBranches(ctx context.Context) ([]schema.Branch, error) {
	return cached(ctx, c, "branches", nil, func() ([]schema.Branch, error) {
		return c.src.ListBranches(ctx)
	})
}

// DataRange implements the SalesSource interface.
func (c *CachedSource) DataRange(ctx context.Context) (schema.DataRange, error) {
	return cached(ctx, c, "range", nil, func() (schema.DataRange, error) {
		return c.src.DataRange(ctx)
	})
}

// FetchMonthlyTotals implements the SalesSource interface.
func (c *CachedSource) FetchMonthlyTotals(ctx context.Context, branches []string, start, end time.Time) ([]schema.Observation, error) {
	args := []string{branchArg(branches), dateArg(start), dateArg(end)}
	return cached(ctx, c, "monthly", args, func() ([]schema.Observation, error) {
		return c.src.FetchMonthlyTotals(ctx, branches, start, end)
	})
}

// FetchAnnualTotals implements the SalesSource interface.
func (c *CachedSource) FetchAnnualTotals(ctx context.Context, branches []string) ([]schema.YearAmount, error) {
	return cached(ctx, c, "annual", []string{branchArg(branches)}, func() ([]schema.YearAmount, error) {
		return c.src.FetchAnnualTotals(ctx, branches)
	})
}

// FetchEntityAggregates implements the SalesSource interface.
func (c *CachedSource) FetchEntityAggregates(ctx context.Context, dim schema.Dimension, branches []string, start, end time.Time) ([]schema.EntityAmount, error) {
	args := []string{string(dim), branchArg(branches), dateArg(start), dateArg(end)}
	return cached(ctx, c, "entities", args, func() ([]schema.EntityAmount, error) {
		return c.src.FetchEntityAggregates(ctx, dim, branches, start, end)
	})
}

// FetchKPIs implements the SalesSource interface.
func (c *CachedSource) FetchKPIs(ctx context.Context, branches []string, start, end time.Time) (schema.KPISummary, error) {
	args := []string{branchArg(branches), dateArg(start), dateArg(end)}
	return cached(ctx, c, "kpis", args, func() (schema.KPISummary, error) {
		return c.src.FetchKPIs(ctx, branches, start, end)
	})
}

// Close closes the wrapped source. The cache store is owned by its manager.
func (c *CachedSource) Close() error {
	return c.src.Close()
}
