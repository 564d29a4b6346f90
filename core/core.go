// Package core has core logic for comparing branches, filling monthly grids and
// measuring sales concentration.
package core

import (
	"context"
	"time"

	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/outwriter"
)

// ExecutorFunc defines the function signature for executing different report modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager) error

var writer = outwriter.NewOutWriter()

// ExecuteCompare runs the pairwise branch comparison and prints results.
// It serves as the main entry point for the 'compare' mode.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager) error {
	start := time.Now()
	res, err := CompareBranches(ctx, cfg, NewCachedSource(src, mgr, cfg.CacheTTL))
	if err != nil {
		return err
	}
	return writer.WriteComparison(res, cfg, time.Since(start))
}

// ExecuteTrend fills and prints the monthly grid.
func ExecuteTrend(ctx context.Context, cfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager) error {
	start := time.Now()
	res, err := BuildTrend(ctx, cfg, NewCachedSource(src, mgr, cfg.CacheTTL))
	if err != nil {
		return err
	}
	return writer.WriteTrend(res, cfg, time.Since(start))
}

// ExecutePareto ranks products or branches and prints the Pareto table.
func ExecutePareto(ctx context.Context, cfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager) error {
	start := time.Now()
	res, err := BuildPareto(ctx, cfg, NewCachedSource(src, mgr, cfg.CacheTTL))
	if err != nil {
		return err
	}
	return writer.WritePareto(res, cfg, time.Since(start))
}

// ExecuteGrowth prints year-over-year growth.
func ExecuteGrowth(ctx context.Context, cfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager) error {
	start := time.Now()
	res, err := BuildGrowth(ctx, cfg, NewCachedSource(src, mgr, cfg.CacheTTL))
	if err != nil {
		return err
	}
	return writer.WriteGrowth(res, cfg, time.Since(start))
}

// ExecuteSummary prints headline KPIs and data coverage.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager) error {
	start := time.Now()
	res, err := BuildSummary(ctx, cfg, NewCachedSource(src, mgr, cfg.CacheTTL))
	if err != nil {
		return err
	}
	return writer.WriteSummary(res, cfg, time.Since(start))
}

// ExecuteReport builds every section concurrently and prints them together.
func ExecuteReport(ctx context.Context, cfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager) error {
	start := time.Now()
	res, err := BuildReport(ctx, cfg, NewCachedSource(src, mgr, cfg.CacheTTL))
	if err != nil {
		return err
	}
	return writer.WriteReport(res, cfg, time.Since(start))
}

// ExecuteBranches prints the branch catalog.
func ExecuteBranches(ctx context.Context, cfg *contract.Config, src contract.SalesSource, mgr contract.CacheManager) error {
	branches, err := NewCachedSource(src, mgr, cfg.CacheTTL).ListBranches(ctx)
	if err != nil {
		return err
	}
	return writer.WriteBranches(branches, cfg)
}
