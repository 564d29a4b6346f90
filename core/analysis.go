package core

import (
	"context"
	"fmt"
	"slices"

	"github.com/huangsam/salespulse/core/concentration"
	"github.com/huangsam/salespulse/core/grid"
	"github.com/huangsam/salespulse/core/stats"
	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/schema"
	"golang.org/x/sync/errgroup"
)

// CompareBranches fills the monthly grid for exactly two branches and runs
// every pairwise statistic over the two monthly series.
func CompareBranches(ctx context.Context, cfg *contract.Config, src contract.SalesSource) (schema.BranchComparison, error) {
	a, b, err := contract.RequireBranchPair(cfg.Branches)
	if err != nil {
		return schema.BranchComparison{}, err
	}
	if err := contract.ValidateRange(cfg.StartTime, cfg.EndTime); err != nil {
		return schema.BranchComparison{}, err
	}

	obs, err := src.FetchMonthlyTotals(ctx, []string{a, b}, cfg.StartTime, cfg.EndTime)
	if err != nil {
		return schema.BranchComparison{}, err
	}
	return compareFrom(ctx, cfg, a, b, obs), nil
}

// compareFrom runs the pairwise statistics over observations already fetched for a and b.
func compareFrom(ctx context.Context, cfg *contract.Config, a, b string, obs []schema.Observation) schema.BranchComparison {
	rows := grid.FillRange(obs, []string{a, b}, cfg.StartTime, cfg.EndTime)
	seriesA, seriesB := grid.Series(rows, a), grid.Series(rows, b)

	res := schema.BranchComparison{
		BranchA:   a,
		BranchB:   b,
		Start:     cfg.StartTime.Format(contract.DayLayout),
		End:       cfg.EndTime.Format(contract.DayLayout),
		Months:    len(seriesA),
		Means:     stats.CompareMeans(a, seriesA, b, seriesB),
		IntervalA: stats.ConfidenceInterval(seriesA, cfg.Alpha),
		IntervalB: stats.ConfidenceInterval(seriesB, cfg.Alpha),
		Magnitude: schema.Undefined,
		Rows:      rows,
	}
	if tt, ok := stats.WelchTTest(seriesA, seriesB); ok {
		res.TTest = &tt
		significant := tt.PValue < cfg.Alpha
		res.Significant = &significant
	}
	if d, ok := stats.CohensD(seriesA, seriesB); ok {
		res.CohensD = schema.Float(d)
		res.Magnitude = stats.Magnitude(d, cfg.EffectBands)
	}

	contract.LoggerFrom(ctx).Debug().
		Str("branch_a", a).
		Str("branch_b", b).
		Int("months", res.Months).
		Msg("compared branches")
	return res
}

// BuildTrend fills the monthly grid for the configured branches (all branches
// when none are given) and adds the wide pivot plus a mean interval per branch.
func BuildTrend(ctx context.Context, cfg *contract.Config, src contract.SalesSource) (schema.TrendResult, error) {
	if err := contract.ValidateRange(cfg.StartTime, cfg.EndTime); err != nil {
		return schema.TrendResult{}, err
	}
	branches, err := resolveBranches(ctx, cfg, src)
	if err != nil {
		return schema.TrendResult{}, err
	}

	obs, err := src.FetchMonthlyTotals(ctx, branches, cfg.StartTime, cfg.EndTime)
	if err != nil {
		return schema.TrendResult{}, err
	}
	return buildTrendFrom(cfg, branches, obs), nil
}

func buildTrendFrom(cfg *contract.Config, branches []string, obs []schema.Observation) schema.TrendResult {
	rows := grid.FillRange(obs, branches, cfg.StartTime, cfg.EndTime)

	res := schema.TrendResult{
		Start: cfg.StartTime.Format(contract.DayLayout),
		End:   cfg.EndTime.Format(contract.DayLayout),
		Rows:  rows,
		Wide:  grid.Pivot(rows),
	}
	for _, id := range res.Wide.Entities {
		res.Intervals = append(res.Intervals, schema.BranchInterval{
			BranchID: id,
			Interval: stats.ConfidenceInterval(grid.Series(rows, id), cfg.Alpha),
		})
	}
	return res
}

// BuildPareto ranks products or branches by sales within the window and keeps the top ResultLimit rows.
func BuildPareto(ctx context.Context, cfg *contract.Config, src contract.SalesSource) (schema.ParetoResult, error) {
	if err := contract.ValidateRange(cfg.StartTime, cfg.EndTime); err != nil {
		return schema.ParetoResult{}, err
	}
	aggs, err := src.FetchEntityAggregates(ctx, cfg.Dimension, cfg.Branches, cfg.StartTime, cfg.EndTime)
	if err != nil {
		return schema.ParetoResult{}, err
	}
	res := concentration.Pareto(aggs)
	res.Dimension = cfg.Dimension
	return concentration.Top(res, cfg.ResultLimit), nil
}

// BuildGrowth computes year-over-year growth over the configured branches.
func BuildGrowth(ctx context.Context, cfg *contract.Config, src contract.SalesSource) (schema.GrowthResult, error) {
	years, err := src.FetchAnnualTotals(ctx, cfg.Branches)
	if err != nil {
		return schema.GrowthResult{}, err
	}
	return schema.GrowthResult{
		Branches: slices.Clone(cfg.Branches),
		Rows:     concentration.YoYGrowth(years),
	}, nil
}

// BuildSummary returns headline KPIs for the window along with the table coverage.
func BuildSummary(ctx context.Context, cfg *contract.Config, src contract.SalesSource) (schema.SummaryResult, error) {
	if err := contract.ValidateRange(cfg.StartTime, cfg.EndTime); err != nil {
		return schema.SummaryResult{}, err
	}
	kpis, err := src.FetchKPIs(ctx, cfg.Branches, cfg.StartTime, cfg.EndTime)
	if err != nil {
		return schema.SummaryResult{}, err
	}
	coverage, err := src.DataRange(ctx)
	if err != nil {
		return schema.SummaryResult{}, err
	}
	return schema.SummaryResult{
		Start:    cfg.StartTime.Format(contract.DayLayout),
		End:      cfg.EndTime.Format(contract.DayLayout),
		Branches: slices.Clone(cfg.Branches),
		KPIs:     kpis,
		Coverage: coverage,
	}, nil
}

// BuildReport assembles every section concurrently. The comparison section is
// only present when exactly two branches are configured; in that case the
// monthly totals are fetched once and shared by the trend and comparison.
func BuildReport(ctx context.Context, cfg *contract.Config, src contract.SalesSource) (schema.ReportResult, error) {
	if len(cfg.Branches) == 2 {
		return buildPairReport(ctx, cfg, src)
	}

	var res schema.ReportResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.Trend, err = BuildTrend(gctx, cfg, src)
		return wrapSection("trend", err)
	})
	goCommonSections(gctx, g, cfg, src, &res)

	if err := g.Wait(); err != nil {
		return schema.ReportResult{}, err
	}
	return res, nil
}

func buildPairReport(ctx context.Context, cfg *contract.Config, src contract.SalesSource) (schema.ReportResult, error) {
	a, b, err := contract.RequireBranchPair(cfg.Branches)
	if err != nil {
		return schema.ReportResult{}, wrapSection("compare", err)
	}
	if err := contract.ValidateRange(cfg.StartTime, cfg.EndTime); err != nil {
		return schema.ReportResult{}, wrapSection("trend", err)
	}
	pair := []string{a, b}

	var res schema.ReportResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obs, err := src.FetchMonthlyTotals(gctx, pair, cfg.StartTime, cfg.EndTime)
		if err != nil {
			return wrapSection("trend", err)
		}
		res.Trend = buildTrendFrom(cfg, pair, obs)
		cmp := compareFrom(gctx, cfg, a, b, obs)
		res.Compare = &cmp
		return nil
	})
	goCommonSections(gctx, g, cfg, src, &res)

	if err := g.Wait(); err != nil {
		return schema.ReportResult{}, err
	}
	return res, nil
}

// goCommonSections schedules the sections that do not read the monthly grid.
func goCommonSections(ctx context.Context, g *errgroup.Group, cfg *contract.Config, src contract.SalesSource, res *schema.ReportResult) {
	g.Go(func() (err error) {
		res.Summary, err = BuildSummary(ctx, cfg, src)
		return wrapSection("summary", err)
	})
	g.Go(func() (err error) {
		res.Pareto, err = BuildPareto(ctx, cfg, src)
		return wrapSection("pareto", err)
	})
	g.Go(func() (err error) {
		res.Growth, err = BuildGrowth(ctx, cfg, src)
		return wrapSection("growth", err)
	})
}

func wrapSection(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s section: %w", name, err)
}

// resolveBranches returns the configured branches or every known branch id.
func resolveBranches(ctx context.Context, cfg *contract.Config, src contract.SalesSource) ([]string, error) {
	if len(cfg.Branches) > 0 {
		return cfg.Branches, nil
	}
	all, err := src.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, b := range all {
		ids[i] = b.ID
	}
	return ids, nil
}
