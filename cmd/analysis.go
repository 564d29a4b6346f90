package cmd

import (
	"github.com/huangsam/salespulse/core"
	"github.com/huangsam/salespulse/internal/contract"
	"github.com/spf13/cobra"
)

// runAnalysis adapts an executor to a cobra Run function.
func runAnalysis(name string, exec core.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := exec(rootCtx, cfg, salesStore, cacheManager); err != nil {
			contract.LogFatal("Cannot run "+name+" analysis", err)
		}
	}
}

// compareCmd runs the pairwise branch comparison.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare monthly sales of two branches.",
	Long: `Fill the monthly sales grid for exactly two branches and compare them.

Months without sales count as zero. The report shows each branch's mean with a
confidence interval, the percent difference between the means, Welch's t-test
(t, degrees of freedom, p-value and a significance verdict at --alpha) and
Cohen's d with its magnitude label.

Examples:
  # Compare two branches over the last 12 months
  salespulse compare --branches NYC01,CHI01

  # Use a stricter significance level over a fixed window
  salespulse compare -b NYC01,NYC02 --start 2024-01 --end 2024-12 --alpha 0.01

  # Export the statistics to CSV
  salespulse compare -b NYC01,CHI01 --output csv --output-file compare.csv`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("compare", core.ExecuteCompare),
}

// trendCmd prints the filled monthly grid.
var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show the zero-filled month x branch sales grid.",
	Long: `Show monthly sales per branch with missing months filled with zero.

Prints the wide month x branch table and each branch's mean monthly sales with
a confidence interval. All branches are included when --branches is empty.

Examples:
  salespulse trend --start 2024-01 --end 2024-06
  salespulse trend -b NYC01,NYC02 --output xlsx --output-file trend.xlsx`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("trend", core.ExecuteTrend),
}

// paretoCmd ranks products or branches.
var paretoCmd = &cobra.Command{
	Use:   "pareto",
	Short: "Rank products or branches by revenue share.",
	Long: `Rank products or branches by sales with share, cumulative share and ABC class.

The footer lists how many entities make up the first 80% of revenue and the
Herfindahl-Hirschman index with its concentration band.

Examples:
  salespulse pareto --dimension product --limit 5
  salespulse pareto --dimension branch --output parquet --output-file branches.parquet`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("pareto", core.ExecutePareto),
}

// growthCmd prints year-over-year growth.
var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Show yearly totals and year-over-year growth.",
	Long: `Sum sales per calendar year across the selected branches and show the
percent change from each previous year. The first year has no growth value.

Examples:
  salespulse growth
  salespulse growth -b SEA01 --output json`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("growth", core.ExecuteGrowth),
}

// summaryCmd prints headline KPIs.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show total sales, orders, average ticket and data coverage.",
	Long: `Show headline figures for the window: total sales, distinct orders and the
average ticket, plus the date coverage of the sales table.

Examples:
  salespulse summary --start 2024-01 --end 2024-03`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("summary", core.ExecuteSummary),
}

// reportCmd prints every section at once.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the summary, trend, concentration and growth sections together.",
	Long: `Build every report section concurrently and print them together.

The comparison section is included when exactly two branches are selected.
Reports support text, json and xlsx output.

Examples:
  salespulse report -b NYC01,CHI01
  salespulse report --output xlsx --output-file report.xlsx`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("report", core.ExecuteReport),
}

// branchesCmd lists the branch catalog.
var branchesCmd = &cobra.Command{
	Use:     "branches",
	Short:   "List the known branches.",
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("branches", core.ExecuteBranches),
}
