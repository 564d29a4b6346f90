// Package cmd defines the command-line interface for salespulse.
package cmd

import (
	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/salesdb"
	"github.com/huangsam/salespulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(paretoCmd)
	rootCmd.AddCommand(growthCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cachePruneCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbSeedCmd)
	dbCmd.AddCommand(dbStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("start", "", "First month of the window (YYYY-MM or YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("end", "", "Last month of the window (YYYY-MM or YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringP("branches", "b", "", "Comma-separated branch ids")
	rootCmd.PersistentFlags().Float64("alpha", contract.DefaultAlpha, "Significance level for tests and intervals")
	rootCmd.PersistentFlags().String("effect-bands", contract.DefaultEffectBands, "Cohen's d thresholds for small,medium,large")
	rootCmd.PersistentFlags().String("dimension", string(schema.ProductDimension), "Pareto dimension: product or branch")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of Pareto rows to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("sales-backend", string(schema.SQLiteBackend), "Sales backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("sales-db-connect", "", "Sales database connection string (file path for sqlite)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long cached results stay fresh (0 disables caching)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address for the HTTP API to listen on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}

	// Bind all flags of dbSeedCmd to Viper
	defaults := salesdb.DefaultSeedOptions()
	dbSeedCmd.Flags().Int("months", defaults.Months, "Number of months of demo data ending this month")
	dbSeedCmd.Flags().Int("orders-per-month", defaults.OrdersPerMonth, "Base orders per branch per month")
	dbSeedCmd.Flags().Uint64("seed", defaults.Seed, "Random seed for reproducible data")
	if err := viper.BindPFlags(dbSeedCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db seed flags", err)
	}
}
