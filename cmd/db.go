package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/salesdb"
	"github.com/huangsam/salespulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dbSetup opens the sales database without the analysis config.
func dbSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("sales-backend"))
	connStr := viper.GetString("sales-db-connect")
	if err := contract.ValidateSalesBackend(backend, connStr); err != nil {
		return err
	}

	store, err := salesdb.Open(backend, connStr)
	if err != nil {
		return err
	}
	salesStore = store
	return nil
}

// dbCmd manages the sales database.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the sales database schema and demo data",
	Long: `Manage the sales database.

Subcommands:
  migrate - Create or upgrade the branches, products and sales tables
  seed    - Load deterministic demo data into an empty database
  status  - Show the schema version and the date coverage of the sales table

Examples:
  # Create a local SQLite database with two years of demo sales
  salespulse db migrate
  salespulse db seed

  # Migrate a PostgreSQL database
  SALESPULSE_SALES_BACKEND=postgresql SALESPULSE_SALES_DB_CONNECT="host=... dbname=..." salespulse db migrate`,
}

// dbMigrateCmd runs database migrations for the sales store.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the sales database.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  salespulse db migrate

  # Migrate to specific version
  salespulse db migrate --target-version 2

  # Rollback to initial state
  salespulse db migrate --target-version 0`,
	PreRunE: dbSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		status, changed, err := salesdb.Migrate(salesStore.DB(), salesStore.Backend(), targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !changed {
			fmt.Printf("Sales database already at version %d.\n", status.Version)
			return
		}
		fmt.Printf("Sales database migrated to version %d.\n", status.Version)
	},
}

// dbSeedCmd loads demo data.
var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load deterministic demo sales into an empty database",
	Long: `Migrate the sales database to the latest version and fill it with demo data:
four branches, eight products and orders for each month ending this month.

The same --seed always produces the same orders. Seeding refuses to run when the
sales table already has rows.

Examples:
  salespulse db seed
  salespulse db seed --months 36 --orders-per-month 80 --seed 7`,
	PreRunE: dbSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if _, _, err := salesdb.Migrate(salesStore.DB(), salesStore.Backend(), -1); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}

		opts := salesdb.DefaultSeedOptions()
		opts.Months = viper.GetInt("months")
		opts.OrdersPerMonth = viper.GetInt("orders-per-month")
		opts.Seed = viper.GetUint64("seed")

		start := time.Now()
		summary, err := salesdb.Seed(rootCtx, salesStore.DB(), salesStore.Backend(), opts)
		if errors.Is(err, salesdb.ErrAlreadySeeded) {
			fmt.Println("Sales table already has data; nothing to seed.")
			return
		}
		if err != nil {
			contract.LogFatal("Failed to seed demo data", err)
		}
		fmt.Printf("Seeded %d branches, %d products, %s orders and %s sale lines in %v.\n",
			summary.Branches, summary.Products,
			humanize.Comma(int64(summary.Orders)), humanize.Comma(int64(summary.Lines)),
			time.Since(start).Round(time.Millisecond))
	},
}

// dbStatusCmd shows schema version and coverage.
var dbStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display the schema version and sales coverage",
	PreRunE: dbSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := salesdb.Version(salesStore.DB(), salesStore.Backend())
		if err != nil {
			contract.LogFatal("Failed to get schema version", err)
		}
		w := os.Stdout
		_, _ = fmt.Fprintf(w, "Sales Backend: %s\n", status.Backend)
		_, _ = fmt.Fprintf(w, "Schema Version: %d\n", status.Version)
		_, _ = fmt.Fprintf(w, "Dirty: %t\n", status.Dirty)
		if status.Version == 0 {
			return
		}

		coverage, err := salesStore.DataRange(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to read sales coverage", err)
		}
		_, _ = fmt.Fprintf(w, "Sale Lines: %s\n", humanize.Comma(int64(coverage.Rows)))
		if coverage.Rows > 0 {
			_, _ = fmt.Fprintf(w, "First Sale: %s\n", coverage.MinDate.Format(contract.DayLayout))
			_, _ = fmt.Fprintf(w, "Last Sale: %s (%s)\n", coverage.MaxDate.Format(contract.DayLayout), humanize.Time(coverage.MaxDate))
		}
	},
}
