package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/storecast/core"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/iocache"
	"github.com/huangsam/storecast/schema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendFromConfig resolves the history backend. An empty value disables tracking.
func historyBackendFromConfig() (schema.DatabaseBackend, string, error) {
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	backend := lo.Ternary(backendStr == "", schema.NoneBackend, schema.DatabaseBackend(backendStr))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := outputSetup(); err != nil {
		return err
	}
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no response cache for history commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on submission history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by the form commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the submission history and exports",
	Long: `Manage the record of form submissions.

When enabled with --history-backend, storecast records every submission with:
- The form and a hash of its request
- The outcome and failure reason
- Duration and whether the response was cached

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show submission statistics
  list    - Show the most recent submissions
  export  - Export submissions to Parquet, CSV or JSON
  clear   - Remove all submissions
  migrate - Run database schema migrations

Examples:
  # Show the latest submissions
  storecast history list --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  storecast history export --history-backend sqlite --output-file submissions.parquet`,
}

// historyClearCmd clears the submission history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded submissions",
	Long: `Delete all recorded submissions and the schema version.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  storecast history export --output-file backup.parquet
  storecast history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := lo.Ternary(cfg.HistoryDBConnect == "", contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect)
		iocache.CloseStores()
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbFile, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("Submission history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display submission statistics and connection details",
	Long: `Show detailed information about the submission history.

Displays:
- Backend type and connection status
- Total and failed submissions, overall and per form
- Last and oldest submission timestamps`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStatus(rootCtx, cfg, cacheManager, version); err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
	},
}

// historyListCmd prints the latest submissions.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent submissions",
	Long: `Print the most recent submissions, newest first.

Examples:
  storecast history list --limit 10
  storecast history list --output csv --output-file submissions.csv`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryList(rootCtx, cfg, cacheManager, viper.GetInt("limit")); err != nil {
			contract.LogFatal("Failed to list submissions", err)
		}
	},
}

// historyExportCmd exports submissions.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export submissions for BI tools and analytics",
	Long: `Export every recorded submission.

The default format is Parquet, which requires --output-file. Use --output csv or
--output json to write to stdout or a file.

Examples:
  storecast history export --output-file submissions.parquet
  duckdb -c "SELECT form, status, count(*) FROM read_parquet('submissions.parquet') GROUP BY ALL"
  storecast history export --output csv > submissions.csv`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		format := lo.Ternary(cfg.Output == schema.TextOut, schema.ParquetOut, cfg.Output)
		if err := iocache.ExportHistory(cacheManager.GetHistoryStore(), format, cfg.OutputFile, os.Stderr); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the submission history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  storecast history migrate --history-backend sqlite

  # Migrate to specific version
  storecast history migrate --target-version 2

  # Rollback to initial state
  storecast history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
