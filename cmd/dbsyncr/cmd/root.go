// Package cmd implements the dbsyncr CLI commands.
package cmd

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dbsyncr/dbsyncr/internal/config"
	"github.com/dbsyncr/dbsyncr/pkg/logging"
)

// Version information set by main.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var (
	rootFlagConfig  string
	rootFlagVerbose bool

	// settings is resolved once in the persistent pre-run and shared by
	// all commands.
	settings config.Settings
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "dbsyncr",
	Short: "Reconcile two tabular data sources through a field mapping",
	Long: `dbsyncr joins two heterogeneous tabular sources (CSV or XLSX) on a
configurable linking field and produces a combined dataset that marks every
record as matched, left-only, or right-only.

The mapping document is YAML: one identity pair naming the linking field on
each side, plus data pairs for the fields to merge.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlagConfig, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&rootFlagVerbose, "verbose", "v", false, "Enable debug logging")
}

// setup loads .env and config, then configures the process logger.
func setup(_ *cobra.Command, _ []string) error {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	var err error
	settings, err = config.Load(rootFlagConfig)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if rootFlagVerbose {
		level = zerolog.DebugLevel
	}

	var logger zerolog.Logger
	if settings.LogFormat == "json" {
		logger = logging.NewJSON(os.Stderr)
	} else {
		logger = logging.NewConsole()
	}
	logging.SetDefault(logger.Level(level))

	return nil
}
