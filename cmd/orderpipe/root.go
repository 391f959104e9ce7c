package main

import (
	"os"

	"github.com/orderpipe/orderpipe"
	"github.com/spf13/cobra"
)

var (
	// version may be set at compile time.
	version = "0.1.0"

	logLevel string
	pretty   bool
)

var rootCmd = &cobra.Command{
	Use:   "orderpipe",
	Short: "Batch ETL for order and sales data into BigQuery",
	Long: `Orderpipe runs small, single-shot batch pipelines that move tabular
order and sales data into BigQuery: pull rows from a CSV file, a SQL Server
database or a built-in sample, optionally clean and enrich them, and append
them to a destination table, creating the dataset and table when absent.`,
	SilenceUsage: true,
}

func init() {
	cobra.EnableCommandSorting = false

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Print human friendly logs")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Execute() prints the error.
		os.Exit(1)
	}
}

func newRunner(extra ...orderpipe.Option) (orderpipe.Runner, error) {
	opts := []orderpipe.Option{orderpipe.WithLogLevel(logLevel)}
	if pretty {
		opts = append(opts, orderpipe.WithPrettyLogging())
	}

	return orderpipe.New(append(opts, extra...)...)
}
