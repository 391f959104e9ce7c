package main

import (
	"github.com/orderpipe/orderpipe"
	"github.com/spf13/cobra"
)

var runFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every pipeline declared in a YAML job file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jf, err := orderpipe.LoadJobFile(runFile)
		if err != nil {
			return err
		}

		level := logLevel
		if jf.LogLevel != "" && !rootCmd.PersistentFlags().Changed("log-level") {
			level = jf.LogLevel
		}

		opts := []orderpipe.Option{orderpipe.WithLogLevel(level)}
		if pretty {
			opts = append(opts, orderpipe.WithPrettyLogging())
		}
		if jf.Concurrency > 0 {
			opts = append(opts, orderpipe.WithConcurrency(jf.Concurrency))
		}

		r, err := orderpipe.New(opts...)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		for i := range jf.Pipelines {
			p, err := jf.Pipelines[i].Pipeline()
			if err != nil {
				return err
			}
			if err := r.AddPipeline(ctx, p); err != nil {
				return err
			}
		}

		return r.Run(ctx)
	},
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "jobs.yaml", "YAML job file declaring the pipelines to run")

	rootCmd.AddCommand(runCmd)
}
