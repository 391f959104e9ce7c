package main

import (
	"github.com/orderpipe/orderpipe"
	"github.com/spf13/cobra"
)

var sampleFlags struct {
	project  string
	dataset  string
	table    string
	location string
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Load the built-in sample sales batch into BigQuery",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := orderpipe.Config{
			Name:   "sample",
			Source: orderpipe.SourceConfig{Sample: true},
			Destination: orderpipe.DestinationConfig{
				Project:  sampleFlags.project,
				Dataset:  sampleFlags.dataset,
				Table:    sampleFlags.table,
				Location: sampleFlags.location,
			},
		}

		return runConfigs(cmd, cfg)
	},
}

func init() {
	f := sampleCmd.Flags()
	f.StringVar(&sampleFlags.project, "project", "", "Destination GCP project (required)")
	f.StringVar(&sampleFlags.dataset, "dataset", "", "Destination BigQuery dataset (required)")
	f.StringVar(&sampleFlags.table, "table", "", "Destination BigQuery table (required)")
	f.StringVar(&sampleFlags.location, "location", "US", "Dataset location used on creation")

	_ = sampleCmd.MarkFlagRequired("project")
	_ = sampleCmd.MarkFlagRequired("dataset")
	_ = sampleCmd.MarkFlagRequired("table")

	rootCmd.AddCommand(sampleCmd)
}
