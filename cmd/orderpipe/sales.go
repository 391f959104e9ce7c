package main

import (
	"github.com/orderpipe/orderpipe"
	"github.com/spf13/cobra"
)

var salesFlags struct {
	csv      string
	format   string
	encoding string
	project  string
	dataset  string
	table    string
	location string
	top      int
}

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Load a sales CSV into BigQuery with cleaning and derived metrics",
	Long: `Reads a sales file (local path or gs:// object), drops malformed rows,
derives totals, discounts and categories, appends the batch to the
destination table and reports the top customers by sales.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := orderpipe.Config{
			Name: "sales",
			Source: orderpipe.SourceConfig{
				CSV:      salesFlags.csv,
				Format:   salesFlags.format,
				Encoding: salesFlags.encoding,
			},
			Transform: "sales",
			Destination: orderpipe.DestinationConfig{
				Project:  salesFlags.project,
				Dataset:  salesFlags.dataset,
				Table:    salesFlags.table,
				Location: salesFlags.location,
			},
			VerifyTop: salesFlags.top,
		}

		return runConfigs(cmd, cfg)
	},
}

func init() {
	f := salesCmd.Flags()
	f.StringVar(&salesFlags.csv, "csv", "", "Sales file: local path or gs://bucket/object (required)")
	f.StringVar(&salesFlags.format, "format", "csv", "Source file format: csv or xls")
	f.StringVar(&salesFlags.encoding, "encoding", "", "Source file encoding, e.g. shift_jis or windows-1252")
	f.StringVar(&salesFlags.project, "project", "", "Destination GCP project (required)")
	f.StringVar(&salesFlags.dataset, "dataset", "", "Destination BigQuery dataset (required)")
	f.StringVar(&salesFlags.table, "table", "", "Destination BigQuery table (required)")
	f.StringVar(&salesFlags.location, "location", "US", "Dataset location used on creation")
	f.IntVar(&salesFlags.top, "top", 5, "Report the top N customers after loading; 0 disables")

	_ = salesCmd.MarkFlagRequired("csv")
	_ = salesCmd.MarkFlagRequired("project")
	_ = salesCmd.MarkFlagRequired("dataset")
	_ = salesCmd.MarkFlagRequired("table")

	rootCmd.AddCommand(salesCmd)
}

func runConfigs(cmd *cobra.Command, cfgs ...orderpipe.Config) error {
	r, err := newRunner()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	for i := range cfgs {
		p, err := cfgs[i].Pipeline()
		if err != nil {
			return err
		}
		if err := r.AddPipeline(ctx, p); err != nil {
			return err
		}
	}

	return r.Run(ctx)
}
