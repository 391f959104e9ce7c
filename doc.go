/*

Package orderpipe moves tabular order and sales data into BigQuery in
single-run batches: extract rows from a CSV file, a relational source or an
in-memory list, optionally clean and enrich them, and append them to a
destination table, creating the dataset and table first when they are
absent.

The richest built-in pipeline reads a sales CSV, drops malformed rows,
derives order totals, discounts and categories, and appends the result
with one shared loaded_at timestamp:

	package main

	import (
		"context"
		"os"

		"github.com/orderpipe/orderpipe"
	)

	func main() {
		ctx := context.Background()

		r, err := orderpipe.New(orderpipe.WithPrettyLogging())
		if err != nil {
			panic(err)
		}

		r.MustAddPipeline(ctx, &orderpipe.Pipeline{
			Name:        "sales",
			CSV:         "sales_data.csv",
			Transformer: &orderpipe.SalesTransformer{},
			Schema:      orderpipe.SalesSchema,

			StampLoadedAt: true,
			VerifyTop:     5,

			Project: os.Getenv("BIGQUERY_PROJECT_ID"),
			Dataset: os.Getenv("BIGQUERY_DATASET_ID"),
			Table:   os.Getenv("BIGQUERY_TABLE_ID"),
		})

		if err := r.Run(ctx); err != nil {
			os.Exit(1)
		}
	}

The cmd/orderpipe command exposes the built-in pipelines (sales, orders,
sample) as subcommands and runs YAML-declared pipeline sets.

*/
package orderpipe
