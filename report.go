package orderpipe

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
	"google.golang.org/api/iterator"
)

// reporter runs the post-load verification aggregation. Its results are for
// humans only and its failure never affects the load outcome.
type reporter interface {
	report(context.Context, int) error
}

type bigqueryReporter struct {
	client  *bigquery.Client
	project string
	dataset string
	table   string
}

func newBigQueryReporter(ctx context.Context, p *Pipeline) (reporter, error) {
	bq, err := bigquery.NewClient(ctx, p.Project)
	if err != nil {
		return nil, xerrors.Errorf("failed to build bigquery client for %s: %w", p.Project, err)
	}

	return &bigqueryReporter{
		client:  bq,
		project: p.Project,
		dataset: p.Dataset,
		table:   p.Table,
	}, nil
}

func topCustomersQuery(project, dataset, table string, n int) string {
	return fmt.Sprintf("SELECT customer, SUM(final_amount) AS total_sales, COUNT(*) AS order_count\n"+
		"FROM `%s.%s.%s`\n"+
		"GROUP BY customer\n"+
		"ORDER BY total_sales DESC\n"+
		"LIMIT %d", project, dataset, table, n)
}

func (r *bigqueryReporter) report(ctx context.Context, n int) error {
	lg := log.Ctx(ctx)

	q := r.client.Query(topCustomersQuery(r.project, r.dataset, r.table, n))

	it, err := q.Read(ctx)
	if err != nil {
		return xerrors.Errorf("verification query failed: %w", err)
	}

	for {
		var row struct {
			Customer   string  `bigquery:"customer"`
			TotalSales float64 `bigquery:"total_sales"`
			OrderCount int64   `bigquery:"order_count"`
		}

		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return xerrors.Errorf("failed to read verification row: %w", err)
		}

		lg.Info().Str("stage", "verify").
			Str("customer", row.Customer).
			Float64("total_sales", row.TotalSales).
			Int64("order_count", row.OrderCount).
			Msg("top customer")
	}

	return nil
}
