package orderpipe

import (
	"context"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/xerrors"
)

// Transformer turns a raw batch into rows ordered for the destination
// schema. Implementations must preserve the relative order of surviving
// records and must not let one record's failure affect another.
type Transformer interface {
	Transform(context.Context, *Batch) ([][]string, error)
}

// PassthroughTransformer renders records in source column order,
// unchanged. Used by pipelines that load what they extracted.
type PassthroughTransformer struct{}

// Transform renders every record as-is.
func (t *PassthroughTransformer) Transform(_ context.Context, b *Batch) ([][]string, error) {
	rows := make([][]string, len(b.Records))

	for i, rec := range b.Records {
		row := make([]string, len(b.Columns))
		for j, c := range b.Columns {
			row[j] = rec[c]
		}
		rows[i] = row
	}

	return rows, nil
}

// SalesTransformer cleans, validates and enriches sales order rows.
// Invalid rows are dropped and logged; the batch never aborts on one row.
type SalesTransformer struct{}

// Transform maps raw order records into SalesSchema rows.
func (t *SalesTransformer) Transform(ctx context.Context, b *Batch) ([][]string, error) {
	l := log.Ctx(ctx)
	titler := cases.Title(language.English)

	rows := make([][]string, 0, len(b.Records))
	rejected := 0

	for i, rec := range b.Records {
		o, err := parseOrder(rec, titler)
		if err != nil {
			rejected++
			l.Warn().Str("stage", "transform").Int("row", i).Err(err).Msg("skipping invalid row")
			continue
		}

		o.derive()
		rows = append(rows, o.row())
	}

	l.Info().Str("stage", "transform").
		Int("accepted", len(rows)).
		Int("rejected", rejected).
		Msg("transformed batch")

	return rows, nil
}

func parseOrder(rec Record, titler cases.Caser) (*Order, error) {
	o := &Order{
		OrderID: strings.TrimSpace(rec["order_id"]),
		Product: strings.TrimSpace(rec["product"]),
	}

	if o.OrderID == "" {
		return nil, xerrors.New("order_id is empty")
	}

	customer := strings.TrimSpace(rec["customer_name"])
	if customer == "" {
		customer = "Unknown"
	}
	o.Customer = titler.String(customer)

	q, err := strconv.ParseInt(strings.TrimSpace(rec["quantity"]), 10, 64)
	if err != nil {
		return nil, xerrors.Errorf("quantity is not an integer: %w", err)
	}
	if q <= 0 {
		return nil, xerrors.Errorf("quantity must be positive, got %d", q)
	}
	o.Quantity = q

	p, err := strconv.ParseFloat(strings.TrimSpace(rec["price"]), 64)
	if err != nil {
		return nil, xerrors.Errorf("price is not a number: %w", err)
	}
	if p <= 0 {
		return nil, xerrors.Errorf("price must be positive, got %v", p)
	}
	o.Price = p

	d, err := civil.ParseDate(strings.TrimSpace(rec["order_date"]))
	if err != nil {
		return nil, xerrors.Errorf("order_date is not a date: %w", err)
	}
	o.OrderDate = d

	return o, nil
}

// round2 rounds to two decimal places, half to even.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
