package orderpipe

import (
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Record is a raw source row keyed by column name. It only lives between
// extraction and transformation.
type Record map[string]string

// Batch is an ordered extraction result. Columns preserves the source column
// order, which matters for passthrough loads with schema auto-detection.
type Batch struct {
	Columns []string
	Records []Record
}

func newBatch(columns []string, rows [][]string) *Batch {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = strings.TrimSpace(c)
	}

	b := &Batch{Columns: cols, Records: make([]Record, len(rows))}
	for i, row := range rows {
		rec := make(Record, len(cols))
		for j, c := range cols {
			if j < len(row) {
				rec[c] = row[j]
			}
		}
		b.Records[i] = rec
	}

	return b
}

// Order is a validated sales row with its derived fields. Derived fields are
// computed once by derive and never mutated afterwards.
type Order struct {
	OrderID   string
	Customer  string
	Product   string
	Quantity  int64
	Price     float64
	OrderDate civil.Date

	TotalAmount  float64
	DiscountRate float64
	FinalAmount  float64
	Category     string
}

const (
	discountThreshold  = 1000.0
	discountRate       = 0.10
	highValueThreshold = 500.0

	categoryHighValue = "High Value"
	categoryStandard  = "Standard"
)

// derive computes the monetary and categorical fields. Discount applies
// strictly above the threshold; the category boundary is inclusive.
func (o *Order) derive() {
	o.TotalAmount = round2(float64(o.Quantity) * o.Price)
	if o.TotalAmount > discountThreshold {
		o.DiscountRate = discountRate
	}
	o.FinalAmount = round2(o.TotalAmount * (1 - o.DiscountRate))
	if o.FinalAmount >= highValueThreshold {
		o.Category = categoryHighValue
	} else {
		o.Category = categoryStandard
	}
}

// row renders the order in SalesSchema column order, without loaded_at,
// which is stamped per batch at load time.
func (o *Order) row() []string {
	return []string{
		o.OrderID,
		o.Customer,
		o.Product,
		strconv.FormatInt(o.Quantity, 10),
		strconv.FormatFloat(o.Price, 'f', -1, 64),
		o.OrderDate.String(),
		strconv.FormatFloat(o.TotalAmount, 'f', 2, 64),
		strconv.FormatFloat(o.DiscountRate, 'f', -1, 64),
		strconv.FormatFloat(o.FinalAmount, 'f', 2, 64),
		o.Category,
	}
}

// loadedAtLayout is accepted by BigQuery for TIMESTAMP columns in CSV loads.
const loadedAtLayout = time.RFC3339Nano

// stampRows appends one shared loaded_at value to every row.
func stampRows(rows [][]string, loadedAt time.Time) [][]string {
	ts := loadedAt.UTC().Format(loadedAtLayout)

	stamped := make([][]string, len(rows))
	for i, row := range rows {
		stamped[i] = append(append(make([]string, 0, len(row)+1), row...), ts)
	}

	return stamped
}
