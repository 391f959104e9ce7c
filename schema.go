package orderpipe

import "cloud.google.com/go/bigquery"

// SalesSchema is the destination schema for enriched sales orders.
// It is created once if the table is absent and never altered.
var SalesSchema = bigquery.Schema{
	{Name: "order_id", Type: bigquery.StringFieldType, Required: true},
	{Name: "customer", Type: bigquery.StringFieldType, Required: true},
	{Name: "product", Type: bigquery.StringFieldType, Required: true},
	{Name: "quantity", Type: bigquery.IntegerFieldType, Required: true},
	{Name: "price", Type: bigquery.FloatFieldType, Required: true},
	{Name: "order_date", Type: bigquery.DateFieldType, Required: true},
	{Name: "total_amount", Type: bigquery.FloatFieldType, Required: true},
	{Name: "discount_rate", Type: bigquery.FloatFieldType, Required: true},
	{Name: "final_amount", Type: bigquery.FloatFieldType, Required: true},
	{Name: "category", Type: bigquery.StringFieldType, Required: true},
	{Name: "loaded_at", Type: bigquery.TimestampFieldType, Required: true},
}

// SampleSchema is the destination schema for the built-in sample pipeline.
var SampleSchema = bigquery.Schema{
	{Name: "order_id", Type: bigquery.StringFieldType, Required: true},
	{Name: "customer", Type: bigquery.StringFieldType, Required: true},
	{Name: "amount", Type: bigquery.FloatFieldType, Required: true},
	{Name: "loaded_at", Type: bigquery.TimestampFieldType, Required: true},
}

// SampleOrders returns the built-in demo batch for the sample pipeline.
func SampleOrders() *Batch {
	return newBatch(
		[]string{"order_id", "customer", "amount"},
		[][]string{
			{"ORD001", "Alice", "150.00"},
			{"ORD002", "Bob", "200.50"},
			{"ORD003", "Alice", "75.25"},
		},
	)
}
