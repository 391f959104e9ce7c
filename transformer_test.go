package orderpipe

import (
	"context"
	"testing"
)

func salesColumns() []string {
	return []string{"order_id", "customer_name", "product", "quantity", "price", "order_date"}
}

func salesBatch() *Batch {
	return newBatch(salesColumns(), [][]string{
		{"ORD001", "john doe", "Laptop", "2", "899.99", "2026-02-15"},
		{"ORD002", "JANE SMITH", "Mouse", "5", "25.50", "2026-02-16"},
		{"ORD003", "alice brown", "Monitor", "3", "450.00", "2026-02-17"},
		{"ORD004", "bob wilson", "Keyboard", "10", "75.00", "2026-02-18"},
		{"ORD005", "john doe", "Desk", "1", "599.99", "2026-02-20"},
		{"INVALID", "test", "Bad", "-1", "0", "2026-02-21"},
	})
}

func TestSalesTransformer(t *testing.T) {
	tr := &SalesTransformer{}

	rows, err := tr.Transform(context.Background(), salesBatch())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(rows) != 5 {
		t.Fatalf("Size of result rows should be 5, but %d", len(rows))
	}

	ord001 := []string{"ORD001", "John Doe", "Laptop", "2", "899.99", "2026-02-15", "1799.98", "0.1", "1619.98", "High Value"}
	for i, want := range ord001 {
		if rows[0][i] != want {
			t.Errorf(`rows[0][%d] should be %q, but %q`, i, want, rows[0][i])
		}
	}

	ord002 := []string{"ORD002", "Jane Smith", "Mouse", "5", "25.5", "2026-02-16", "127.50", "0", "127.50", "Standard"}
	for i, want := range ord002 {
		if rows[1][i] != want {
			t.Errorf(`rows[1][%d] should be %q, but %q`, i, want, rows[1][i])
		}
	}

	// Order among surviving rows matches the input.
	ids := []string{"ORD001", "ORD002", "ORD003", "ORD004", "ORD005"}
	for i, want := range ids {
		if rows[i][0] != want {
			t.Errorf(`rows[%d][0] should be %q, but %q`, i, want, rows[i][0])
		}
	}
}

func TestSalesTransformer_DiscountBoundary(t *testing.T) {
	tr := &SalesTransformer{}

	batch := newBatch(salesColumns(), [][]string{
		{"ORD100", "a b", "Rack", "4", "250", "2026-03-01"},     // total exactly 1000
		{"ORD101", "a b", "Rack", "1", "1000.01", "2026-03-01"}, // just above
	})

	rows, err := tr.Transform(context.Background(), batch)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rows[0][7] != "0" {
		t.Errorf(`discount_rate at the 1000 boundary should be "0", but %q`, rows[0][7])
	}
	if rows[0][8] != "1000.00" {
		t.Errorf(`final_amount should be "1000.00", but %q`, rows[0][8])
	}

	if rows[1][7] != "0.1" {
		t.Errorf(`discount_rate above the boundary should be "0.1", but %q`, rows[1][7])
	}
	if rows[1][8] != "900.01" {
		t.Errorf(`final_amount should be "900.01", but %q`, rows[1][8])
	}
}

func TestSalesTransformer_CategoryBoundary(t *testing.T) {
	tr := &SalesTransformer{}

	batch := newBatch(salesColumns(), [][]string{
		{"ORD200", "a b", "Chair", "1", "500", "2026-03-01"},    // final exactly 500
		{"ORD201", "a b", "Chair", "1", "499.99", "2026-03-01"}, // just below
	})

	rows, err := tr.Transform(context.Background(), batch)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rows[0][9] != "High Value" {
		t.Errorf(`category at the 500 boundary should be "High Value", but %q`, rows[0][9])
	}
	if rows[1][9] != "Standard" {
		t.Errorf(`category below the boundary should be "Standard", but %q`, rows[1][9])
	}
}

func TestSalesTransformer_RoundsHalfToEven(t *testing.T) {
	tr := &SalesTransformer{}

	batch := newBatch(salesColumns(), [][]string{
		{"ORD300", "a b", "Bolt", "1", "2.125", "2026-03-01"},
		{"ORD301", "a b", "Bolt", "1", "2.375", "2026-03-01"},
	})

	rows, err := tr.Transform(context.Background(), batch)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rows[0][6] != "2.12" {
		t.Errorf(`total_amount of 2.125 should round to "2.12", but %q`, rows[0][6])
	}
	if rows[1][6] != "2.38" {
		t.Errorf(`total_amount of 2.375 should round to "2.38", but %q`, rows[1][6])
	}
}

func TestSalesTransformer_RejectsInvalidRows(t *testing.T) {
	tr := &SalesTransformer{}

	batch := newBatch(salesColumns(), [][]string{
		{"ORD400", "a b", "Lamp", "1", "10", "2026-03-01"},
		{"", "a b", "Lamp", "1", "10", "2026-03-01"},        // empty order_id
		{"ORD401", "a b", "Lamp", "0", "10", "2026-03-01"},  // zero quantity
		{"ORD402", "a b", "Lamp", "x", "10", "2026-03-01"},  // bad quantity
		{"ORD403", "a b", "Lamp", "1", "-1", "2026-03-01"},  // negative price
		{"ORD404", "a b", "Lamp", "1", "y", "2026-03-01"},   // bad price
		{"ORD405", "a b", "Lamp", "1", "10", "2026-02-30"},  // impossible date
		{"ORD406", "a b", "Lamp", "1", "10", "01-03-2026"},  // wrong date format
		{"ORD407", "a b", "Lamp", "2", "10", "2026-03-02"},
	})

	rows, err := tr.Transform(context.Background(), batch)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Size of result rows should be 2, but %d", len(rows))
	}

	if rows[0][0] != "ORD400" {
		t.Errorf(`rows[0][0] should be "ORD400", but %q`, rows[0][0])
	}
	if rows[1][0] != "ORD407" {
		t.Errorf(`rows[1][0] should be "ORD407", but %q`, rows[1][0])
	}
}

func TestSalesTransformer_DefaultsMissingCustomer(t *testing.T) {
	tr := &SalesTransformer{}

	batch := newBatch(salesColumns(), [][]string{
		{"ORD500", "  ", "Lamp", "1", "10", "2026-03-01"},
	})

	rows, err := tr.Transform(context.Background(), batch)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rows[0][1] != "Unknown" {
		t.Errorf(`customer should default to "Unknown", but %q`, rows[0][1])
	}
}

func TestPassthroughTransformer(t *testing.T) {
	tr := &PassthroughTransformer{}

	rows, err := tr.Transform(context.Background(), SampleOrders())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Size of result rows should be 3, but %d", len(rows))
	}

	if rows[0][0] != "ORD001" {
		t.Errorf(`rows[0][0] should be "ORD001", but %q`, rows[0][0])
	}
	if rows[1][1] != "Bob" {
		t.Errorf(`rows[1][1] should be "Bob", but %q`, rows[1][1])
	}
	if rows[2][2] != "75.25" {
		t.Errorf(`rows[2][2] should be "75.25", but %q`, rows[2][2])
	}
}
