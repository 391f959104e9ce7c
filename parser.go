package orderpipe

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"github.com/extrame/xls"
	"gitlab.com/osaki-lab/iowrapper"
	"golang.org/x/xerrors"
)

// Parser parses source files into rows of fields.
type Parser func(context.Context, io.Reader) ([][]string, error)

var errXLSNoSheet = errors.New("no sheet found")

// CSVParser provides a Parser for CSV files.
func CSVParser() Parser {
	return func(_ context.Context, r io.Reader) ([][]string, error) {
		return csv.NewReader(r).ReadAll()
	}
}

// XLSParser provides a Parser for legacy Excel workbooks.
// It reads the first sheet only.
func XLSParser() Parser {
	// Some workbooks make xls.Row panic on sparse rows.
	getRow := func(sheet *xls.WorkSheet, i int) (r *xls.Row, ok bool) {
		defer func() { recover() }()

		r = nil
		ok = false

		return sheet.Row(i), true
	}

	return func(_ context.Context, r io.Reader) ([][]string, error) {
		wb, err := xls.OpenReader(iowrapper.NewSeeker(r), "utf-8")
		if err != nil {
			return nil, xerrors.Errorf("failed to open xls file: %w", err)
		}

		sheet := wb.GetSheet(0)
		if sheet == nil {
			return nil, errXLSNoSheet
		}

		rows := [][]string{}

		for i := 0; i <= int(sheet.MaxRow); i++ {
			row, ok := getRow(sheet, i)
			if !ok || row == nil {
				continue
			}

			fields := []string{}
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				fields = append(fields, row.Col(c))
			}

			rows = append(rows, fields)
		}

		return rows, nil
	}
}
