package orderpipe

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	_ "github.com/denisenkom/go-mssqldb"
	"github.com/rs/zerolog/log"
	"github.com/xo/dburl"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
	"golang.org/x/xerrors"
)

// extractor extracts one batch of raw records from a source.
// Any failure is fatal to the run; no partial extraction is attempted.
type extractor interface {
	extract(context.Context) (*Batch, error)
}

const gcsPrefix = "gs://"

// OrdersLastHourQuery is the default extraction query for relational
// sources: all orders placed within the last hour of wall-clock time.
const OrdersLastHourQuery = `SELECT * FROM orders WHERE order_date >= DATEADD(HOUR, -1, GETDATE())`

func newExtractor(ctx context.Context, p *Pipeline) (extractor, error) {
	switch {
	case p.Static != nil:
		return &staticExtractor{batch: p.Static}, nil
	case p.DSN != "":
		query := p.Query
		if query == "" {
			query = OrdersLastHourQuery
		}
		return &queryExtractor{dsn: p.DSN, query: query}, nil
	case p.CSV != "":
		return newCSVExtractor(ctx, p)
	default:
		return nil, xerrors.New("pipeline has no source: set CSV, DSN, or Static")
	}
}

// csvExtractor reads a delimited file from the local filesystem or from
// Cloud Storage and parses it into a header-keyed batch.
type csvExtractor struct {
	path     string
	parser   Parser
	encoding encoding.Encoding
	storage  *storage.Client
}

func newCSVExtractor(ctx context.Context, p *Pipeline) (extractor, error) {
	e := &csvExtractor{path: p.CSV, parser: p.Parser, encoding: p.Encoding}

	if e.parser == nil {
		e.parser = CSVParser()
	}

	if strings.HasPrefix(e.path, gcsPrefix) {
		s, err := storage.NewClient(ctx)
		if err != nil {
			return nil, xerrors.Errorf("failed to build storage client: %w", err)
		}
		e.storage = s
	}

	return e, nil
}

func (e *csvExtractor) open(ctx context.Context) (io.Reader, func(), error) {
	if e.storage != nil {
		bucket, object, ok := strings.Cut(strings.TrimPrefix(e.path, gcsPrefix), "/")
		if !ok || object == "" {
			return nil, nil, xerrors.Errorf("invalid object path %q", e.path)
		}

		r, err := e.storage.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			return nil, nil, xerrors.Errorf("failed to get reader of %s: %w", e.path, err)
		}

		return r, func() { r.Close() }, nil
	}

	f, err := os.Open(e.path)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to open %s: %w", e.path, err)
	}

	return f, func() { f.Close() }, nil
}

func (e *csvExtractor) extract(ctx context.Context) (*Batch, error) {
	r, closer, err := e.open(ctx)
	if err != nil {
		return nil, err
	}
	defer closer()

	if e.encoding != nil {
		r = transform.NewReader(r, e.encoding.NewDecoder())
	}

	rows, err := e.parser(ctx, r)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse %s: %w", e.path, err)
	}
	if len(rows) == 0 {
		return nil, xerrors.Errorf("%s has no header row", e.path)
	}

	return newBatch(rows[0], rows[1:]), nil
}

// queryExtractor pulls rows from a relational source. The connection is
// scoped to the extraction and released before transformation begins.
type queryExtractor struct {
	dsn   string
	query string
}

func (e *queryExtractor) extract(ctx context.Context) (*Batch, error) {
	u, err := dburl.Parse(e.dsn)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse source DSN: %w", err)
	}

	log.Ctx(ctx).Info().Str("stage", "extract").Str("dsn", u.Redacted()).Msg("connecting to source")

	db, err := sql.Open(u.Driver, u.DSN)
	if err != nil {
		return nil, xerrors.Errorf("failed to open source connection: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, e.query)
	if err != nil {
		return nil, xerrors.Errorf("source query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, xerrors.Errorf("failed to read source columns: %w", err)
	}

	records := []Record{}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, xerrors.Errorf("failed to scan source row: %w", err)
		}

		rec := make(Record, len(cols))
		for i, c := range cols {
			rec[c] = stringifyColumn(vals[i])
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, xerrors.Errorf("source row iteration failed: %w", err)
	}

	return &Batch{Columns: cols, Records: records}, nil
}

func stringifyColumn(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// staticExtractor serves a literal in-memory batch.
type staticExtractor struct {
	batch *Batch
}

func (e *staticExtractor) extract(context.Context) (*Batch, error) {
	return e.batch, nil
}
