package orderpipe

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
	"google.golang.org/api/googleapi"
)

// ErrLoadTimeout is returned when a load job does not report completion
// within the configured timeout.
var ErrLoadTimeout = xerrors.New("load job timed out")

// loader appends transformed rows into a destination table, creating the
// dataset and table first when they are absent.
type loader interface {
	ensureDataset(context.Context) error
	ensureTable(context.Context) error
	load(context.Context, [][]string) error
}

// bqDataset and bqTable cover the slice of the BigQuery client used for
// idempotent resource creation.
type bqDataset interface {
	Metadata(context.Context) (*bigquery.DatasetMetadata, error)
	Create(context.Context, *bigquery.DatasetMetadata) error
}

type bqTable interface {
	Metadata(context.Context, ...bigquery.TableMetadataOption) (*bigquery.TableMetadata, error)
	Create(context.Context, *bigquery.TableMetadata) error
}

type bigqueryLoader struct {
	table    *bigquery.Table
	dataset  bqDataset
	tableAPI bqTable
	schema   bigquery.Schema
	location string
	timeout  time.Duration
}

func newBigQueryLoader(ctx context.Context, p *Pipeline, timeout time.Duration) (loader, error) {
	bq, err := bigquery.NewClient(ctx, p.Project)
	if err != nil {
		return nil, xerrors.Errorf("failed to build bigquery client for %s: %w", p.Project, err)
	}

	ds := bq.Dataset(p.Dataset)
	t := ds.Table(p.Table)

	return &bigqueryLoader{
		table:    t,
		dataset:  ds,
		tableAPI: t,
		schema:   p.Schema,
		location: p.DatasetLocation,
		timeout:  timeout,
	}, nil
}

func (l *bigqueryLoader) ensureDataset(ctx context.Context) error {
	lg := log.Ctx(ctx)

	_, err := l.dataset.Metadata(ctx)
	if err == nil {
		lg.Debug().Str("stage", "ensure_dataset").Msg("dataset already exists")
		return nil
	}
	if !isNotFound(err) {
		return xerrors.Errorf("failed to look up dataset: %w", err)
	}

	md := &bigquery.DatasetMetadata{Location: l.location}
	if err := l.dataset.Create(ctx, md); err != nil && !isAlreadyExists(err) {
		return xerrors.Errorf("failed to create dataset: %w", err)
	}

	lg.Info().Str("stage", "ensure_dataset").Str("location", l.location).Msg("created dataset")

	return nil
}

func (l *bigqueryLoader) ensureTable(ctx context.Context) error {
	// Schemaless pipelines let the load job create the table with an
	// inferred schema.
	if l.schema == nil {
		return nil
	}

	lg := log.Ctx(ctx)

	_, err := l.tableAPI.Metadata(ctx)
	if err == nil {
		lg.Debug().Str("stage", "ensure_table").Msg("table already exists")
		return nil
	}
	if !isNotFound(err) {
		return xerrors.Errorf("failed to look up table: %w", err)
	}

	md := &bigquery.TableMetadata{Schema: l.schema}
	if err := l.tableAPI.Create(ctx, md); err != nil && !isAlreadyExists(err) {
		return xerrors.Errorf("failed to create table: %w", err)
	}

	lg.Info().Str("stage", "ensure_table").Msg("created table")

	return nil
}

// load appends the batch in one WRITE_APPEND job and blocks until the job
// completes. Re-running the same batch appends it again.
func (l *bigqueryLoader) load(ctx context.Context, rows [][]string) error {
	lg := log.Ctx(ctx)

	buf := &bytes.Buffer{}
	if err := csv.NewWriter(buf).WriteAll(rows); err != nil {
		return xerrors.Errorf("failed to encode rows: %w", err)
	}

	rs := bigquery.NewReaderSource(buf)
	if l.schema != nil {
		rs.Schema = l.schema
	} else {
		rs.AutoDetect = true
	}

	job := l.table.LoaderFrom(rs)
	job.WriteDisposition = bigquery.WriteAppend

	running, err := job.Run(ctx)
	if err != nil {
		return xerrors.Errorf("failed to run load job: %w", err)
	}

	wctx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	status, err := running.Wait(wctx)
	if err != nil {
		if xerrors.Is(err, context.DeadlineExceeded) {
			return xerrors.Errorf("job %s exceeded %s: %w", running.ID(), l.timeout, ErrLoadTimeout)
		}
		return xerrors.Errorf("failed to wait for load job: %w", err)
	}

	if status.Err() != nil {
		lg.Error().Str("stage", "load").Msgf("load job errors: %v", status.Errors)
		return xerrors.Errorf("load job failed: %w", status.Err())
	}

	return nil
}

func isNotFound(err error) bool {
	var e *googleapi.Error
	return xerrors.As(err, &e) && e.Code == http.StatusNotFound
}

func isAlreadyExists(err error) bool {
	var e *googleapi.Error
	return xerrors.As(err, &e) && e.Code == http.StatusConflict
}
