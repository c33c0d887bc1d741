package adapter

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"google.golang.org/api/googleapi"
)

// BigQuery exports records into a BigQuery table
type BigQuery interface {
	// EnsureTable creates the table with the record schema if it does not exist
	EnsureTable(ctx context.Context) error

	// InsertRecords streams records into the table. Record IDs are used as
	// insert IDs so a retried export does not duplicate rows.
	InsertRecords(ctx context.Context, records []*model.Record) error

	Close() error
}

// TableRef identifies a table as project.dataset.table
type TableRef struct {
	Project string
	Dataset string
	Table   string
}

func (r TableRef) String() string {
	return r.Project + "." + r.Dataset + "." + r.Table
}

// ParseTableRef parses "project.dataset.table"
func ParseTableRef(s string) (TableRef, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return TableRef{}, goerr.New("table must be project.dataset.table", goerr.V("table", s))
	}
	for _, p := range parts {
		if p == "" {
			return TableRef{}, goerr.New("table must be project.dataset.table", goerr.V("table", s))
		}
	}
	return TableRef{Project: parts[0], Dataset: parts[1], Table: parts[2]}, nil
}

// recordRow is the BigQuery row layout of a record
type recordRow struct {
	ID         string    `bigquery:"id"`
	Title      string    `bigquery:"title"`
	Content    string    `bigquery:"content"`
	StudyTime  int       `bigquery:"study_time"`
	StudyHours float64   `bigquery:"study_hours"`
	Category   string    `bigquery:"category"`
	Difficulty int       `bigquery:"difficulty"`
	CreatedAt  time.Time `bigquery:"created_at"`
	UpdatedAt  time.Time `bigquery:"updated_at"`
	ExportedAt time.Time `bigquery:"exported_at"`
}

type bigqueryClient struct {
	client *bigquery.Client
	ref    TableRef
	now    func() time.Time
}

// BigQueryOption is a functional option for BigQuery client
type BigQueryOption func(*bigqueryClient)

// WithBigQueryClock sets the clock used for exported_at
func WithBigQueryClock(now func() time.Time) BigQueryOption {
	return func(bq *bigqueryClient) {
		bq.now = now
	}
}

// NewBigQuery creates a new BigQuery client writing to ref
func NewBigQuery(ctx context.Context, ref TableRef, opts ...BigQueryOption) (BigQuery, error) {
	client, err := bigquery.NewClient(ctx, ref.Project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client", goerr.V("project", ref.Project))
	}

	bq := &bigqueryClient{
		client: client,
		ref:    ref,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(bq)
	}

	return bq, nil
}

func (bq *bigqueryClient) table() *bigquery.Table {
	return bq.client.Dataset(bq.ref.Dataset).Table(bq.ref.Table)
}

func (bq *bigqueryClient) EnsureTable(ctx context.Context) error {
	if _, err := bq.table().Metadata(ctx); err == nil {
		return nil
	} else if !isNotFound(err) {
		return goerr.Wrap(err, "failed to get table metadata", goerr.V("table", bq.ref))
	}

	schema, err := bigquery.InferSchema(recordRow{})
	if err != nil {
		return goerr.Wrap(err, "failed to infer record schema")
	}

	meta := &bigquery.TableMetadata{
		Schema: schema,
		TimePartitioning: &bigquery.TimePartitioning{
			Type:  bigquery.DayPartitioningType,
			Field: "created_at",
		},
	}
	if err := bq.table().Create(ctx, meta); err != nil {
		return goerr.Wrap(err, "failed to create table", goerr.V("table", bq.ref))
	}
	return nil
}

func (bq *bigqueryClient) InsertRecords(ctx context.Context, records []*model.Record) error {
	if len(records) == 0 {
		return nil
	}

	schema, err := bigquery.InferSchema(recordRow{})
	if err != nil {
		return goerr.Wrap(err, "failed to infer record schema")
	}

	exportedAt := bq.now().UTC()
	savers := make([]*bigquery.StructSaver, 0, len(records))
	for _, r := range records {
		savers = append(savers, &bigquery.StructSaver{
			Schema:   schema,
			InsertID: r.ID.String(),
			Struct: recordRow{
				ID:         r.ID.String(),
				Title:      r.Title,
				Content:    r.Content,
				StudyTime:  r.StudyTime,
				StudyHours: r.StudyHours(),
				Category:   r.Category,
				Difficulty: r.Difficulty,
				CreatedAt:  r.CreatedAt,
				UpdatedAt:  r.UpdatedAt,
				ExportedAt: exportedAt,
			},
		})
	}

	if err := bq.table().Inserter().Put(ctx, savers); err != nil {
		return goerr.Wrap(err, "failed to insert rows",
			goerr.V("table", bq.ref),
			goerr.V("count", len(records)))
	}
	return nil
}

func (bq *bigqueryClient) Close() error {
	return bq.client.Close()
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
