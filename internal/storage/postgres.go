package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS job_listings (
	id BIGSERIAL PRIMARY KEY,
	run_id UUID NOT NULL,
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	company_name TEXT NOT NULL,
	location TEXT NOT NULL,
	description TEXT NOT NULL,
	details_page_link TEXT NOT NULL,
	search_key TEXT NOT NULL,
	search_location TEXT NOT NULL,
	scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_job_listings_run ON job_listings(run_id);
`

const insertSQL = `
INSERT INTO job_listings (run_id, position, title, company_name, location, description, details_page_link, search_key, search_location)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (run_id, position) DO NOTHING;
`

// Run identifies the scraping run a set of records came from
type Run struct {
	ID       uuid.UUID
	Key      string
	Location string
}

// PostgresWriter archives finished runs into PostgreSQL
type PostgresWriter struct {
	pool *pgxpool.Pool
}

// NewPostgresWriter connects to dsn and makes sure the table exists
func NewPostgresWriter(ctx context.Context, dsn string) (*PostgresWriter, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresWriter{pool: pool}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

// WriteRun inserts every listing of the run in one batch
func (w *PostgresWriter) WriteRun(ctx context.Context, run Run, records *models.JobRecords) (int, error) {
	batch, n, err := buildBatch(run, records)
	if err != nil || n == 0 {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results := w.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < n; i++ {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}
	return n, nil
}

func buildBatch(run Run, records *models.JobRecords) (*pgx.Batch, int, error) {
	if err := records.Validate(); err != nil {
		return nil, 0, err
	}

	batch := &pgx.Batch{}
	for i, l := range records.Listings() {
		batch.Queue(insertSQL,
			run.ID,
			i,
			l.Title,
			l.CompanyName,
			l.Location,
			l.Description,
			l.DetailsPageLink,
			run.Key,
			run.Location,
		)
	}
	return batch, batch.Len(), nil
}
