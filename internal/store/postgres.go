package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource loads corpus records from a job_embeddings table. Schema:
//
//	CREATE TABLE job_embeddings (
//	    id        INTEGER PRIMARY KEY,
//	    metadata  JSONB NOT NULL,
//	    embedding FLOAT8[] NOT NULL
//	);
type PostgresSource struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and verifies it.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresSource{pool: pool}, nil
}

// Close closes the connection pool.
func (p *PostgresSource) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Records fetches all corpus rows in insertion (id) order. Query failures are
// reported as *ErrDataUnavailable so callers apply the same degraded-start
// policy as for a missing corpus file.
func (p *PostgresSource) Records(ctx context.Context) ([]RawRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, metadata, embedding FROM job_embeddings ORDER BY id`)
	if err != nil {
		return nil, &ErrDataUnavailable{Source: "postgres", Message: "failed to query job_embeddings", Cause: err}
	}
	defer rows.Close()

	var records []RawRecord
	for rows.Next() {
		var (
			id        int
			metadata  map[string]string
			embedding []float64
		)
		if err := rows.Scan(&id, &metadata, &embedding); err != nil {
			return nil, &ErrDataUnavailable{Source: "postgres", Message: "failed to scan job_embeddings row", Cause: err}
		}
		records = append(records, RawRecord{ID: id, Metadata: metadata, Embedding: embedding})
	}
	if err := rows.Err(); err != nil {
		return nil, &ErrDataUnavailable{Source: "postgres", Message: "failed to read job_embeddings rows", Cause: err}
	}
	return records, nil
}
