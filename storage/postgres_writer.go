package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"vehicle-reconciler/models"
)

// PostgresWriter persists per-provider reconciliation results.
type PostgresWriter struct {
	db        *sql.DB
	providers []string
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, providers []string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reconciliation_results (
			id         UUID PRIMARY KEY,
			stock_key  TEXT NOT NULL,
			provider   TEXT NOT NULL,
			status     TEXT NOT NULL,
			notes      TEXT,
			url        TEXT,
			checked_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return &PostgresWriter{db: db, providers: providers}, nil
}

// Write inserts one row per (record, provider) result.
func (p *PostgresWriter) Write(records []*models.SourceRecord) error {
	stmt, err := p.db.Prepare(`
		INSERT INTO reconciliation_results (id, stock_key, provider, status, notes, url)
		VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("postgres: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		for _, provider := range p.providers {
			res, ok := rec.Result(provider)
			if !ok {
				continue
			}
			if _, err := stmt.Exec(uuid.New().String(), rec.StockKey(), provider,
				res.Status, res.Notes, res.URL); err != nil {
				return fmt.Errorf("postgres: insert result for %q/%s: %w", rec.StockKey(), provider, err)
			}
		}
	}
	return nil
}

// Close closes the database connection.
func (p *PostgresWriter) Close() error {
	return p.db.Close()
}
