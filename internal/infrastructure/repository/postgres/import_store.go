// Package postgres keeps the audit trail of processed import jobs.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/skillbase/competency-search/internal/core/domain"
)

type ImportStore struct {
	db *sql.DB
}

func NewImportStore(db *sql.DB) *ImportStore {
	return &ImportStore{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *ImportStore) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across importer/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026040201)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS import_records (
	id TEXT PRIMARY KEY,
	provider TEXT NOT NULL,
	code TEXT NOT NULL,
	title TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_import_records_provider ON import_records(provider);
CREATE INDEX IF NOT EXISTS idx_import_records_created_at ON import_records(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// RecordImport upserts by job id so a redelivered job overwrites its
// previous outcome instead of failing on the primary key.
func (s *ImportStore) RecordImport(ctx context.Context, record domain.ImportRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO import_records (id, provider, code, title, status, error_message, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
	status = EXCLUDED.status,
	error_message = EXCLUDED.error_message,
	created_at = EXCLUDED.created_at
`,
		record.ID, string(record.Provider), record.Code, record.Title,
		string(record.Status), record.Error, createdAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrRepository, "insert import record", err)
	}
	return nil
}

func (s *ImportStore) ListRecent(ctx context.Context, limit int) ([]domain.ImportRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, provider, code, title, status, error_message, created_at
FROM import_records
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRepository, "list import records", err)
	}
	defer rows.Close()

	var records []domain.ImportRecord
	for rows.Next() {
		var record domain.ImportRecord
		var provider, status string
		if err := rows.Scan(&record.ID, &provider, &record.Code, &record.Title, &status, &record.Error, &record.CreatedAt); err != nil {
			return nil, domain.WrapError(domain.ErrRepository, "scan import record", err)
		}
		record.Provider = domain.Provider(provider)
		record.Status = domain.ImportStatus(status)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrRepository, "iterate import records", err)
	}
	return records, nil
}
