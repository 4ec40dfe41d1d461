package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements the Store interface using PostgreSQL.
// It expects the schema to already exist (created via migrations).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL analysis store
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// OpenPostgres opens a database/sql connection for the store
func OpenPostgres(connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Save stores one analysis record
func (s *PostgresStore) Save(ctx context.Context, record *AnalysisRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (
			id, source_name, kind, risk_level,
			total_tests, abnormal_count, summary, language, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		record.ID,
		record.SourceName,
		string(record.Kind),
		string(record.RiskLevel),
		record.TotalTests,
		record.AbnormalCount,
		record.Summary,
		record.Language,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}
	return nil
}

// Get retrieves an analysis record by ID
func (s *PostgresStore) Get(ctx context.Context, id string) (*AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_name, kind, risk_level,
			total_tests, abnormal_count, summary, language, created_at
		FROM analyses
		WHERE id = $1
	`, id)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return record, nil
}

// List returns analysis records with pagination, newest first
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_name, kind, risk_level,
			total_tests, abnormal_count, summary, language, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*AnalysisRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

// Count returns the total number of stored analyses
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses").Scan(&count)
	return count, err
}

// Close closes the store and releases resources
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
