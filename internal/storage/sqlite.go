package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/medreport-analyzer/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite. It is the
// default driver: a single file, no server to run.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite analysis store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecord scans a row into an AnalysisRecord
func scanRecord(s scanner) (*AnalysisRecord, error) {
	record := &AnalysisRecord{}
	var kind, riskLevel string

	err := s.Scan(
		&record.ID, &record.SourceName, &kind, &riskLevel,
		&record.TotalTests, &record.AbnormalCount,
		&record.Summary, &record.Language, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Kind = domain.ReportKind(kind)
	record.RiskLevel = domain.RiskLevel(riskLevel)
	return record, nil
}

// createSchema creates the database tables and indexes
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		source_name TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		total_tests INTEGER NOT NULL DEFAULT 0,
		abnormal_count INTEGER NOT NULL DEFAULT 0,
		summary TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT 'en',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_risk_level ON analyses(risk_level);
	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Save stores one analysis record
func (s *SQLiteStore) Save(ctx context.Context, record *AnalysisRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (
			id, source_name, kind, risk_level,
			total_tests, abnormal_count, summary, language, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
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
func (s *SQLiteStore) Get(ctx context.Context, id string) (*AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_name, kind, risk_level,
			total_tests, abnormal_count, summary, language, created_at
		FROM analyses
		WHERE id = ?
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
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_name, kind, risk_level,
			total_tests, abnormal_count, summary, language, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
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
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses").Scan(&count)
	return count, err
}

// Close closes the store and releases resources
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
