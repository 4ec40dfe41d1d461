package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medreport-analyzer/internal/domain"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return store, mock
}

func recordColumns() []string {
	return []string{
		"id", "source_name", "kind", "risk_level",
		"total_tests", "abnormal_count", "summary", "language", "created_at",
	}
}

func TestPostgresStore_RequiresConnection(t *testing.T) {
	_, err := NewPostgresStore(nil)
	assert.Error(t, err)
}

func TestPostgresStore_Save(t *testing.T) {
	store, mock := newMockStore(t)

	record := testRecord("rec-1")
	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			record.ID, record.SourceName, string(record.Kind), string(record.RiskLevel),
			record.TotalTests, record.AbnormalCount, record.Summary, record.Language, record.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), record))
}

func TestPostgresStore_Save_SetsCreatedAt(t *testing.T) {
	store, mock := newMockStore(t)

	record := testRecord("rec-2")
	record.CreatedAt = time.Time{}
	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			record.ID, record.SourceName, string(record.Kind), string(record.RiskLevel),
			record.TotalTests, record.AbnormalCount, record.Summary, record.Language, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), record))
	assert.False(t, record.CreatedAt.IsZero())
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Now().UTC()
	rows := sqlmock.NewRows(recordColumns()).
		AddRow("rec-1", "report.txt", "lab", "HIGH", 4, 3, "summary", "en", created)
	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("rec-1").
		WillReturnRows(rows)

	got, err := store.Get(context.Background(), "rec-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.ReportLab, got.Kind)
	assert.Equal(t, domain.RiskHigh, got.RiskLevel)
	assert.Equal(t, 4, got.TotalTests)
}

func TestPostgresStore_GetMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostgresStore_List(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Now().UTC()
	rows := sqlmock.NewRows(recordColumns()).
		AddRow("new", "", "lab", "LOW", 1, 0, "", "en", created).
		AddRow("old", "", "narrative", "INFO", 0, 0, "", "en", created.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM analyses ORDER BY created_at DESC").
		WithArgs(10, 0).
		WillReturnRows(rows)

	records, err := store.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new", records[0].ID)
	assert.Equal(t, domain.ReportNarrative, records[1].Kind)
}

func TestPostgresStore_Count(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
