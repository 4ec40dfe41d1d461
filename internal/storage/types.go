package storage

import (
	"context"
	"time"

	"github.com/medreport-analyzer/internal/domain"
)

// AnalysisRecord is the persisted summary of one completed report
// analysis. The full result lives only in the response (and cache);
// the store keeps enough to list history and re-open a verdict.
type AnalysisRecord struct {
	ID            string            `json:"id"`
	SourceName    string            `json:"source_name"`
	Kind          domain.ReportKind `json:"kind"`
	RiskLevel     domain.RiskLevel  `json:"risk_level"`
	TotalTests    int               `json:"total_tests"`
	AbnormalCount int               `json:"abnormal_count"`
	Summary       string            `json:"summary"`
	Language      string            `json:"language"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Store persists analysis history. Get returns (nil, nil) when the
// record does not exist.
type Store interface {
	Save(ctx context.Context, record *AnalysisRecord) error
	Get(ctx context.Context, id string) (*AnalysisRecord, error)
	List(ctx context.Context, limit, offset int) ([]*AnalysisRecord, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

// NewRecord builds an AnalysisRecord from a completed analysis
func NewRecord(result *domain.AnalysisResult, sourceName, language string) *AnalysisRecord {
	record := &AnalysisRecord{
		ID:         result.ReportID,
		SourceName: sourceName,
		Kind:       result.Kind,
		RiskLevel:  result.RiskLevelOf(),
		Language:   language,
		CreatedAt:  result.Timestamp,
	}
	if result.Lab != nil {
		record.TotalTests = result.Lab.Risk.TotalTests
		record.AbnormalCount = result.Lab.Risk.AbnormalCount
		record.Summary = result.Lab.Explanation.Narrative
	} else if result.Narrative != nil {
		record.Summary = result.Narrative.Explanation.Narrative
	}
	return record
}
