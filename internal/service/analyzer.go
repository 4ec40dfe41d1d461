package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/medreport-analyzer/internal/domain"
)

// defaultMaxTextLength bounds pattern-matching cost on pathological
// OCR garbage
const defaultMaxTextLength = 100_000

// AnalyzerService sequences the analysis pipeline: entity extraction,
// risk assessment and explanation building. Reports without numeric lab
// values branch into the narrative-only path with risk level INFO.
type AnalyzerService struct {
	logger        *logrus.Logger
	extractor     domain.EntityExtractor
	assessor      domain.RiskAssessor
	explainer     domain.ExplanationBuilder
	maxTextLength int
}

// NewAnalyzerService creates a new report analyzer
func NewAnalyzerService(
	logger *logrus.Logger,
	extractor domain.EntityExtractor,
	assessor domain.RiskAssessor,
	explainer domain.ExplanationBuilder,
	maxTextLength int,
) *AnalyzerService {
	if maxTextLength <= 0 {
		maxTextLength = defaultMaxTextLength
	}
	return &AnalyzerService{
		logger:        logger,
		extractor:     extractor,
		assessor:      assessor,
		explainer:     explainer,
		maxTextLength: maxTextLength,
	}
}

// Analyze runs the full pipeline over already-extracted report text.
// Gender and age fall back to demographics recovered from the text when
// the caller leaves them unset. Finding nothing in non-empty text is a
// valid result, not an error: zero lab values selects narrative mode.
func (a *AnalyzerService) Analyze(ctx context.Context, text string, gender domain.Gender, age int) (*domain.AnalysisResult, error) {
	startTime := time.Now()

	if strings.TrimSpace(text) == "" {
		return nil, domain.NewAppError(domain.ErrInvalidInput,
			"no text to analyze", "report text is empty", "")
	}

	text = truncateRunes(text, a.maxTextLength)

	entities := a.extractor.Extract(text)

	if gender == "" {
		gender = entities.Patient.Gender
	}
	if age == 0 {
		age = entities.Patient.Age
	}

	result := &domain.AnalysisResult{
		ReportID:  uuid.New().String(),
		Timestamp: time.Now().UTC(),
	}

	if len(entities.LabValues) > 0 {
		risk := a.assessor.Assess(entities.LabValues, gender, age)
		result.Kind = domain.ReportLab
		result.Lab = &domain.LabReportResult{
			Entities:    entities,
			Risk:        risk,
			Explanation: a.explainer.BuildLab(risk, entities, age),
		}
	} else {
		result.Kind = domain.ReportNarrative
		result.Narrative = &domain.NarrativeReportResult{
			Entities:    entities,
			RiskLevel:   domain.RiskInfo,
			Explanation: a.explainer.BuildNarrative(entities, text),
			Excerpt:     truncateRunes(text, 1000),
		}
	}

	a.logger.WithFields(logrus.Fields{
		"report_id":       result.ReportID,
		"kind":            result.Kind,
		"risk_level":      result.RiskLevelOf(),
		"lab_values":      len(entities.LabValues),
		"processing_time": time.Since(startTime),
	}).Info("Report analysis completed")

	return result, nil
}
