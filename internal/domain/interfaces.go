package domain

import (
	"context"
)

// EntityExtractor scans raw report text for lab values, medications,
// diagnoses and patient demographics. Implementations must be pure:
// no side effects, never an error, empty collections on no matches.
type EntityExtractor interface {
	Extract(text string) ExtractedEntities
}

// RiskAssessor grades extracted lab values against reference ranges.
// Unknown tests degrade gracefully and are excluded from scoring.
type RiskAssessor interface {
	Assess(labs []LabObservation, gender Gender, age int) RiskResult
}

// ExplanationBuilder turns a risk result into plain-language narrative,
// recommendations and doctor questions. BuildNarrative serves reports
// with no numeric lab values.
type ExplanationBuilder interface {
	BuildLab(risk RiskResult, entities ExtractedEntities, age int) ExplanationResult
	BuildNarrative(entities ExtractedEntities, rawText string) ExplanationResult
}

// TextSource extracts raw text from a report file. A failure to extract
// any text at all must surface as an error, never as empty text.
type TextSource interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Translator converts text between supported languages. Translate must
// tolerate upstream failure by returning the input text.
type Translator interface {
	Translate(ctx context.Context, text, targetLang, sourceLang string) string
	SupportedLanguages() map[string]string
}
