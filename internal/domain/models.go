package domain

import (
	"time"
)

// Core Enums and Types

// RiskLevel represents the aggregate risk grade of a lab report.
// INFO is not a severity grade: it marks narrative reports that carried
// no numeric findings to evaluate.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
	RiskInfo   RiskLevel = "INFO"
)

// Gender represents the patient gender used for reference range selection
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// SexVariant identifies which reference range band applies
type SexVariant string

const (
	SexMale   SexVariant = "male"
	SexFemale SexVariant = "female"
	SexUnisex SexVariant = "unisex"
)

// FindingStatus represents which side of the normal band a value fell on
type FindingStatus string

const (
	StatusLow  FindingStatus = "low"
	StatusHigh FindingStatus = "high"
)

// Severity buckets the relative deviation of a value from its nearest
// range boundary
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// ReportKind tags the two analysis modes
type ReportKind string

const (
	ReportLab       ReportKind = "lab"
	ReportNarrative ReportKind = "narrative"
)

// Extraction Models

// LabObservation is a single lab value mention found in the source text.
// Test holds the canonical name; RawName preserves the surface form.
type LabObservation struct {
	Test    string  `json:"test"`
	RawName string  `json:"raw_name"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit,omitempty"`
}

// PatientInfo holds demographics recovered from the report text.
// Zero values mean the field was not found.
type PatientInfo struct {
	Age        int    `json:"age,omitempty"`
	Gender     Gender `json:"gender,omitempty"`
	ReportDate string `json:"report_date,omitempty"`
}

// ExtractedEntities is the full output of entity extraction over one report
type ExtractedEntities struct {
	LabValues   []LabObservation `json:"lab_values"`
	Medications []string         `json:"medications"`
	Diagnoses   []string         `json:"diagnoses"`
	Patient     PatientInfo      `json:"patient_info"`
}

// Assessment Models

// ReferenceRange is the clinically normal [Min,Max] band for a test.
// Values equal to Min or Max are classified normal.
type ReferenceRange struct {
	Test string     `json:"test"`
	Sex  SexVariant `json:"sex_variant"`
	Min  float64    `json:"min"`
	Max  float64    `json:"max"`
	Unit string     `json:"unit"`
}

// AbnormalFinding is a lab value outside its reference range
type AbnormalFinding struct {
	Test        string        `json:"test"`
	Value       float64       `json:"value"`
	Unit        string        `json:"unit"`
	Status      FindingStatus `json:"status"`
	Severity    Severity      `json:"severity"`
	NormalRange string        `json:"normal_range"`
}

// RiskResult is the outcome of evaluating all extracted lab values.
// AbnormalFindings preserves extraction order; RiskLevel is a pure
// function of the findings and can be re-derived from them.
type RiskResult struct {
	RiskLevel        RiskLevel         `json:"risk_level"`
	AbnormalFindings []AbnormalFinding `json:"abnormal_findings"`
	NormalTests      []string          `json:"normal_tests"`
	TotalTests       int               `json:"total_tests"`
	AbnormalCount    int               `json:"abnormal_count"`
}

// Explanation Models

// SectionKind identifies the typed narrative sections
type SectionKind string

const (
	SectionSummary SectionKind = "summary"
	SectionFinding SectionKind = "finding"
	SectionInfo    SectionKind = "info"
	SectionExcerpt SectionKind = "excerpt"
)

// Section is one typed block of the narrative. The renderer joins
// sections into the final text; tests inspect content without caring
// about formatting.
type Section struct {
	Kind  SectionKind `json:"kind"`
	Title string      `json:"title,omitempty"`
	Lines []string    `json:"lines"`
}

// ExplanationResult is the plain-language output for a report
type ExplanationResult struct {
	Sections        []Section `json:"sections"`
	Narrative       string    `json:"narrative"`
	Recommendations []string  `json:"recommendations"`
	DoctorQuestions []string  `json:"doctor_questions"`
}

// Result Models

// LabReportResult is the full analysis of a report containing lab values
type LabReportResult struct {
	Entities    ExtractedEntities `json:"entities"`
	Risk        RiskResult        `json:"risk"`
	Explanation ExplanationResult `json:"explanation"`
}

// NarrativeReportResult is the degraded analysis of a clinical or
// consultation report with no numeric lab values
type NarrativeReportResult struct {
	Entities    ExtractedEntities `json:"entities"`
	RiskLevel   RiskLevel         `json:"risk_level"`
	Explanation ExplanationResult `json:"explanation"`
	Excerpt     string            `json:"excerpt"`
}

// AnalysisResult is a tagged variant: exactly one of Lab or Narrative is
// set, selected by Kind.
type AnalysisResult struct {
	ReportID  string                 `json:"report_id"`
	Kind      ReportKind             `json:"kind"`
	Lab       *LabReportResult       `json:"lab,omitempty"`
	Narrative *NarrativeReportResult `json:"narrative,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// RiskLevelOf returns the risk level of whichever variant is populated
func (r *AnalysisResult) RiskLevelOf() RiskLevel {
	if r.Kind == ReportNarrative && r.Narrative != nil {
		return r.Narrative.RiskLevel
	}
	if r.Lab != nil {
		return r.Lab.Risk.RiskLevel
	}
	return RiskInfo
}

// SimplifyResult is the output of the glossary substitution utility
type SimplifyResult struct {
	SimplifiedText string   `json:"simplified_text"`
	TermsFound     []string `json:"terms_found"`
}
