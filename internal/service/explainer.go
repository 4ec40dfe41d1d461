package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/medreport-analyzer/internal/domain"
	"github.com/medreport-analyzer/internal/knowledge"
)

// checkupAge gates the periodic-checkup recommendation
const checkupAge = 40

// defaultExcerptLength bounds the raw-text excerpt in narrative mode
const defaultExcerptLength = 1500

// disclaimer closes every recommendation list
const disclaimer = "This report is for educational purposes only - always follow your doctor's advice"

// ExplainerService assembles plain-language narrative, recommendations
// and doctor questions from a risk result. Content is built as typed
// sections first; rendering to text is a separate, final step.
type ExplainerService struct {
	logger        *logrus.Logger
	kb            *knowledge.Base
	excerptLength int
}

// conditionBlock ties trigger tests to the advice and follow-up question
// they unlock. Blocks are evaluated in slice order and emitted whole.
type conditionBlock struct {
	triggers        []string
	recommendations []string
	question        string
}

// NewExplainerService creates a new explanation builder
func NewExplainerService(logger *logrus.Logger, kb *knowledge.Base, excerptLength int) *ExplainerService {
	if excerptLength <= 0 {
		excerptLength = defaultExcerptLength
	}
	return &ExplainerService{logger: logger, kb: kb, excerptLength: excerptLength}
}

// conditionBlocks returns the fixed advice table in evaluation order
func conditionBlocks() []conditionBlock {
	return []conditionBlock{
		{
			triggers: []string{"FBS", "HbA1c"},
			recommendations: []string{
				"Reduce sugar, white rice, and refined carbohydrates in your diet",
				"Exercise at least 30 minutes per day, 5 days a week",
			},
			question: "Do I have diabetes or pre-diabetes? What are my next steps?",
		},
		{
			triggers: []string{"Cholesterol", "LDL"},
			recommendations: []string{
				"Avoid fried foods, red meat, and full-fat dairy products",
				"Increase fiber intake: oats, fruits, vegetables, and legumes",
			},
			question: "What is my risk for heart disease based on these results?",
		},
		{
			triggers: []string{"SGPT", "SGOT"},
			recommendations: []string{
				"Avoid alcohol completely until liver values normalize",
				"Reduce fatty and processed foods",
			},
			question: "Should I get an ultrasound of my liver?",
		},
		{
			triggers: []string{"Hemoglobin"},
			recommendations: []string{
				"Eat iron-rich foods: spinach, lentils, beans, lean red meat",
				"Include Vitamin C to help iron absorption",
			},
		},
		{
			triggers: []string{"Creatinine"},
			recommendations: []string{
				"Drink at least 8-10 glasses of water daily",
				"Avoid painkillers like ibuprofen without doctor advice",
			},
			question: "Are my kidneys functioning properly? Do I need a kidney specialist?",
		},
		{
			triggers: []string{"TSH"},
			recommendations: []string{
				"Take thyroid medication exactly as prescribed by your doctor",
			},
		},
	}
}

// baseQuestions is the fixed list that opens every doctor-question set
// for lab reports, always in this order.
func baseQuestions() []string {
	return []string{
		"What is the main cause of my abnormal results?",
		"Do I need any additional tests or investigations?",
		"What treatment or medication do you recommend?",
		"How soon should I come back for a follow-up test?",
		"Are there specific foods or activities I should avoid?",
		"Should I be worried about any of these results?",
	}
}

// BuildLab produces the explanation for a report with lab values
func (s *ExplainerService) BuildLab(risk domain.RiskResult, entities domain.ExtractedEntities, age int) domain.ExplanationResult {
	sections := s.buildLabSections(risk)
	result := domain.ExplanationResult{
		Sections:        sections,
		Narrative:       renderSections(sections),
		Recommendations: s.buildRecommendations(risk, age),
		DoctorQuestions: s.buildQuestions(risk),
	}

	s.logger.WithFields(logrus.Fields{
		"sections":        len(result.Sections),
		"recommendations": len(result.Recommendations),
		"questions":       len(result.DoctorQuestions),
	}).Debug("Lab explanation built")

	return result
}

// buildLabSections assembles the summary and per-finding blocks
func (s *ExplainerService) buildLabSections(risk domain.RiskResult) []domain.Section {
	summary := domain.Section{Kind: domain.SectionSummary, Title: "YOUR MEDICAL REPORT SUMMARY"}
	normalCount := risk.TotalTests - risk.AbnormalCount

	if risk.AbnormalCount == 0 {
		summary.Lines = append(summary.Lines,
			"Good news! All your test results are within normal range.",
			"Continue maintaining a healthy lifestyle.")
	} else {
		summary.Lines = append(summary.Lines,
			fmt.Sprintf("Your report shows %d value(s) outside the normal range.", risk.AbnormalCount))
		if normalCount > 0 {
			summary.Lines = append(summary.Lines,
				fmt.Sprintf("%d other test(s) are normal.", normalCount))
		}
	}
	summary.Lines = append(summary.Lines, fmt.Sprintf("Overall Risk Level: %s", risk.RiskLevel))

	sections := []domain.Section{summary}
	for _, finding := range risk.AbnormalFindings {
		sections = append(sections, s.buildFindingSection(finding))
	}
	return sections
}

// buildFindingSection renders one abnormal finding. Tests without an
// explanation entry still get their value, status and range lines; only
// the descriptive paragraph is omitted.
func (s *ExplainerService) buildFindingSection(finding domain.AbnormalFinding) domain.Section {
	section := domain.Section{Kind: domain.SectionFinding, Title: finding.Test}
	section.Lines = append(section.Lines, fmt.Sprintf("%s: %s %s - %s (%s)",
		finding.Test,
		strconv.FormatFloat(finding.Value, 'f', -1, 64),
		finding.Unit,
		strings.ToUpper(string(finding.Status)),
		finding.Severity))
	if finding.NormalRange != "" {
		section.Lines = append(section.Lines, fmt.Sprintf("Normal range: %s", finding.NormalRange))
	}

	if expl, ok := s.kb.Explanation(finding.Test); ok {
		section.Lines = append(section.Lines,
			fmt.Sprintf("What is it: %s", expl.What),
			fmt.Sprintf("What it means: %s", expl.Meaning(string(finding.Status))),
			fmt.Sprintf("What to do: %s", expl.Action(string(finding.Status))))
	}
	return section
}

// buildRecommendations opens with the urgency line for the risk level,
// emits every triggered condition block in full, adds the age-gated
// checkup line, and always closes with the disclaimer.
func (s *ExplainerService) buildRecommendations(risk domain.RiskResult, age int) []string {
	recs := []string{urgencyLine(risk.RiskLevel)}

	triggered := abnormalTestSet(risk)
	for _, block := range conditionBlocks() {
		if block.isTriggered(triggered) {
			recs = append(recs, block.recommendations...)
		}
	}

	if age > checkupAge {
		recs = append(recs, "Consider getting a comprehensive health checkup every 6 months")
	}

	return append(recs, disclaimer)
}

// buildQuestions returns the six base questions plus condition
// follow-ups in trigger evaluation order
func (s *ExplainerService) buildQuestions(risk domain.RiskResult) []string {
	questions := baseQuestions()

	triggered := abnormalTestSet(risk)
	for _, block := range conditionBlocks() {
		if block.question != "" && block.isTriggered(triggered) {
			questions = append(questions, block.question)
		}
	}
	return questions
}

// BuildNarrative produces the degraded explanation for clinical or
// consultation reports without numeric lab values. The caller sets the
// INFO risk level on the surrounding result.
func (s *ExplainerService) BuildNarrative(entities domain.ExtractedEntities, rawText string) domain.ExplanationResult {
	summary := domain.Section{
		Kind:  domain.SectionSummary,
		Title: "CLINICAL REPORT SUMMARY",
		Lines: []string{
			"This appears to be a clinical/consultation report (not a lab test report).",
			"No numerical lab values were detected in this document.",
		},
	}

	found := domain.Section{Kind: domain.SectionInfo, Title: "WHAT WAS FOUND IN YOUR REPORT"}
	if len(entities.Diagnoses) > 0 {
		found.Lines = append(found.Lines,
			fmt.Sprintf("Conditions/Diagnoses mentioned: %s", strings.Join(entities.Diagnoses, ", ")))
	}
	if len(entities.Medications) > 0 {
		found.Lines = append(found.Lines,
			fmt.Sprintf("Medications mentioned: %s", strings.Join(entities.Medications, ", ")))
	}
	if entities.Patient.Age > 0 {
		found.Lines = append(found.Lines, fmt.Sprintf("Patient Age: %d", entities.Patient.Age))
	}
	if len(found.Lines) == 0 {
		found.Lines = append(found.Lines, "No conditions, medications or patient details were recognized.")
	}

	excerpt := domain.Section{
		Kind:  domain.SectionExcerpt,
		Title: "RAW TEXT EXTRACTED FROM YOUR DOCUMENT",
		Lines: []string{truncateRunes(rawText, s.excerptLength)},
	}

	sections := []domain.Section{summary, found, excerpt}
	result := domain.ExplanationResult{
		Sections:  sections,
		Narrative: renderSections(sections),
		Recommendations: []string{
			"This is a clinical consultation or narrative report",
			"Please read the full extracted text above for your doctor's notes",
			"If you expected lab values, ensure you uploaded the correct report",
			"Consult your doctor directly for interpretation of clinical notes",
		},
		DoctorQuestions: []string{
			"What do the findings in this report mean for my health?",
			"Are any follow-up tests or investigations needed?",
			"What treatment plan do you recommend based on this report?",
			"Should I see any specialist based on these findings?",
		},
	}

	s.logger.WithField("excerpt_len", len(excerpt.Lines[0])).Debug("Narrative explanation built")
	return result
}

// isTriggered reports whether any of the block's trigger tests appears
// in the abnormal set
func (b conditionBlock) isTriggered(abnormal map[string]bool) bool {
	for _, t := range b.triggers {
		if abnormal[t] {
			return true
		}
	}
	return false
}

// abnormalTestSet collects the canonical names of abnormal findings
func abnormalTestSet(risk domain.RiskResult) map[string]bool {
	set := make(map[string]bool, len(risk.AbnormalFindings))
	for _, f := range risk.AbnormalFindings {
		set[f.Test] = true
	}
	return set
}

// urgencyLine maps the risk level to the opening recommendation
func urgencyLine(level domain.RiskLevel) string {
	switch level {
	case domain.RiskHigh:
		return "URGENT: Please consult your doctor as soon as possible"
	case domain.RiskMedium:
		return "Schedule a doctor appointment within this week"
	default:
		return "Discuss results at your next routine checkup"
	}
}

// renderSections joins typed sections into the final narrative text
func renderSections(sections []domain.Section) string {
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if section.Title != "" {
			b.WriteString(fmt.Sprintf("=== %s ===\n", section.Title))
		}
		b.WriteString(strings.Join(section.Lines, "\n"))
	}
	return b.String()
}

// truncateRunes caps a string at n runes, appending an ellipsis marker
// when text was cut
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
