package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/medreport-analyzer/internal/domain"
)

// ExtractorService scans raw report text for lab values, medications,
// diagnoses and patient demographics using fixed pattern tables. It is
// a pure function over the text: no side effects, never an error.
type ExtractorService struct {
	logger      *logrus.Logger
	labPatterns []*regexp.Regexp
	synonyms    map[string]string
	medications []string
	diseases    []string

	agePattern    *regexp.Regexp
	malePattern   *regexp.Regexp
	femalePattern *regexp.Regexp
	datePattern   *regexp.Regexp
}

// NewExtractorService creates an extractor with the built-in pattern and
// keyword tables. Patterns compile once; the service is safe for
// concurrent use.
func NewExtractorService(logger *logrus.Logger) *ExtractorService {
	return &ExtractorService{
		logger:      logger,
		labPatterns: compileLabPatterns(),
		synonyms:    testSynonyms(),
		medications: medicationKeywords(),
		diseases:    diseaseKeywords(),

		agePattern:    regexp.MustCompile(`(?i)Age[:\s]+(\d+)`),
		malePattern:   regexp.MustCompile(`(?i)\b(male|man|mr\.?)\b`),
		femalePattern: regexp.MustCompile(`(?i)\b(female|woman|mrs\.?|miss)\b`),
		datePattern:   regexp.MustCompile(`(?i)Date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2})`),
	}
}

// compileLabPatterns returns the ordered test-family patterns. Each
// pattern captures a label token, a numeric value and an optional unit.
// Order matters: the first pattern to match a canonical test wins.
func compileLabPatterns() []*regexp.Regexp {
	raw := []string{
		`(Hemoglobin|Hb|HGB)[:\s]+(\d+\.?\d*)\s*(g/dL|g/dl)?`,
		`(WBC|White Blood Cell|Leucocytes)[:\s]+(\d+[,.]?\d*)\s*(/cumm|/mm3|cells/cumm)?`,
		`(RBC|Red Blood Cell)[:\s]+(\d+\.?\d*)\s*(million/cumm|M/uL)?`,
		`(Platelet|PLT)[:\s]+(\d+[,.]?\d*)\s*(/cumm|thousand/cumm)?`,
		`(FBS|Fasting Blood Sugar|Fasting Glucose)[:\s]+(\d+\.?\d*)\s*(mg/dL|mg/dl)?`,
		`(HbA1c|Glycated Hemoglobin)[:\s]+(\d+\.?\d*)\s*(%)?`,
		`(SGPT|ALT|Alanine)[:\s]+(\d+\.?\d*)\s*(U/L|IU/L)?`,
		`(SGOT|AST|Aspartate)[:\s]+(\d+\.?\d*)\s*(U/L|IU/L)?`,
		`(Total Cholesterol|Cholesterol)[:\s]+(\d+\.?\d*)\s*(mg/dL|mg/dl)?`,
		`(LDL|LDL Cholesterol)[:\s]+(\d+\.?\d*)\s*(mg/dL|mg/dl)?`,
		`(HDL|HDL Cholesterol)[:\s]+(\d+\.?\d*)\s*(mg/dL|mg/dl)?`,
		`(Triglycerides|TG)[:\s]+(\d+\.?\d*)\s*(mg/dL|mg/dl)?`,
		`(Creatinine|Serum Creatinine)[:\s]+(\d+\.?\d*)\s*(mg/dL|mg/dl)?`,
		`(Urea|Blood Urea)[:\s]+(\d+\.?\d*)\s*(mg/dL|mg/dl)?`,
		`(TSH)[:\s]+(\d+\.?\d*)\s*(mIU/L|uIU/mL)?`,
		`(Sodium|Na\+?)[:\s]+(\d+\.?\d*)\s*(mEq/L|mmol/L)?`,
		`(Potassium|K\+?)[:\s]+(\d+\.?\d*)\s*(mEq/L|mmol/L)?`,
	}
	compiled := make([]*regexp.Regexp, len(raw))
	for i, p := range raw {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return compiled
}

// Extract scans text for all medical entities
func (e *ExtractorService) Extract(text string) domain.ExtractedEntities {
	entities := domain.ExtractedEntities{
		LabValues:   e.extractLabValues(text),
		Medications: e.extractKeywords(text, e.medications),
		Diagnoses:   e.extractKeywords(text, e.diseases),
		Patient:     e.extractPatientInfo(text),
	}

	e.logger.WithFields(logrus.Fields{
		"lab_values":  len(entities.LabValues),
		"medications": len(entities.Medications),
		"diagnoses":   len(entities.Diagnoses),
	}).Debug("Entity extraction completed")

	return entities
}

// extractLabValues applies the ordered pattern list with first-match-wins
// deduplication per canonical test name. A later mention of an already
// seen test is discarded, even under a different synonym.
func (e *ExtractorService) extractLabValues(text string) []domain.LabObservation {
	observations := make([]domain.LabObservation, 0)
	seen := make(map[string]bool)

	for _, pattern := range e.labPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			rawName := strings.TrimSpace(match[1])
			valueStr := strings.ReplaceAll(match[2], ",", "")
			unit := ""
			if len(match) > 3 {
				unit = strings.TrimSpace(match[3])
			}

			canonical := e.normalizeTestName(rawName)
			if seen[canonical] {
				continue
			}

			value, err := strconv.ParseFloat(valueStr, 64)
			if err != nil {
				// Partial matches are expected in noisy OCR text;
				// drop the observation and keep scanning.
				e.logger.WithFields(logrus.Fields{
					"raw_name": rawName,
					"value":    valueStr,
				}).Debug("Dropping lab match with unparseable value")
				continue
			}

			observations = append(observations, domain.LabObservation{
				Test:    canonical,
				RawName: rawName,
				Value:   value,
				Unit:    unit,
			})
			seen[canonical] = true
		}
	}

	return observations
}

// normalizeTestName maps a surface form to its canonical display name.
// Unknown names fall back to title-cased raw text; that path is lossy
// because downstream reference lookup will not know the test.
func (e *ExtractorService) normalizeTestName(name string) string {
	if canonical, ok := e.synonyms[strings.ToLower(strings.TrimSpace(name))]; ok {
		return canonical
	}
	e.logger.WithField("raw_name", name).Warn("Unknown test name passed through extraction")
	return titleCase(name)
}

// extractKeywords runs a case-insensitive substring membership test and
// returns matched keywords in title case, not the surface form.
func (e *ExtractorService) extractKeywords(text string, keywords []string) []string {
	found := make([]string, 0)
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			found = append(found, titleCase(kw))
		}
	}
	return found
}

// extractPatientInfo pulls age, gender and report date from the text.
// The male word set is checked before the female one; a document that
// matches both is classified male.
func (e *ExtractorService) extractPatientInfo(text string) domain.PatientInfo {
	info := domain.PatientInfo{}

	if m := e.agePattern.FindStringSubmatch(text); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil {
			info.Age = age
		}
	}

	if e.malePattern.MatchString(text) {
		info.Gender = domain.GenderMale
	} else if e.femalePattern.MatchString(text) {
		info.Gender = domain.GenderFemale
	}

	if m := e.datePattern.FindStringSubmatch(text); m != nil {
		info.ReportDate = m[1]
	}

	return info
}

// titleCase upper-cases the first letter of each word and lower-cases
// the rest, preserving the original word separators.
func titleCase(s string) string {
	var b strings.Builder
	startOfWord := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			startOfWord = false
		default:
			b.WriteRune(r)
			startOfWord = true
		}
	}
	return b.String()
}

func medicationKeywords() []string {
	return []string{
		"metformin", "aspirin", "atorvastatin", "lisinopril", "amlodipine",
		"omeprazole", "pantoprazole", "paracetamol", "ibuprofen", "amoxicillin",
		"azithromycin", "ciprofloxacin", "insulin", "glipizide", "ramipril",
		"telmisartan", "losartan", "enalapril", "warfarin", "clopidogrel",
	}
}

func diseaseKeywords() []string {
	return []string{
		"diabetes", "hypertension", "anemia", "hepatitis", "thyroid",
		"cholesterol", "infection", "inflammation", "fatty liver",
		"kidney disease", "heart disease", "diabetes mellitus",
	}
}

func testSynonyms() map[string]string {
	return map[string]string{
		"hb":                  "Hemoglobin",
		"hgb":                 "Hemoglobin",
		"hemoglobin":          "Hemoglobin",
		"wbc":                 "WBC",
		"white blood cell":    "WBC",
		"leucocytes":          "WBC",
		"rbc":                 "RBC",
		"red blood cell":      "RBC",
		"platelet":            "Platelet",
		"plt":                 "Platelet",
		"fbs":                 "FBS",
		"fasting blood sugar": "FBS",
		"fasting glucose":     "FBS",
		"hba1c":               "HbA1c",
		"glycated hemoglobin": "HbA1c",
		"sgpt":                "SGPT",
		"alt":                 "SGPT",
		"alanine":             "SGPT",
		"sgot":                "SGOT",
		"ast":                 "SGOT",
		"aspartate":           "SGOT",
		"total cholesterol":   "Cholesterol",
		"cholesterol":         "Cholesterol",
		"ldl":                 "LDL",
		"ldl cholesterol":     "LDL",
		"hdl":                 "HDL",
		"hdl cholesterol":     "HDL",
		"triglycerides":       "Triglycerides",
		"tg":                  "Triglycerides",
		"creatinine":          "Creatinine",
		"serum creatinine":    "Creatinine",
		"urea":                "Urea",
		"blood urea":          "Urea",
		"tsh":                 "TSH",
		"sodium":              "Sodium",
		"na":                  "Sodium",
		"na+":                 "Sodium",
		"potassium":           "Potassium",
		"k":                   "Potassium",
		"k+":                  "Potassium",
	}
}
