package knowledge

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/medreport-analyzer/internal/domain"
)

// Base is the static clinical knowledge used by the analysis pipeline:
// reference ranges keyed by (canonical test, sex variant), the critical
// test set, per-test plain-language explanations and the jargon glossary.
// It is immutable after construction and safe for concurrent readers.
type Base struct {
	ranges       map[string]map[domain.SexVariant]domain.ReferenceRange
	critical     map[string]bool
	explanations map[string]TestExplanation
	glossary     []GlossaryEntry
}

// NewBase creates a knowledge base with the built-in clinical tables
func NewBase() *Base {
	return NewBaseFromTables(defaultRanges(), defaultCriticalTests(), defaultExplanations(), defaultGlossary())
}

// NewBaseFromTables creates a knowledge base from explicit tables.
// Tests use it to inject small fixtures.
func NewBaseFromTables(ranges []domain.ReferenceRange, critical []string, explanations map[string]TestExplanation, glossary []GlossaryEntry) *Base {
	b := &Base{
		ranges:       make(map[string]map[domain.SexVariant]domain.ReferenceRange),
		critical:     make(map[string]bool),
		explanations: explanations,
		glossary:     glossary,
	}
	for _, r := range ranges {
		variants, ok := b.ranges[r.Test]
		if !ok {
			variants = make(map[domain.SexVariant]domain.ReferenceRange)
			b.ranges[r.Test] = variants
		}
		variants[r.Sex] = r
	}
	for _, name := range critical {
		b.critical[name] = true
	}
	return b
}

// Range returns the reference range for a test and gender, falling back
// to the unisex entry when no sex-specific band exists.
func (b *Base) Range(test string, gender domain.Gender) (domain.ReferenceRange, bool) {
	variants, ok := b.ranges[test]
	if !ok {
		return domain.ReferenceRange{}, false
	}
	if r, ok := variants[domain.SexVariant(gender)]; ok {
		return r, true
	}
	r, ok := variants[domain.SexUnisex]
	return r, ok
}

// RangeString returns the formatted normal band, e.g. "13.5 - 17.5 g/dL"
func (b *Base) RangeString(test string, gender domain.Gender) string {
	r, ok := b.Range(test, gender)
	if !ok {
		return "Not available"
	}
	return fmt.Sprintf("%s - %s %s",
		strconv.FormatFloat(r.Min, 'f', -1, 64),
		strconv.FormatFloat(r.Max, 'f', -1, 64),
		r.Unit)
}

// IsCritical reports whether a test belongs to the critical set that
// weighs more heavily in aggregate risk scoring
func (b *Base) IsCritical(test string) bool {
	return b.critical[test]
}

// Explanation returns the plain-language entry for a test, if one exists
func (b *Base) Explanation(test string) (TestExplanation, bool) {
	e, ok := b.explanations[test]
	return e, ok
}

// Glossary returns the ordered jargon substitution table
func (b *Base) Glossary() []GlossaryEntry {
	return b.glossary
}

// KnownTests returns the sorted canonical names of all tests with a
// reference range
func (b *Base) KnownTests() []string {
	names := make([]string, 0, len(b.ranges))
	for name := range b.ranges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultCriticalTests lists tests whose abnormality escalates risk
func defaultCriticalTests() []string {
	return []string{"FBS", "HbA1c", "Cholesterol", "LDL", "Creatinine", "TSH"}
}

// defaultRanges holds the built-in clinical reference bands. HDL has no
// clinical upper bound; 999 acts as a sentinel max.
func defaultRanges() []domain.ReferenceRange {
	return []domain.ReferenceRange{
		{Test: "Hemoglobin", Sex: domain.SexMale, Min: 13.5, Max: 17.5, Unit: "g/dL"},
		{Test: "Hemoglobin", Sex: domain.SexFemale, Min: 12.0, Max: 15.5, Unit: "g/dL"},
		{Test: "WBC", Sex: domain.SexUnisex, Min: 4000, Max: 11000, Unit: "/cumm"},
		{Test: "RBC", Sex: domain.SexMale, Min: 4.5, Max: 5.9, Unit: "million/cumm"},
		{Test: "RBC", Sex: domain.SexFemale, Min: 4.0, Max: 5.2, Unit: "million/cumm"},
		{Test: "Platelet", Sex: domain.SexUnisex, Min: 150000, Max: 400000, Unit: "/cumm"},
		{Test: "FBS", Sex: domain.SexUnisex, Min: 70, Max: 100, Unit: "mg/dL"},
		{Test: "HbA1c", Sex: domain.SexUnisex, Min: 4.0, Max: 5.6, Unit: "%"},
		{Test: "SGPT", Sex: domain.SexMale, Min: 7, Max: 56, Unit: "U/L"},
		{Test: "SGPT", Sex: domain.SexFemale, Min: 7, Max: 45, Unit: "U/L"},
		{Test: "SGOT", Sex: domain.SexMale, Min: 10, Max: 40, Unit: "U/L"},
		{Test: "SGOT", Sex: domain.SexFemale, Min: 10, Max: 35, Unit: "U/L"},
		{Test: "Cholesterol", Sex: domain.SexUnisex, Min: 0, Max: 200, Unit: "mg/dL"},
		{Test: "LDL", Sex: domain.SexUnisex, Min: 0, Max: 100, Unit: "mg/dL"},
		{Test: "HDL", Sex: domain.SexMale, Min: 40, Max: 999, Unit: "mg/dL"},
		{Test: "HDL", Sex: domain.SexFemale, Min: 50, Max: 999, Unit: "mg/dL"},
		{Test: "Triglycerides", Sex: domain.SexUnisex, Min: 0, Max: 150, Unit: "mg/dL"},
		{Test: "Creatinine", Sex: domain.SexMale, Min: 0.7, Max: 1.3, Unit: "mg/dL"},
		{Test: "Creatinine", Sex: domain.SexFemale, Min: 0.6, Max: 1.1, Unit: "mg/dL"},
		{Test: "Urea", Sex: domain.SexUnisex, Min: 7, Max: 20, Unit: "mg/dL"},
		{Test: "TSH", Sex: domain.SexUnisex, Min: 0.4, Max: 4.0, Unit: "mIU/L"},
		{Test: "Sodium", Sex: domain.SexUnisex, Min: 136, Max: 145, Unit: "mEq/L"},
		{Test: "Potassium", Sex: domain.SexUnisex, Min: 3.5, Max: 5.0, Unit: "mEq/L"},
	}
}
