package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medreport-analyzer/internal/domain"
	"github.com/medreport-analyzer/internal/knowledge"
)

func newAssessor() *AssessorService {
	return NewAssessorService(newTestLogger(), knowledge.NewBase())
}

func obs(test string, value float64) domain.LabObservation {
	return domain.LabObservation{Test: test, RawName: test, Value: value}
}

func TestAssessorService_Assess_RiskLevels(t *testing.T) {
	assessor := newAssessor()

	tests := []struct {
		name         string
		labs         []domain.LabObservation
		gender       domain.Gender
		wantRisk     domain.RiskLevel
		wantAbnormal int
	}{
		{
			name:         "All normal is low risk",
			labs:         []domain.LabObservation{obs("Hemoglobin", 14.5), obs("FBS", 90)},
			gender:       domain.GenderMale,
			wantRisk:     domain.RiskLow,
			wantAbnormal: 0,
		},
		{
			name:         "Single critical abnormal is medium risk",
			labs:         []domain.LabObservation{obs("FBS", 130), obs("Hemoglobin", 14.5)},
			gender:       domain.GenderMale,
			wantRisk:     domain.RiskMedium,
			wantAbnormal: 1,
		},
		{
			name: "Multiple severe criticals are high risk",
			labs: []domain.LabObservation{
				obs("FBS", 250),
				obs("HbA1c", 9.5),
				obs("Creatinine", 3.5),
			},
			gender:       domain.GenderMale,
			wantRisk:     domain.RiskHigh,
			wantAbnormal: 3,
		},
		{
			name:         "Single non-critical mild abnormal is low risk",
			labs:         []domain.LabObservation{obs("Sodium", 134)},
			gender:       domain.GenderMale,
			wantRisk:     domain.RiskLow,
			wantAbnormal: 1,
		},
		{
			name:         "No labs is low risk",
			labs:         nil,
			gender:       domain.GenderMale,
			wantRisk:     domain.RiskLow,
			wantAbnormal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := assessor.Assess(tt.labs, tt.gender, 0)
			assert.Equal(t, tt.wantRisk, result.RiskLevel)
			assert.Equal(t, tt.wantAbnormal, result.AbnormalCount)
			assert.Equal(t, len(tt.labs), result.TotalTests)
		})
	}
}

func TestAssessorService_Assess_Severity(t *testing.T) {
	assessor := newAssessor()

	// Male hemoglobin band is 13.5 - 17.5; deviation (13.5-8)/13.5 ~ 0.41
	result := assessor.Assess([]domain.LabObservation{obs("Hemoglobin", 8.0)}, domain.GenderMale, 0)
	require.Len(t, result.AbnormalFindings, 1)

	finding := result.AbnormalFindings[0]
	assert.Equal(t, domain.StatusLow, finding.Status)
	assert.Equal(t, domain.SeverityModerate, finding.Severity)
	assert.Equal(t, "13.5 - 17.5 g/dL", finding.NormalRange)
	assert.Equal(t, "g/dL", finding.Unit)
}

func TestAssessorService_Assess_ZeroMinIsMildOnHighSide(t *testing.T) {
	assessor := newAssessor()

	// Cholesterol band is 0 - 200; 290 deviates 0.45 above the max
	result := assessor.Assess([]domain.LabObservation{obs("Cholesterol", 290)}, domain.GenderMale, 0)
	require.Len(t, result.AbnormalFindings, 1)
	assert.Equal(t, domain.StatusHigh, result.AbnormalFindings[0].Status)
	assert.Equal(t, domain.SeverityModerate, result.AbnormalFindings[0].Severity)
}

func TestAssessorService_Assess_BoundaryEqualityIsNormal(t *testing.T) {
	assessor := newAssessor()

	result := assessor.Assess([]domain.LabObservation{
		obs("FBS", 70),
		obs("FBS", 100),
	}, domain.GenderMale, 0)

	// First-match dedup happens upstream; here both observations grade normal
	assert.Equal(t, domain.RiskLow, result.RiskLevel)
	assert.Empty(t, result.AbnormalFindings)
	assert.Equal(t, []string{"FBS", "FBS"}, result.NormalTests)
}

func TestAssessorService_Assess_GenderSpecificRanges(t *testing.T) {
	assessor := newAssessor()

	// 12.5 is normal for a female band (12 - 15.5) but low for male (13.5 - 17.5)
	female := assessor.Assess([]domain.LabObservation{obs("Hemoglobin", 12.5)}, domain.GenderFemale, 0)
	assert.Empty(t, female.AbnormalFindings)

	male := assessor.Assess([]domain.LabObservation{obs("Hemoglobin", 12.5)}, domain.GenderMale, 0)
	require.Len(t, male.AbnormalFindings, 1)
	assert.Equal(t, domain.StatusLow, male.AbnormalFindings[0].Status)
}

func TestAssessorService_Assess_DefaultsToMale(t *testing.T) {
	assessor := newAssessor()

	result := assessor.Assess([]domain.LabObservation{obs("Hemoglobin", 12.5)}, "", 0)
	assert.Equal(t, 1, result.AbnormalCount)
}

func TestAssessorService_Assess_UnknownTestExcluded(t *testing.T) {
	assessor := newAssessor()

	result := assessor.Assess([]domain.LabObservation{
		obs("Vitamin D", 12),
		obs("FBS", 90),
	}, domain.GenderMale, 0)

	assert.Empty(t, result.AbnormalFindings)
	assert.Equal(t, []string{"FBS"}, result.NormalTests)
	// Unknown tests still count toward the total
	assert.Equal(t, 2, result.TotalTests)
}

func TestAssessorService_Assess_UnisexFallback(t *testing.T) {
	assessor := newAssessor()

	// TSH only has a unisex band
	result := assessor.Assess([]domain.LabObservation{obs("TSH", 6.0)}, domain.GenderFemale, 0)
	require.Len(t, result.AbnormalFindings, 1)
	assert.Equal(t, "0.4 - 4 mIU/L", result.AbnormalFindings[0].NormalRange)
}

func TestAssessorService_RiskNeverDecreasesWithMoreFindings(t *testing.T) {
	assessor := newAssessor()

	rank := map[domain.RiskLevel]int{
		domain.RiskLow:    0,
		domain.RiskMedium: 1,
		domain.RiskHigh:   2,
	}

	bases := [][]domain.LabObservation{
		nil,
		{obs("Sodium", 134)},
		{obs("FBS", 130)},
		{obs("FBS", 130), obs("Sodium", 134)},
	}

	for _, base := range bases {
		before := assessor.Assess(base, domain.GenderMale, 0).RiskLevel
		// HbA1c 9.5 is a severe critical-test abnormality
		after := assessor.Assess(append(append([]domain.LabObservation{}, base...), obs("HbA1c", 9.5)), domain.GenderMale, 0).RiskLevel
		assert.GreaterOrEqual(t, rank[after], rank[before])
	}
}

func TestComputeSeverity(t *testing.T) {
	ref := domain.ReferenceRange{Min: 100, Max: 200}

	tests := []struct {
		name   string
		value  float64
		status domain.FindingStatus
		want   domain.Severity
	}{
		{"Just below max is mild", 210, domain.StatusHigh, domain.SeverityMild},
		{"Moderate above max", 250, domain.StatusHigh, domain.SeverityModerate},
		{"Severe above max", 320, domain.StatusHigh, domain.SeveritySevere},
		{"Just below min is mild", 90, domain.StatusLow, domain.SeverityMild},
		{"Moderate below min", 75, domain.StatusLow, domain.SeverityModerate},
		{"Severe below min", 40, domain.StatusLow, domain.SeveritySevere},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeSeverity(tt.value, ref, tt.status))
		})
	}
}

func TestComputeSeverity_ZeroMinLowIsMild(t *testing.T) {
	ref := domain.ReferenceRange{Min: 0, Max: 100}
	assert.Equal(t, domain.SeverityMild, computeSeverity(-5, ref, domain.StatusLow))
}
