package service

import (
	"github.com/sirupsen/logrus"

	"github.com/medreport-analyzer/internal/domain"
	"github.com/medreport-analyzer/internal/knowledge"
)

// Severity thresholds over relative deviation from the violated bound
const (
	severeDeviation   = 0.5
	moderateDeviation = 0.2
)

// Aggregate risk decision table cutoffs
const (
	highSevereCount     = 2
	highCriticalCount   = 2
	highAbnormalCount   = 4
	mediumSevereCount   = 1
	mediumCriticalCount = 1
	mediumAbnormalCount = 2
)

// AssessorService evaluates extracted lab values against the reference
// knowledge base and derives a deterministic aggregate risk level.
type AssessorService struct {
	logger *logrus.Logger
	kb     *knowledge.Base
}

// NewAssessorService creates a new risk assessor
func NewAssessorService(logger *logrus.Logger, kb *knowledge.Base) *AssessorService {
	return &AssessorService{logger: logger, kb: kb}
}

// Assess grades every observation and computes the aggregate risk level.
// Tests unknown to the knowledge base are dropped from both the abnormal
// and normal lists; they still count toward TotalTests. Gender defaults
// to male when unspecified.
func (a *AssessorService) Assess(labs []domain.LabObservation, gender domain.Gender, age int) domain.RiskResult {
	if gender == "" {
		gender = domain.GenderMale
	}

	abnormal := make([]domain.AbnormalFinding, 0)
	normal := make([]string, 0)

	for _, lab := range labs {
		ref, ok := a.kb.Range(lab.Test, gender)
		if !ok {
			// Data is silently lost here from the caller's view; log it
			// as a data-quality signal.
			a.logger.WithFields(logrus.Fields{
				"test":  lab.Test,
				"value": lab.Value,
			}).Warn("Test unknown to knowledge base, excluded from risk scoring")
			continue
		}

		status, isAbnormal := classifyValue(lab.Value, ref)
		if !isAbnormal {
			normal = append(normal, lab.Test)
			continue
		}

		unit := ref.Unit
		if unit == "" {
			unit = lab.Unit
		}

		abnormal = append(abnormal, domain.AbnormalFinding{
			Test:        lab.Test,
			Value:       lab.Value,
			Unit:        unit,
			Status:      status,
			Severity:    computeSeverity(lab.Value, ref, status),
			NormalRange: a.kb.RangeString(lab.Test, gender),
		})
	}

	result := domain.RiskResult{
		RiskLevel:        a.computeRiskLevel(abnormal),
		AbnormalFindings: abnormal,
		NormalTests:      normal,
		TotalTests:       len(labs),
		AbnormalCount:    len(abnormal),
	}

	a.logger.WithFields(logrus.Fields{
		"risk_level":     result.RiskLevel,
		"total_tests":    result.TotalTests,
		"abnormal_count": result.AbnormalCount,
		"gender":         gender,
	}).Info("Risk assessment completed")

	return result
}

// classifyValue places a value relative to its normal band. Equality to
// either bound counts as normal.
func classifyValue(value float64, ref domain.ReferenceRange) (domain.FindingStatus, bool) {
	switch {
	case value < ref.Min:
		return domain.StatusLow, true
	case value > ref.Max:
		return domain.StatusHigh, true
	default:
		return "", false
	}
}

// computeSeverity buckets the relative deviation from the violated
// bound. A zero minimum cannot yield a meaningful relative deviation on
// the low side and is treated as mild.
func computeSeverity(value float64, ref domain.ReferenceRange, status domain.FindingStatus) domain.Severity {
	var deviation float64
	switch status {
	case domain.StatusLow:
		if ref.Min == 0 {
			return domain.SeverityMild
		}
		deviation = (ref.Min - value) / ref.Min
	case domain.StatusHigh:
		deviation = (value - ref.Max) / ref.Max
	default:
		return domain.SeverityMild
	}

	switch {
	case deviation > severeDeviation:
		return domain.SeveritySevere
	case deviation > moderateDeviation:
		return domain.SeverityModerate
	default:
		return domain.SeverityMild
	}
}

// computeRiskLevel applies the fixed decision table over three counts:
// severe findings, critical-test findings and total abnormal findings.
func (a *AssessorService) computeRiskLevel(abnormal []domain.AbnormalFinding) domain.RiskLevel {
	if len(abnormal) == 0 {
		return domain.RiskLow
	}

	severeCount := 0
	criticalCount := 0
	for _, f := range abnormal {
		if f.Severity == domain.SeveritySevere {
			severeCount++
		}
		if a.kb.IsCritical(f.Test) {
			criticalCount++
		}
	}
	total := len(abnormal)

	switch {
	case severeCount >= highSevereCount || criticalCount >= highCriticalCount || total >= highAbnormalCount:
		return domain.RiskHigh
	case severeCount >= mediumSevereCount || criticalCount >= mediumCriticalCount || total >= mediumAbnormalCount:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
