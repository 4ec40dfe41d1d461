package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/medreport-analyzer/internal/domain"
	"github.com/medreport-analyzer/internal/knowledge"
)

// SimplifierService replaces medical jargon with plain language using
// the glossary table. It is independent of the lab pipeline.
type SimplifierService struct {
	logger *logrus.Logger
	kb     *knowledge.Base
}

// NewSimplifierService creates a new text simplifier
func NewSimplifierService(logger *logrus.Logger, kb *knowledge.Base) *SimplifierService {
	return &SimplifierService{logger: logger, kb: kb}
}

// Simplify lower-cases the input and applies the glossary in table
// order with plain substring replacement. Terms replace first-match
// inside text already modified by earlier entries, so overlapping terms
// can interact; the table order is part of the observable behavior.
func (s *SimplifierService) Simplify(text string) domain.SimplifyResult {
	result := strings.ToLower(text)
	termsFound := make([]string, 0)

	for _, entry := range s.kb.Glossary() {
		if strings.Contains(result, entry.Term) {
			result = strings.ReplaceAll(result, entry.Term, entry.Plain)
			termsFound = append(termsFound, entry.Term)
		}
	}

	s.logger.WithField("terms_found", len(termsFound)).Debug("Text simplification completed")

	return domain.SimplifyResult{
		SimplifiedText: result,
		TermsFound:     termsFound,
	}
}
