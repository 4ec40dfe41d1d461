package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medreport-analyzer/internal/domain"
	"github.com/medreport-analyzer/internal/storage"
)

// ProcessReportRequest is the analysis request body. Either text or
// file_path must be set; text wins when both are present.
type ProcessReportRequest struct {
	Text       string `json:"text"`
	FilePath   string `json:"file_path"`
	SourceName string `json:"source_name"`
	Gender     string `json:"gender"`
	Age        int    `json:"age"`
	Language   string `json:"language"`
}

// ProcessReportResponse wraps the analysis result together with the
// optional translated narrative
type ProcessReportResponse struct {
	Result              *domain.AnalysisResult `json:"result"`
	TranslatedNarrative string                 `json:"translated_narrative,omitempty"`
	Cached              bool                   `json:"cached"`
}

// SimplifyRequest is the glossary substitution request body
type SimplifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// TranslateRequest is the translation request body
type TranslateRequest struct {
	Text   string `json:"text" binding:"required"`
	Target string `json:"target" binding:"required"`
	Source string `json:"source"`
}

// TranslateResponse carries translated text together with the language table
type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
	Target         string `json:"target"`
}

// KnownTestInfo describes one recognized lab test for the knowledge endpoint
type KnownTestInfo struct {
	Test        string `json:"test"`
	MaleRange   string `json:"male_range"`
	FemaleRange string `json:"female_range"`
	Critical    bool   `json:"critical"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}
	if s.db != nil {
		if err := s.db.Health(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		} else {
			status["database"] = "ok"
		}
	}
	if s.cache != nil {
		status["cache"] = s.cache.Stats()
	}
	c.JSON(http.StatusOK, status)
}

// handleProcessReport runs the full analysis pipeline over submitted
// report text or a server-side file, caches the result and records it
// in the analysis history
func (s *Server) handleProcessReport(c *gin.Context) {
	var req ProcessReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, domain.NewAppError(domain.ErrValidation,
			"invalid request body", err.Error(), c.GetString("correlation_id")))
		return
	}

	gender, err := parseGender(req.Gender)
	if err != nil {
		s.respondError(c, domain.NewAppError(domain.ErrValidation,
			"invalid gender", err.Error(), c.GetString("correlation_id")))
		return
	}

	text := req.Text
	sourceName := req.SourceName
	if text == "" && req.FilePath != "" {
		extracted, err := s.textSource.ExtractText(c.Request.Context(), req.FilePath)
		if err != nil {
			s.respondError(c, asAppError(err, c.GetString("correlation_id")))
			return
		}
		text = extracted
		if sourceName == "" {
			sourceName = req.FilePath
		}
	}

	if strings.TrimSpace(text) == "" {
		s.respondError(c, domain.NewAppError(domain.ErrInvalidInput,
			"no text to analyze", "provide text or file_path", c.GetString("correlation_id")))
		return
	}

	var (
		result *domain.AnalysisResult
		hit    bool
		key    string
	)
	if s.cache != nil {
		key = s.cache.Key(text, gender, req.Age)
		result, hit = s.cache.Get(c.Request.Context(), key)
	}

	if !hit {
		result, err = s.analyzer.Analyze(c.Request.Context(), text, gender, req.Age)
		if err != nil {
			s.respondError(c, asAppError(err, c.GetString("correlation_id")))
			return
		}

		if s.cache != nil {
			s.cache.Set(c.Request.Context(), key, result)
		}

		if s.store != nil {
			record := storage.NewRecord(result, sourceName, normalizeLanguage(req.Language))
			if err := s.store.Save(c.Request.Context(), record); err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"report_id": result.ReportID,
				}).Error("Failed to persist analysis record")
			}
		}
	}

	resp := ProcessReportResponse{Result: result, Cached: hit}

	if lang := normalizeLanguage(req.Language); lang != "" && lang != "en" && s.translator != nil {
		narrative := narrativeOf(result)
		if narrative != "" {
			resp.TranslatedNarrative = s.translator.Translate(c.Request.Context(), narrative, lang, "en")
		}
	}

	c.JSON(http.StatusOK, resp)
}

// handleGetReport returns one stored analysis record by ID
func (s *Server) handleGetReport(c *gin.Context) {
	if s.store == nil {
		s.respondError(c, domain.NewAppError(domain.ErrStorage,
			"analysis history is not configured", "", c.GetString("correlation_id")))
		return
	}

	record, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.logger.WithError(err).Error("Failed to load analysis record")
		s.respondError(c, domain.NewAppError(domain.ErrStorage,
			"failed to load analysis record", "", c.GetString("correlation_id")))
		return
	}
	if record == nil {
		s.respondError(c, domain.NewAppError(domain.ErrNotFound,
			"analysis record not found", c.Param("id"), c.GetString("correlation_id")))
		return
	}

	c.JSON(http.StatusOK, record)
}

// handleSimplify replaces known medical terms with plain language
func (s *Server) handleSimplify(c *gin.Context) {
	var req SimplifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, domain.NewAppError(domain.ErrValidation,
			"invalid request body", err.Error(), c.GetString("correlation_id")))
		return
	}

	c.JSON(http.StatusOK, s.simplifier.Simplify(req.Text))
}

// handleTranslate translates text into one of the supported languages.
// Translation failure degrades to the original text with an advisory
// prefix rather than an error response.
func (s *Server) handleTranslate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, domain.NewAppError(domain.ErrValidation,
			"invalid request body", err.Error(), c.GetString("correlation_id")))
		return
	}

	source := req.Source
	if source == "" {
		source = "en"
	}

	translated := s.translator.Translate(c.Request.Context(), req.Text, req.Target, source)
	c.JSON(http.StatusOK, TranslateResponse{
		TranslatedText: translated,
		Target:         req.Target,
	})
}

// handleKnownTests lists the recognized lab tests with their reference bands
func (s *Server) handleKnownTests(c *gin.Context) {
	tests := s.kb.KnownTests()
	infos := make([]KnownTestInfo, 0, len(tests))
	for _, test := range tests {
		infos = append(infos, KnownTestInfo{
			Test:        test,
			MaleRange:   s.kb.RangeString(test, domain.GenderMale),
			FemaleRange: s.kb.RangeString(test, domain.GenderFemale),
			Critical:    s.kb.IsCritical(test),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"tests": infos,
		"count": len(infos),
	})
}

// respondError writes a standardized error body with a status derived
// from the error code
func (s *Server) respondError(c *gin.Context, appErr *domain.AppError) {
	if appErr.RequestID == "" {
		appErr.RequestID = c.GetString("correlation_id")
	}
	c.JSON(statusForCode(appErr.Code), gin.H{"error": appErr})
}

func statusForCode(code string) int {
	switch code {
	case domain.ErrInvalidInput, domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrUnsupported:
		return http.StatusUnsupportedMediaType
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrExtraction:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// asAppError normalizes any pipeline error into an AppError
func asAppError(err error, requestID string) *domain.AppError {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		if appErr.RequestID == "" {
			appErr.RequestID = requestID
		}
		return appErr
	}
	return domain.NewAppError(domain.ErrInternalServer, "analysis failed", err.Error(), requestID)
}

// parseGender maps the request gender field onto the domain type.
// Empty means "not stated" and falls through to demographics recovered
// from the report text.
func parseGender(raw string) (domain.Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "male", "m":
		return domain.GenderMale, nil
	case "female", "f":
		return domain.GenderFemale, nil
	default:
		return "", domain.NewValidationError("gender", "must be male or female", raw)
	}
}

func normalizeLanguage(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// narrativeOf returns the rendered narrative of whichever variant is set
func narrativeOf(result *domain.AnalysisResult) string {
	if result.Lab != nil {
		return result.Lab.Explanation.Narrative
	}
	if result.Narrative != nil {
		return result.Narrative.Explanation.Narrative
	}
	return ""
}
