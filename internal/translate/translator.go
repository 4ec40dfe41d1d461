package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/medreport-analyzer/internal/domain"
)

// languageNames maps supported language codes to display names
var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"bn": "Bengali",
	"ta": "Tamil",
	"te": "Telugu",
	"mr": "Marathi",
}

// HTTPTranslator implements domain.Translator against an external
// translation API. The call is rate limited and wrapped in a circuit
// breaker; any failure degrades to returning the input text with an
// advisory prefix, never an error.
type HTTPTranslator struct {
	logger     *logrus.Logger
	config     domain.TranslatorConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// translateRequest is the wire format of the translation API
type translateRequest struct {
	Text   string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	APIKey string `json:"api_key,omitempty"`
}

// translateResponse is the wire format of the translation API response
type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// NewHTTPTranslator creates a new translator client
func NewHTTPTranslator(logger *logrus.Logger, config domain.TranslatorConfig) *HTTPTranslator {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "Translator",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Translator circuit breaker state changed")
		},
	})

	return &HTTPTranslator{
		logger:     logger,
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		breaker:    breaker,
	}
}

// SupportedLanguages returns the language code to display name table
func (t *HTTPTranslator) SupportedLanguages() map[string]string {
	out := make(map[string]string, len(languageNames))
	for code, name := range languageNames {
		out[code] = name
	}
	return out
}

// Translate converts text to the target language. English targets and
// same-language requests are no-ops. On any upstream failure the input
// comes back unchanged behind an advisory line.
func (t *HTTPTranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) string {
	if targetLang == sourceLang || targetLang == "en" {
		return text
	}

	langName, supported := languageNames[targetLang]
	if !supported {
		langName = targetLang
	}

	if !t.config.Enabled || !supported {
		return t.fallback(langName, text)
	}

	translated, err := t.callAPI(ctx, text, targetLang, sourceLang)
	if err != nil {
		t.logger.WithError(err).WithField("target_lang", targetLang).Warn("Translation failed, returning original text")
		return t.fallback(langName, text)
	}
	return translated
}

// callAPI performs the rate-limited, circuit-broken HTTP exchange
func (t *HTTPTranslator) callAPI(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	result, err := t.breaker.Execute(func() (interface{}, error) {
		body, err := json.Marshal(translateRequest{
			Text:   text,
			Source: sourceLang,
			Target: targetLang,
			APIKey: t.config.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.config.BaseURL+"/translate", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := t.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("calling translation API: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("translation API returned status %d", resp.StatusCode)
		}

		var decoded translateResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		if decoded.TranslatedText == "" {
			return nil, fmt.Errorf("translation API returned empty text")
		}
		return decoded.TranslatedText, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// fallback returns the original text behind an advisory line
func (t *HTTPTranslator) fallback(langName, text string) string {
	return fmt.Sprintf("[Translation to %s is currently unavailable]\n\n%s", langName, text)
}
