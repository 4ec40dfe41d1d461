package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medreport-analyzer/internal/domain"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestHTTPTranslator_NoOpTargets(t *testing.T) {
	translator := NewHTTPTranslator(newTestLogger(), domain.TranslatorConfig{Enabled: true})
	ctx := context.Background()

	assert.Equal(t, "hello", translator.Translate(ctx, "hello", "en", "hi"))
	assert.Equal(t, "hello", translator.Translate(ctx, "hello", "hi", "hi"))
}

func TestHTTPTranslator_DisabledFallsBack(t *testing.T) {
	translator := NewHTTPTranslator(newTestLogger(), domain.TranslatorConfig{Enabled: false})

	got := translator.Translate(context.Background(), "hello", "hi", "en")
	assert.Equal(t, "[Translation to Hindi is currently unavailable]\n\nhello", got)
}

func TestHTTPTranslator_UnsupportedLanguageFallsBack(t *testing.T) {
	translator := NewHTTPTranslator(newTestLogger(), domain.TranslatorConfig{Enabled: true})

	got := translator.Translate(context.Background(), "hello", "xx", "en")
	assert.Equal(t, "[Translation to xx is currently unavailable]\n\nhello", got)
}

func TestHTTPTranslator_SuccessfulCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/translate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req translateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Text)
		assert.Equal(t, "hi", req.Target)
		assert.Equal(t, "en", req.Source)

		json.NewEncoder(w).Encode(translateResponse{TranslatedText: "namaste"})
	}))
	defer server.Close()

	translator := NewHTTPTranslator(newTestLogger(), domain.TranslatorConfig{
		Enabled: true,
		BaseURL: server.URL,
	})

	got := translator.Translate(context.Background(), "hello", "hi", "en")
	assert.Equal(t, "namaste", got)
}

func TestHTTPTranslator_UpstreamErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	translator := NewHTTPTranslator(newTestLogger(), domain.TranslatorConfig{
		Enabled: true,
		BaseURL: server.URL,
	})

	got := translator.Translate(context.Background(), "hello", "ta", "en")
	assert.Equal(t, "[Translation to Tamil is currently unavailable]\n\nhello", got)
}

func TestHTTPTranslator_EmptyResponseFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(translateResponse{})
	}))
	defer server.Close()

	translator := NewHTTPTranslator(newTestLogger(), domain.TranslatorConfig{
		Enabled: true,
		BaseURL: server.URL,
	})

	got := translator.Translate(context.Background(), "hello", "bn", "en")
	assert.Equal(t, "[Translation to Bengali is currently unavailable]\n\nhello", got)
}

func TestHTTPTranslator_SupportedLanguages(t *testing.T) {
	translator := NewHTTPTranslator(newTestLogger(), domain.TranslatorConfig{})

	langs := translator.SupportedLanguages()
	assert.Len(t, langs, 6)
	assert.Equal(t, "Hindi", langs["hi"])

	// Mutating the returned map must not affect the translator
	langs["hi"] = "changed"
	assert.Equal(t, "Hindi", translator.SupportedLanguages()["hi"])
}
