package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkyapp/linky/pkg/adapters/gemini"
	"github.com/linkyapp/linky/pkg/core/domain"
)

// candidateResponse wraps model output text the way the API does.
func candidateResponse(text string) string {
	payload := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestAnalyze_ParsesModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(candidateResponse(`{"safetyRating":85,"suggestedAliases":["dev","go2","hub"],"category":"Tech","summary":"A code host."}`)))
	}))
	defer server.Close()

	client := gemini.NewClient(server.URL, "test-model", "test-key", zerolog.Nop())

	analysis, err := client.Analyze(context.Background(), "https://github.com")
	require.NoError(t, err)
	assert.Equal(t, 85, analysis.SafetyRating)
	assert.Equal(t, []string{"dev", "go2", "hub"}, analysis.SuggestedAliases)
	assert.Equal(t, "Tech", analysis.Category)
	assert.Equal(t, "A code host.", analysis.Summary)
}

func TestAnalyze_CoercesOutOfSchemaOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse(`{"safetyRating":150,"suggestedAliases":[" dev ","","x"],"category":"","summary":"s"}`)))
	}))
	defer server.Close()

	client := gemini.NewClient(server.URL, "test-model", "test-key", zerolog.Nop())

	analysis, err := client.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, 100, analysis.SafetyRating, "rating clamped to 100")
	assert.Equal(t, []string{"dev", "x"}, analysis.SuggestedAliases, "blank aliases dropped")
	assert.Equal(t, "General", analysis.Category, "empty category defaulted")
}

func TestAnalyze_FallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := gemini.NewClient(server.URL, "test-model", "test-key", zerolog.Nop())

	analysis, err := client.Analyze(context.Background(), "https://example.com")
	assert.Error(t, err)
	assert.Equal(t, domain.FallbackAnalysis(), analysis)
}

func TestAnalyze_FallbackOnMalformedModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse("I cannot answer that.")))
	}))
	defer server.Close()

	client := gemini.NewClient(server.URL, "test-model", "test-key", zerolog.Nop())

	analysis, err := client.Analyze(context.Background(), "https://example.com")
	assert.Error(t, err)
	assert.Equal(t, domain.FallbackAnalysis(), analysis)
}

func TestAnalyze_FallbackWithoutAPIKey(t *testing.T) {
	client := gemini.NewClient("http://invalid.localhost", "test-model", "", zerolog.Nop())

	analysis, err := client.Analyze(context.Background(), "https://example.com")
	assert.Error(t, err)
	assert.Equal(t, domain.FallbackAnalysis(), analysis)
}
