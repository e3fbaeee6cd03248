// Package gemini talks to the Generative Language API over plain HTTP.
// It covers the two capabilities the app consumes: URL classification
// and the conversational assistant.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/linkyapp/linky/pkg/core/domain"
)

const requestTimeout = 20 * time.Second

type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(baseURL, model, apiKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log.With().Str("component", "gemini").Logger(),
	}
}

// Wire types for the generateContent endpoint.

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (r *generateResponse) text() string {
	var b strings.Builder
	for _, c := range r.Candidates {
		for _, p := range c.Content.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// Analyze classifies a URL. Any failure (missing key, network, bad
// status, malformed JSON) degrades to the fixed fallback so link
// creation is never blocked; the error reports what went wrong.
func (c *Client) Analyze(ctx context.Context, rawURL string) (domain.Analysis, error) {
	analysis, err := c.analyze(ctx, rawURL)
	if err != nil {
		c.log.Warn().Err(err).Str("url", rawURL).Msg("classification failed, using fallback")
		return domain.FallbackAnalysis(), err
	}
	return analysis, nil
}

func (c *Client) analyze(ctx context.Context, rawURL string) (domain.Analysis, error) {
	prompt := fmt.Sprintf("Analyze this URL: %s. "+
		"Provide a safety rating (0-100), 3 creative short aliases (3-8 chars), "+
		"a category (e.g., Tech, Social, News), and a 1-sentence summary of what the link likely is. "+
		`Respond as JSON: {"safetyRating": number, "suggestedAliases": [string], "category": string, "summary": string}.`, rawURL)

	req := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	var resp generateResponse
	if err := c.post(ctx, ":generateContent", req, &resp); err != nil {
		return domain.Analysis{}, err
	}

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.text())), &analysis); err != nil {
		return domain.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return coerce(analysis), nil
}

// coerce clamps the model output into the documented schema so a
// malformed response never propagates past this boundary.
func coerce(a domain.Analysis) domain.Analysis {
	if a.SafetyRating < 0 {
		a.SafetyRating = 0
	}
	if a.SafetyRating > 100 {
		a.SafetyRating = 100
	}
	if a.Category == "" {
		a.Category = "General"
	}
	aliases := a.SuggestedAliases[:0]
	for _, s := range a.SuggestedAliases {
		s = strings.TrimSpace(s)
		if s != "" {
			aliases = append(aliases, s)
		}
	}
	a.SuggestedAliases = aliases
	return a
}

func (c *Client) post(ctx context.Context, method string, body, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("no API key configured")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/models/%s%s?key=%s", c.baseURL, c.model, method, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
