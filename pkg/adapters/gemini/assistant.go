package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/linkyapp/linky/pkg/core/domain"
	"github.com/linkyapp/linky/pkg/ports"
)

// Session is one assistant conversation. The link list is folded into
// the system instruction once, at session start; later mutations of the
// store are not reflected.
type Session struct {
	client  *Client
	system  *content
	history []content
}

func (c *Client) NewSession(links []domain.Link) ports.AssistantSession {
	return &Session{
		client: c,
		system: &content{Parts: []part{{Text: buildSystemPrompt(links)}}},
	}
}

func buildSystemPrompt(links []domain.Link) string {
	var b strings.Builder
	b.WriteString("You are the LINKY assistant. Answer questions about the user's shortened links. ")
	b.WriteString("Be brief and helpful. The user's current links, newest first:\n")
	if len(links) == 0 {
		b.WriteString("(no links yet)\n")
	}
	for _, l := range links {
		fmt.Fprintf(&b, "- %s -> %s (category %s, clicks %d, safety %d)\n",
			l.ShortCode, l.OriginalURL, l.Category, l.Clicks, l.SafetyScore)
	}
	return b.String()
}

// Send streams the reply through onFragment and returns the full text.
// Any failure is swallowed and replaced with the fixed apology so the
// transcript never ends on a partial, unmarked message; the session
// stays usable for the next turn.
func (s *Session) Send(ctx context.Context, message string, onFragment func(string)) (string, error) {
	s.history = append(s.history, content{Role: "user", Parts: []part{{Text: message}}})

	reply, err := s.stream(ctx, onFragment)
	if err != nil {
		s.client.log.Warn().Err(err).Msg("assistant stream failed, using apology")
		reply = domain.AssistantApology
		if onFragment != nil {
			onFragment(reply)
		}
	}

	s.history = append(s.history, content{Role: "model", Parts: []part{{Text: reply}}})
	return reply, nil
}

func (s *Session) stream(ctx context.Context, onFragment func(string)) (string, error) {
	c := s.client
	if c.apiKey == "" {
		return "", fmt.Errorf("no API key configured")
	}

	payload, err := json.Marshal(generateRequest{
		Contents:          s.history,
		SystemInstruction: s.system,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok || data == "[DONE]" {
			continue
		}

		var chunk generateResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", fmt.Errorf("decode stream chunk: %w", err)
		}
		if fragment := chunk.text(); fragment != "" {
			full.WriteString(fragment)
			if onFragment != nil {
				onFragment(fragment)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return full.String(), nil
}
