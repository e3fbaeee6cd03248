package gemini_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkyapp/linky/pkg/adapters/gemini"
	"github.com/linkyapp/linky/pkg/core/domain"
)

func sseChunk(text string) string {
	return fmt.Sprintf("data: %s\n\n", candidateResponse(text))
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func TestSession_StreamsFragments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "streamGenerateContent")
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseChunk("You have ")))
		w.Write([]byte(sseChunk("2 links.")))
	}))
	defer server.Close()

	client := gemini.NewClient(server.URL, "test-model", "test-key", zerolog.Nop())
	session := client.NewSession([]domain.Link{
		{ShortCode: "aaa", OriginalURL: "https://a.com"},
		{ShortCode: "bbb", OriginalURL: "https://b.com"},
	})

	var fragments []string
	reply, err := session.Send(context.Background(), "how many links do I have?", func(fragment string) {
		fragments = append(fragments, fragment)
	})
	require.NoError(t, err)
	assert.Equal(t, "You have 2 links.", reply)
	assert.Equal(t, []string{"You have ", "2 links."}, fragments)
}

func TestSession_ApologyOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := gemini.NewClient(server.URL, "test-model", "test-key", zerolog.Nop())
	session := client.NewSession(nil)

	var fragments []string
	reply, err := session.Send(context.Background(), "hello?", func(fragment string) {
		fragments = append(fragments, fragment)
	})
	require.NoError(t, err, "failures never crash the transcript")
	assert.Equal(t, domain.AssistantApology, reply)
	assert.Equal(t, []string{domain.AssistantApology}, fragments)

	// The session stays usable for the next turn.
	reply, err = session.Send(context.Background(), "still there?", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.AssistantApology, reply)
}

func TestSession_SeedsLinkListOnce(t *testing.T) {
	var systemPrompts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SystemInstruction struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"systemInstruction"`
		}
		require.NoError(t, decodeBody(r, &req))
		systemPrompts = append(systemPrompts, req.SystemInstruction.Parts[0].Text)
		w.Write([]byte(sseChunk("ok")))
	}))
	defer server.Close()

	client := gemini.NewClient(server.URL, "test-model", "test-key", zerolog.Nop())
	session := client.NewSession([]domain.Link{{ShortCode: "aaa", OriginalURL: "https://a.com", Category: "Tech"}})

	_, err := session.Send(context.Background(), "first", nil)
	require.NoError(t, err)
	_, err = session.Send(context.Background(), "second", nil)
	require.NoError(t, err)

	require.Len(t, systemPrompts, 2)
	for _, prompt := range systemPrompts {
		assert.Contains(t, prompt, "aaa -> https://a.com")
	}
	assert.Equal(t, systemPrompts[0], systemPrompts[1], "context built once at session start")
	assert.True(t, strings.Contains(systemPrompts[0], "Tech"))
}
