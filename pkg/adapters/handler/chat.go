package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/linkyapp/linky/pkg/ports"
)

// ChatHandler streams assistant replies. One session lives per server
// process (single-user app); it is seeded with the link list on first
// use and reseeded on request.
type ChatHandler struct {
	assistant ports.Assistant
	service   ports.LinkService

	mu      sync.Mutex
	session ports.AssistantSession
}

func NewChatHandler(assistant ports.Assistant, service ports.LinkService) *ChatHandler {
	return &ChatHandler{assistant: assistant, service: service}
}

type chatRequest struct {
	Message string `json:"message" validate:"required"`
	Reset   bool   `json:"reset,omitempty"`
}

// Chat answers one turn, writing reply fragments as they arrive.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "message is required")
		return
	}

	session, err := h.currentSession(r, req.Reset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	flusher, _ := w.(http.Flusher)
	_, _ = session.Send(r.Context(), req.Message, func(fragment string) {
		_, _ = w.Write([]byte(fragment))
		if flusher != nil {
			flusher.Flush()
		}
	})
}

func (h *ChatHandler) currentSession(r *http.Request, reset bool) (ports.AssistantSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil || reset {
		links, err := h.service.List(r.Context())
		if err != nil {
			return nil, err
		}
		h.session = h.assistant.NewSession(links)
	}
	return h.session, nil
}
