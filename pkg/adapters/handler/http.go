package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/linkyapp/linky/pkg/core/domain"
	"github.com/linkyapp/linky/pkg/ports"
)

var validate = validator.New()

type HTTPHandler struct {
	service ports.LinkService
	baseURL string
}

func NewHTTPHandler(service ports.LinkService, baseURL string) *HTTPHandler {
	return &HTTPHandler{service: service, baseURL: baseURL}
}

// CreateLinkRequest payload
type CreateLinkRequest struct {
	OriginalURL string   `json:"original_url" validate:"required,contains=."`
	Alias       string   `json:"alias,omitempty" validate:"omitempty,alphanum,max=32"`
	Password    string   `json:"password,omitempty"`
	ExpiryDate  string   `json:"expiry_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	BlockBots   bool     `json:"block_bots,omitempty"`
	AIEnabled   bool     `json:"ai_enabled,omitempty"`
}

// LinkResponse is a stored record plus the functional short URL.
type LinkResponse struct {
	domain.Link
	ShortURL string `json:"short_url"`
}

func (h *HTTPHandler) toResponse(link domain.Link) LinkResponse {
	return LinkResponse{
		Link:     link,
		ShortURL: fmt.Sprintf("%s/?l=%s", h.baseURL, link.ShortCode),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Create Link
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "a valid URL with a domain is required")
		return
	}

	link, err := h.service.Shorten(r.Context(), req.OriginalURL, domain.ShortenOptions{
		Alias:      req.Alias,
		Password:   req.Password,
		ExpiryDate: req.ExpiryDate,
		Tags:       req.Tags,
		BlockBots:  req.BlockBots,
		AIEnabled:  req.AIEnabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidURL):
			writeError(w, http.StatusUnprocessableEntity, "a valid URL with a domain is required")
		case errors.Is(err, domain.ErrCodeTaken):
			writeError(w, http.StatusConflict, "that alias is already taken")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, h.toResponse(*link))
}

// List Links (the history tab), newest first
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data := make([]LinkResponse, 0, len(links))
	for _, l := range links {
		data = append(data, h.toResponse(l))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  data,
		"total": len(data),
	})
}

// Delete Link
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id missing")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Home serves the app root. A pending redirect request arrives as the
// `l` query parameter on the app's own URL; anything else renders the
// normal UI shell.
func (h *HTTPHandler) Home(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("l")
	if code == "" {
		renderPage(w, http.StatusOK, "home", nil)
		return
	}

	link, err := h.service.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			renderPage(w, http.StatusNotFound, "notfound", map[string]string{"Code": code})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The countdown view: the refresh header performs the actual
	// navigation after the fixed 2 second delay.
	w.Header().Set("Refresh", fmt.Sprintf("%d;url=%s", redirectDelaySeconds, link.OriginalURL))
	renderPage(w, http.StatusOK, "redirect", map[string]string{"Destination": link.OriginalURL})
}
