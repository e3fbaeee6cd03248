package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/linkyapp/linky/pkg/config"
	"github.com/linkyapp/linky/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, service ports.LinkService, auth ports.Authenticator, assistant ports.Assistant, log zerolog.Logger) http.Handler {
	h := NewHTTPHandler(service, cfg.BaseURL)
	ah := NewAuthHandler(cfg, auth, log)
	ch := NewChatHandler(assistant, service)
	mw := NewMiddleware(cfg, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		_ = json.NewEncoder(w).Encode(&res)
	})

	// The app root doubles as the redirect entry point (?l=<code>).
	mux.HandleFunc("GET /{$}", h.Home)

	// Auth: the mock form flow plus the optional Google flow.
	mux.HandleFunc("POST /api/v1/auth/login", ah.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", ah.Logout)
	mux.HandleFunc("GET /api/v1/me", ah.Me)
	mux.HandleFunc("GET /auth/google/login", ah.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", ah.GoogleCallback)

	// Links
	mux.HandleFunc("POST /api/v1/links", h.Create)
	mux.HandleFunc("GET /api/v1/links", h.List)
	mux.HandleFunc("DELETE /api/v1/links/{id}", h.Delete)

	// Assistant
	mux.HandleFunc("POST /api/v1/chat", ch.Chat)

	return mw.RequestLogger(mw.WithSession(mux))
}
