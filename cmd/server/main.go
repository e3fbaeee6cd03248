package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/linkyapp/linky/pkg/adapters/gemini"
	"github.com/linkyapp/linky/pkg/adapters/handler"
	"github.com/linkyapp/linky/pkg/adapters/repository"
	"github.com/linkyapp/linky/pkg/adapters/repository/localstore"
	"github.com/linkyapp/linky/pkg/config"
	"github.com/linkyapp/linky/pkg/core/services"
)

func main() {
	cfg := config.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.AppEnv == "local" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	repo, err := repository.NewLinkRepository(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open link store")
	}

	users, err := localstore.NewUserStore(cfg.StorePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open user store")
	}

	ai := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, log)
	service := services.NewLinkService(repo, ai, log)
	auth := services.NewAuthService(users, log)

	mux := handler.NewRouter(cfg, service, auth, ai, log)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
		// Long enough for a streamed chat reply.
		WriteTimeout: 60 * time.Second,
	}

	log.Info().Str("port", cfg.Port).Str("base_url", cfg.BaseURL).Msg("server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
