// Package repository selects the link storage backend: the JSON blob
// store by default, SQLite/libsql when DATABASE_URL is set.
package repository

import (
	"github.com/rs/zerolog"

	"github.com/linkyapp/linky/pkg/adapters/repository/localstore"
	"github.com/linkyapp/linky/pkg/adapters/repository/sqlite"
	"github.com/linkyapp/linky/pkg/config"
	"github.com/linkyapp/linky/pkg/ports"
)

func NewLinkRepository(cfg *config.Config, log zerolog.Logger) (ports.LinkRepository, error) {
	if cfg.DatabaseURL != "" {
		return sqlite.NewRepository(cfg.DatabaseURL)
	}
	return localstore.NewStore(cfg.StorePath, log)
}
