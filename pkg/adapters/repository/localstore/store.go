// Package localstore persists application state as named JSON blobs on
// disk, one file per blob, rewritten whole on every mutation.
package localstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/linkyapp/linky/pkg/core/domain"
)

const (
	linksFile = "linky_history.json"
	userFile  = "linky_user.json"
)

// Store implements ports.LinkRepository over a single JSON file holding
// the full ordered sequence, newest first. A corrupt or missing file is
// treated as an empty collection, logged and never surfaced.
type Store struct {
	path  string
	log   zerolog.Logger
	mu    sync.Mutex
	links []domain.Link
}

func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &Store{
		path: filepath.Join(dir, linksFile),
		log:  log.With().Str("component", "localstore").Logger(),
	}
	s.links = s.read()
	return s, nil
}

func (s *Store) read() []domain.Link {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("failed to read link store, starting empty")
		}
		return nil
	}

	var links []domain.Link
	if err := json.Unmarshal(data, &links); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("corrupt link store, starting empty")
		return nil
	}
	return links
}

func (s *Store) write() error {
	data, err := json.MarshalIndent(s.links, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) Load(ctx context.Context) ([]domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Link, len(s.links))
	copy(out, s.links)
	return out, nil
}

func (s *Store) Save(ctx context.Context, links []domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links = make([]domain.Link, len(links))
	copy(s.links, links)
	return s.write()
}

// Append prepends: the collection is ordered newest first.
func (s *Store) Append(ctx context.Context, link domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links = append([]domain.Link{link}, s.links...)
	return s.write()
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.links[:0]
	for _, l := range s.links {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.links = kept
	return s.write()
}

// UpdateClicks increments the matching record's counter by exactly one
// and persists. A code with no matching record leaves the store
// unchanged.
func (s *Store) UpdateClicks(ctx context.Context, shortCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.links {
		if s.links[i].ShortCode == shortCode {
			s.links[i].Clicks++
			return s.write()
		}
	}
	return nil
}

func (s *Store) GetByShortCode(ctx context.Context, code string) (*domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.links {
		if l.ShortCode == code {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}
