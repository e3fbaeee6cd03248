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

// UserStore holds the single optional session user in its own blob,
// independent of the link collection. Absent file means signed out.
type UserStore struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

func NewUserStore(dir string, log zerolog.Logger) (*UserStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &UserStore{
		path: filepath.Join(dir, userFile),
		log:  log.With().Str("component", "localstore").Logger(),
	}, nil
}

func (s *UserStore) Load(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("corrupt user record, treating as signed out")
		return nil, nil
	}
	return &user, nil
}

func (s *UserStore) Save(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *UserStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
