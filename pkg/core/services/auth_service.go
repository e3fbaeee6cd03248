package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linkyapp/linky/pkg/core/domain"
	"github.com/linkyapp/linky/pkg/ports"
)

const avatarEndpoint = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// AuthService is a stub authenticator: it fabricates a pro-plan user
// from whatever the form says, without verifying anything. A real
// backend replaces it behind ports.Authenticator.
type AuthService struct {
	users ports.UserStore
	log   zerolog.Logger
}

func NewAuthService(users ports.UserStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		log:   log.With().Str("component", "auth").Logger(),
	}
}

func (s *AuthService) Authenticate(ctx context.Context, form domain.AuthForm) (*domain.User, error) {
	email := strings.TrimSpace(form.Email)
	if email == "" {
		return nil, domain.ErrEmailRequired
	}

	name := strings.TrimSpace(form.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user := &domain.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Plan:   domain.PlanPro,
		Avatar: avatarEndpoint + url.QueryEscape(email),
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("email", email).Msg("session user created")
	return user, nil
}

// Current returns the persisted session user, or nil when signed out.
func (s *AuthService) Current(ctx context.Context) (*domain.User, error) {
	return s.users.Load(ctx)
}

// SignOut destroys the persisted session user.
func (s *AuthService) SignOut(ctx context.Context) error {
	return s.users.Clear(ctx)
}
