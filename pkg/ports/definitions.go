package ports

import (
	"context"

	"github.com/linkyapp/linky/pkg/core/domain"
)

// LinkRepository defines storage operations for the link collection.
// The collection is ordered newest first; every mutation persists the
// full sequence (there is no delta persistence).
type LinkRepository interface {
	Load(ctx context.Context) ([]domain.Link, error)
	Save(ctx context.Context, links []domain.Link) error
	Append(ctx context.Context, link domain.Link) error
	Remove(ctx context.Context, id string) error
	UpdateClicks(ctx context.Context, shortCode string) error
	GetByShortCode(ctx context.Context, code string) (*domain.Link, error)
}

// UserStore persists the single optional session user.
type UserStore interface {
	Load(ctx context.Context) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Clear(ctx context.Context) error
}

// Analyzer classifies a URL. On failure implementations return
// domain.FallbackAnalysis alongside the error, so callers always hold a
// usable value; the error only tells them the aliases are not real
// suggestions.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) (domain.Analysis, error)
}

// AssistantSession is one conversation, seeded with the link list at
// creation. Send streams the reply through onFragment and returns the
// full concatenated text.
type AssistantSession interface {
	Send(ctx context.Context, message string, onFragment func(string)) (string, error)
}

// Assistant opens conversations about a link collection.
type Assistant interface {
	NewSession(links []domain.Link) AssistantSession
}

// Authenticator turns a sign-in form into a session user. The default
// implementation fabricates the user without verification; a real
// backend can be substituted behind this interface.
type Authenticator interface {
	Authenticate(ctx context.Context, form domain.AuthForm) (*domain.User, error)
	Current(ctx context.Context) (*domain.User, error)
	SignOut(ctx context.Context) error
}

// LinkService defines the business logic operations
type LinkService interface {
	Shorten(ctx context.Context, rawURL string, opts domain.ShortenOptions) (*domain.Link, error)
	List(ctx context.Context) ([]domain.Link, error)
	Delete(ctx context.Context, id string) error
	Resolve(ctx context.Context, code string) (*domain.Link, error)
}
