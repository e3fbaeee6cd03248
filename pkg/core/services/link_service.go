package services

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linkyapp/linky/pkg/core/domain"
	"github.com/linkyapp/linky/pkg/ports"
)

// maxCodeAttempts bounds regeneration when a random code collides.
const maxCodeAttempts = 5

type LinkService struct {
	repo     ports.LinkRepository
	analyzer ports.Analyzer
	log      zerolog.Logger
}

func NewLinkService(repo ports.LinkRepository, analyzer ports.Analyzer, log zerolog.Logger) *LinkService {
	return &LinkService{
		repo:     repo,
		analyzer: analyzer,
		log:      log.With().Str("component", "links").Logger(),
	}
}

// Shorten builds and stores a new link record. Classification runs only
// when opts.AIEnabled is set and never blocks creation: the analyzer
// degrades to fixed defaults internally.
func (s *LinkService) Shorten(ctx context.Context, rawURL string, opts domain.ShortenOptions) (*domain.Link, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || !strings.Contains(rawURL, ".") {
		return nil, domain.ErrInvalidURL
	}

	var analysis *domain.Analysis
	classified := false
	if opts.AIEnabled && s.analyzer != nil {
		a, aerr := s.analyzer.Analyze(ctx, rawURL)
		analysis = &a
		classified = aerr == nil
	}

	// A failed classification still contributes its fallback category
	// and rating, but its canned aliases are not adopted as the code.
	var suggested *domain.Analysis
	if classified {
		suggested = analysis
	}

	code, alias, err := s.resolveShortCode(ctx, opts.Alias, suggested)
	if err != nil {
		return nil, err
	}

	category := "General"
	safety := 100
	if analysis != nil {
		if analysis.Category != "" {
			category = analysis.Category
		}
		if analysis.SafetyRating > 0 {
			safety = analysis.SafetyRating
		}
	}

	link := domain.Link{
		ID:          uuid.NewString(),
		OriginalURL: NormalizeURL(rawURL),
		ShortCode:   code,
		Alias:       alias,
		CreatedAt:   time.Now(),
		Clicks:      0,
		Password:    opts.Password,
		ExpiryDate:  opts.ExpiryDate,
		Category:    category,
		SafetyScore: safety,
		Tags:        opts.Tags,
		BlockBots:   opts.BlockBots,
	}

	if err := s.repo.Append(ctx, link); err != nil {
		return nil, err
	}

	s.log.Info().Str("short_code", code).Str("category", category).Msg("link created")
	return &link, nil
}

// resolveShortCode picks the short code with priority: explicit alias,
// first free AI suggestion, random code. An explicit alias that is
// already taken is rejected; suggested and random codes fall through to
// the next candidate instead.
func (s *LinkService) resolveShortCode(ctx context.Context, alias string, analysis *domain.Analysis) (code, aliasOut string, err error) {
	if alias != "" {
		existing, err := s.repo.GetByShortCode(ctx, alias)
		if err != nil {
			return "", "", err
		}
		if existing != nil {
			return "", "", domain.ErrCodeTaken
		}
		return alias, alias, nil
	}

	if analysis != nil {
		for _, suggestion := range analysis.SuggestedAliases {
			suggestion = strings.TrimSpace(suggestion)
			if suggestion == "" {
				continue
			}
			existing, err := s.repo.GetByShortCode(ctx, suggestion)
			if err != nil {
				return "", "", err
			}
			if existing == nil {
				return suggestion, suggestion, nil
			}
		}
	}

	for range maxCodeAttempts {
		candidate, err := generateShortCode(6)
		if err != nil {
			return "", "", err
		}
		existing, err := s.repo.GetByShortCode(ctx, candidate)
		if err != nil {
			return "", "", err
		}
		if existing == nil {
			return candidate, "", nil
		}
	}
	return "", "", errors.New("could not generate a free short code")
}

// List returns the stored records, newest first.
func (s *LinkService) List(ctx context.Context) ([]domain.Link, error) {
	return s.repo.Load(ctx)
}

// Delete removes the record with the given id.
func (s *LinkService) Delete(ctx context.Context, id string) error {
	return s.repo.Remove(ctx, id)
}

// Resolve looks up a short code, counts the visit and returns the
// record. Each call increments the counter: reloading the same redirect
// URL counts again.
func (s *LinkService) Resolve(ctx context.Context, code string) (*domain.Link, error) {
	link, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domain.ErrLinkNotFound
	}

	if err := s.repo.UpdateClicks(ctx, code); err != nil {
		return nil, err
	}
	link.Clicks++

	s.log.Info().Str("short_code", code).Int64("clicks", link.Clicks).Msg("redirect resolved")
	return link, nil
}

// NormalizeURL prepends https:// when the URL carries no scheme.
// URLs that already have one are kept unchanged.
func NormalizeURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return "https://" + rawURL
}

const codeCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

func generateShortCode(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		b[i] = codeCharset[num.Int64()]
	}
	return string(b), nil
}
