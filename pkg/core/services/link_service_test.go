package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rs/zerolog"

	"github.com/linkyapp/linky/pkg/core/domain"
	"github.com/linkyapp/linky/pkg/core/services"
	"github.com/linkyapp/linky/pkg/ports"
)

var codePattern = regexp.MustCompile(`^[a-z0-9]{6}$`)

// fakeRepo is an in-memory ports.LinkRepository.
type fakeRepo struct {
	links []domain.Link
}

func (r *fakeRepo) Load(ctx context.Context) ([]domain.Link, error) {
	out := make([]domain.Link, len(r.links))
	copy(out, r.links)
	return out, nil
}

func (r *fakeRepo) Save(ctx context.Context, links []domain.Link) error {
	r.links = append([]domain.Link(nil), links...)
	return nil
}

func (r *fakeRepo) Append(ctx context.Context, link domain.Link) error {
	r.links = append([]domain.Link{link}, r.links...)
	return nil
}

func (r *fakeRepo) Remove(ctx context.Context, id string) error {
	kept := r.links[:0]
	for _, l := range r.links {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	r.links = kept
	return nil
}

func (r *fakeRepo) UpdateClicks(ctx context.Context, shortCode string) error {
	for i := range r.links {
		if r.links[i].ShortCode == shortCode {
			r.links[i].Clicks++
			break
		}
	}
	return nil
}

func (r *fakeRepo) GetByShortCode(ctx context.Context, code string) (*domain.Link, error) {
	for _, l := range r.links {
		if l.ShortCode == code {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

// fakeAnalyzer returns a canned analysis, or the fallback plus an error
// when failing is set.
type fakeAnalyzer struct {
	analysis domain.Analysis
	failing  bool
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, rawURL string) (domain.Analysis, error) {
	if a.failing {
		return domain.FallbackAnalysis(), errors.New("boom")
	}
	return a.analysis, nil
}

func newService(repo *fakeRepo, analyzer ports.Analyzer) *services.LinkService {
	return services.NewLinkService(repo, analyzer, zerolog.Nop())
}

func TestShorten_NormalizesScheme(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain gains https", "example.com", "https://example.com"},
		{"http kept unchanged", "http://example.com", "http://example.com"},
		{"https kept unchanged", "https://example.com/a?b=c", "https://example.com/a?b=c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(&fakeRepo{}, nil)
			link, err := svc.Shorten(context.Background(), tt.in, domain.ShortenOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, link.OriginalURL)
		})
	}
}

func TestShorten_RejectsURLWithoutDomainSeparator(t *testing.T) {
	svc := newService(&fakeRepo{}, nil)

	_, err := svc.Shorten(context.Background(), "localhost", domain.ShortenOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidURL)

	_, err = svc.Shorten(context.Background(), "   ", domain.ShortenOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidURL)
}

func TestShorten_DefaultsWithoutClassification(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, nil)

	link, err := svc.Shorten(context.Background(), "example.com", domain.ShortenOptions{})
	require.NoError(t, err)

	assert.NotEmpty(t, link.ID)
	assert.Equal(t, "General", link.Category)
	assert.Equal(t, 100, link.SafetyScore)
	assert.Equal(t, int64(0), link.Clicks)
	assert.Empty(t, link.Alias)
	assert.Regexp(t, codePattern, link.ShortCode)
	assert.Len(t, repo.links, 1)
}

func TestShorten_ExplicitAliasWins(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: domain.Analysis{
		SafetyRating:     95,
		SuggestedAliases: []string{"sugg1"},
		Category:         "Tech",
	}}
	svc := newService(&fakeRepo{}, analyzer)

	link, err := svc.Shorten(context.Background(), "example.com", domain.ShortenOptions{
		Alias:     "ex1",
		AIEnabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ex1", link.ShortCode)
	assert.Equal(t, "ex1", link.Alias)
	assert.Equal(t, "Tech", link.Category)
	assert.Equal(t, 95, link.SafetyScore)
}

func TestShorten_ExplicitAliasCollisionRejected(t *testing.T) {
	repo := &fakeRepo{links: []domain.Link{{ID: "1", ShortCode: "ex1"}}}
	svc := newService(repo, nil)

	_, err := svc.Shorten(context.Background(), "example.com", domain.ShortenOptions{Alias: "ex1"})
	assert.ErrorIs(t, err, domain.ErrCodeTaken)
	assert.Len(t, repo.links, 1)
}

func TestShorten_UsesFirstFreeSuggestedAlias(t *testing.T) {
	repo := &fakeRepo{links: []domain.Link{{ID: "1", ShortCode: "taken"}}}
	analyzer := &fakeAnalyzer{analysis: domain.Analysis{
		SafetyRating:     90,
		SuggestedAliases: []string{"taken", "free1"},
		Category:         "News",
	}}
	svc := newService(repo, analyzer)

	link, err := svc.Shorten(context.Background(), "example.com", domain.ShortenOptions{AIEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, "free1", link.ShortCode)
	assert.Equal(t, "free1", link.Alias)
}

func TestShorten_ClassificationFailureYieldsRandomCode(t *testing.T) {
	svc := newService(&fakeRepo{}, &fakeAnalyzer{failing: true})

	link, err := svc.Shorten(context.Background(), "example.com", domain.ShortenOptions{AIEnabled: true})
	require.NoError(t, err)

	// Fallback category and rating apply, but the canned aliases are
	// not adopted as the short code.
	assert.Regexp(t, codePattern, link.ShortCode)
	assert.Equal(t, "General", link.Category)
	assert.Equal(t, 80, link.SafetyScore)
}

func TestResolve_IncrementsExactlyOne(t *testing.T) {
	repo := &fakeRepo{links: []domain.Link{
		{ID: "1", ShortCode: "aaa", OriginalURL: "https://a.com", Clicks: 0},
		{ID: "2", ShortCode: "bbb", OriginalURL: "https://b.com", Clicks: 7},
	}}
	svc := newService(repo, nil)

	link, err := svc.Resolve(context.Background(), "aaa")
	require.NoError(t, err)
	assert.Equal(t, "https://a.com", link.OriginalURL)
	assert.Equal(t, int64(1), link.Clicks)
	assert.Equal(t, int64(1), repo.links[0].Clicks)
	assert.Equal(t, int64(7), repo.links[1].Clicks, "other records stay unchanged")
}

func TestResolve_TwiceCountsTwice(t *testing.T) {
	repo := &fakeRepo{links: []domain.Link{{ID: "1", ShortCode: "aaa", OriginalURL: "https://a.com"}}}
	svc := newService(repo, nil)

	_, err := svc.Resolve(context.Background(), "aaa")
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), "aaa")
	require.NoError(t, err)

	assert.Equal(t, int64(2), repo.links[0].Clicks)
}

func TestResolve_UnknownCodeLeavesStoreUnchanged(t *testing.T) {
	repo := &fakeRepo{links: []domain.Link{{ID: "1", ShortCode: "aaa", Clicks: 3}}}
	svc := newService(repo, nil)

	_, err := svc.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	assert.Equal(t, int64(3), repo.links[0].Clicks)
}

func TestDelete_RemovesOnlyThatRecord(t *testing.T) {
	repo := &fakeRepo{links: []domain.Link{
		{ID: "1", ShortCode: "aaa"},
		{ID: "2", ShortCode: "bbb"},
		{ID: "3", ShortCode: "ccc"},
	}}
	svc := newService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), "2"))

	require.Len(t, repo.links, 2)
	assert.Equal(t, "1", repo.links[0].ID)
	assert.Equal(t, "3", repo.links[1].ID, "relative order preserved")
}

func TestEndToEnd_AliasNoAI(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, nil)

	link, err := svc.Shorten(context.Background(), "example.com", domain.ShortenOptions{Alias: "ex1"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", link.OriginalURL)
	assert.Equal(t, "ex1", link.ShortCode)
	assert.Equal(t, "General", link.Category)
	assert.Equal(t, 100, link.SafetyScore)
	assert.Equal(t, int64(0), link.Clicks)
}
