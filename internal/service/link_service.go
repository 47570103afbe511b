package service

import (
	"context"
	"fmt"
	"log/slog"

	"shortlinks/internal/domain"
	"shortlinks/internal/metrics"
	"shortlinks/internal/repository"
	"shortlinks/internal/shortcode"
	"shortlinks/pkg/validator"
)

// Cache interface for link caching on the redirect path
// Using an interface allows for easy testing and swapping implementations
type Cache interface {
	// GetLink returns (nil, nil) on a cache miss
	GetLink(ctx context.Context, code string) (*domain.Link, error)
	SetLink(ctx context.Context, code string, link *domain.Link) error
	DeleteLink(ctx context.Context, code string) error
}

// LinkService handles business logic for link operations
// It sits between the HTTP handlers and the repository, enforcing
// validation order, uniqueness rules, and error classification
type LinkService struct {
	repo   repository.LinkRepository
	cache  Cache
	codes  *shortcode.Generator
	logger *slog.Logger
}

// NewLinkService creates a new link service
func NewLinkService(repo repository.LinkRepository, cache Cache, codes *shortcode.Generator, logger *slog.Logger) *LinkService {
	return &LinkService{
		repo:   repo,
		cache:  cache,
		codes:  codes,
		logger: logger,
	}
}

// Create creates a new shortened link
// Validation order is part of the contract: URL format first, then code
// format, then uniqueness. customCode may be empty, in which case a code
// is generated.
func (s *LinkService) Create(ctx context.Context, rawURL, customCode string) (*domain.Link, error) {
	if err := validator.ValidateURL(rawURL); err != nil {
		return nil, domain.ErrInvalidURL
	}

	code := customCode
	if code == "" {
		code = s.codes.Generate()
	} else if !shortcode.Valid(code) {
		return nil, domain.ErrInvalidCode
	}

	// Optimistic pre-check. The unique constraint in the store is the
	// authoritative guard; Create below still returns ErrCodeConflict if a
	// concurrent request claims the same code between check and insert.
	exists, err := s.repo.Exists(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check code existence: %w", err)
	}
	if exists {
		return nil, domain.ErrCodeConflict
	}

	link, err := s.repo.Create(ctx, code, rawURL)
	if err != nil {
		return nil, err
	}

	metrics.RecordLinkCreated()

	// Warm the redirect cache. Not critical - a failure here only means the
	// first redirect hits the database.
	if err := s.cache.SetLink(ctx, code, link); err != nil {
		s.logger.Warn("failed to cache link", "code", code, "error", err)
	}

	return link, nil
}

// Get retrieves a link by code
// Reads go straight to the store so click counts are always current
func (s *LinkService) Get(ctx context.Context, code string) (*domain.Link, error) {
	return s.repo.GetByCode(ctx, code)
}

// List returns all links, most recent first
func (s *LinkService) List(ctx context.Context) ([]*domain.Link, error) {
	return s.repo.List(ctx)
}

// Delete permanently removes a link
func (s *LinkService) Delete(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}

	metrics.RecordLinkDeleted()

	// Evict the redirect cache so the code stops resolving immediately
	if err := s.cache.DeleteLink(ctx, code); err != nil {
		s.logger.Warn("failed to evict cached link", "code", code, "error", err)
	}

	return nil
}

// RecordClick increments the click counter for a link
func (s *LinkService) RecordClick(ctx context.Context, code string) error {
	if err := s.repo.IncrementClicks(ctx, code); err != nil {
		return err
	}
	metrics.RecordClickRecorded()
	return nil
}

// Resolve looks up the target URL for a code and records the click
// Malformed codes are reported as not found so the public redirect path
// does not leak validation details. The increment is awaited: if it fails,
// the resolve fails rather than serving a redirect with a lost count.
func (s *LinkService) Resolve(ctx context.Context, code string) (string, error) {
	if !shortcode.Valid(code) {
		return "", domain.ErrNotFound
	}

	link, err := s.lookup(ctx, code)
	if err != nil {
		return "", err
	}

	if err := s.repo.IncrementClicks(ctx, code); err != nil {
		return "", err
	}
	metrics.RecordClickRecorded()
	metrics.RecordRedirect()

	return link.URL, nil
}

// lookup implements the cache-aside read used by the redirect path
func (s *LinkService) lookup(ctx context.Context, code string) (*domain.Link, error) {
	cached, err := s.cache.GetLink(ctx, code)
	if err != nil {
		// A broken cache must not take down redirects; fall through to the store
		s.logger.Warn("cache lookup failed", "code", code, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	link, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetLink(ctx, code, link); err != nil {
		s.logger.Warn("failed to cache link", "code", code, "error", err)
	}

	return link, nil
}
