package repository

import (
	"context"

	"shortlinks/internal/domain"
)

// LinkRepository defines the interface for link data access
// Abstracting storage behind an interface keeps the service layer
// testable with mocks and independent of the database driver
type LinkRepository interface {
	// Create inserts a new link with clicks=0 and a nil last-clicked timestamp.
	// The store's unique constraint on code is the authoritative uniqueness
	// guard: a duplicate code returns domain.ErrCodeConflict even when the
	// caller pre-checked existence.
	Create(ctx context.Context, code, url string) (*domain.Link, error)

	// GetByCode retrieves a link by its short code.
	// Returns domain.ErrNotFound when no link matches.
	GetByCode(ctx context.Context, code string) (*domain.Link, error)

	// List returns all links ordered by creation time, newest first.
	List(ctx context.Context) ([]*domain.Link, error)

	// Delete permanently removes the link for code.
	// Returns domain.ErrNotFound when nothing was removed.
	Delete(ctx context.Context, code string) error

	// IncrementClicks atomically increments the click counter and stamps
	// last_clicked_at in a single database operation, so concurrent clicks
	// never lose updates. Returns domain.ErrNotFound when no link matches.
	IncrementClicks(ctx context.Context, code string) error

	// Exists checks whether a code is already taken.
	// Used as an optimistic pre-check before Create.
	Exists(ctx context.Context, code string) (bool, error)
}
