package shortener

import (
	"context"
	"errors"
	"time"
)

// Code represents a short link code.
type Code string

// Link represents a shortened link entity. Code and OriginalURL are
// immutable after creation; Clicks is mutated only through
// Repository.IncrementClicks.
type Link struct {
	ID          int64
	OriginalURL string
	Code        Code
	CreatedAt   time.Time
	Clicks      int64
	OwnerEmail  string
}

var (
	// ErrNotFound is returned when a short code has no stored link.
	ErrNotFound = errors.New("link not found")

	// ErrCodeTaken is returned when a create collides with an existing code.
	ErrCodeTaken = errors.New("short code already taken")

	// ErrInvalidURL is returned when a submitted URL cannot be normalized
	// into a valid absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrGenerationExhausted is returned when the generator cannot produce
	// a free code within the attempt budget.
	ErrGenerationExhausted = errors.New("short code generation exhausted")
)

// Repository defines the interface for link storage operations.
// All implementations share identical error semantics.
type Repository interface {
	// Create persists a new link and assigns its ID and creation time.
	// Returns ErrCodeTaken if the code is already in use.
	Create(ctx context.Context, originalURL string, code Code, owner string) (*Link, error)

	// GetByCode returns the link for a code, or ErrNotFound.
	GetByCode(ctx context.Context, code Code) (*Link, error)

	// Exists reports whether a code is already in use.
	Exists(ctx context.Context, code Code) (bool, error)

	// ListByOwner returns up to limit links owned by owner, newest first.
	ListByOwner(ctx context.Context, owner string, limit int) ([]*Link, error)

	// IncrementClicks atomically increments the click counter for a code.
	// A code that no longer exists is a silent no-op.
	IncrementClicks(ctx context.Context, code Code) error

	// DeleteByOwner deletes the link only if it exists and belongs to owner.
	// Reports whether a link was deleted.
	DeleteByOwner(ctx context.Context, owner string, code Code) (bool, error)
}
