package shortener

import (
	"context"
	"errors"
)

// DefaultMaxAttempts bounds the collision retry loop during code generation.
const DefaultMaxAttempts = 10

// Service creates short links, probing generated codes against the
// repository until a free one is found or the attempt budget runs out.
type Service struct {
	repo         Repository
	generateCode CodeGenerator
	maxAttempts  int
}

// NewService creates a new shortening service.
func NewService(repo Repository, generator CodeGenerator) *Service {
	return &Service{
		repo:         repo,
		generateCode: generator,
		maxAttempts:  DefaultMaxAttempts,
	}
}

// Shorten normalizes rawURL and persists it under a freshly generated
// unique code owned by owner. Returns ErrInvalidURL for unusable input and
// ErrGenerationExhausted when every attempt collided; no link is created
// in either case.
func (s *Service) Shorten(ctx context.Context, rawURL, owner string) (*Link, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	for i := 0; i < s.maxAttempts; i++ {
		code := Code(s.generateCode())

		exists, err := s.repo.Exists(ctx, code)
		if err != nil {
			return nil, err
		}

		if exists {
			continue
		}

		link, err := s.repo.Create(ctx, normalized, code, owner)
		if errors.Is(err, ErrCodeTaken) {
			// Lost the race between Exists and Create; draw again.
			continue
		}

		if err != nil {
			return nil, err
		}

		return link, nil
	}

	return nil, ErrGenerationExhausted
}
