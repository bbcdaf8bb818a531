package driven

import (
	"context"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

// SessionStore persists completed comparison runs for later review.
type SessionStore interface {
	// Save stores or replaces a session.
	Save(ctx context.Context, session domain.Session) error

	// Get retrieves a session by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// List returns all sessions, newest first, without pair payloads.
	List(ctx context.Context) ([]domain.Session, error)

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error
}
