package ports

import (
	"context"

	"github.com/aretw0/workplane/pkg/domain"
)

// SessionStore defines the interface for persisting per-document session state.
// The host keeps this state between commands.
type SessionStore interface {
	// Save persists the state for a given document ID.
	Save(ctx context.Context, documentID string, state *domain.SessionState) error

	// Load retrieves the state for a given document ID.
	// Returns domain.ErrSessionNotFound if the document has no state yet.
	Load(ctx context.Context, documentID string) (*domain.SessionState, error)

	// Delete removes the state for a given document ID.
	Delete(ctx context.Context, documentID string) error

	// List returns the document IDs with stored state.
	List(ctx context.Context) ([]string, error)
}
