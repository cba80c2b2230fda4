package port

import (
	"context"

	"github.com/google/uuid"

	"padron/internal/padron"
)

// SessionStore keeps in-flight import sessions between requests.
// Get returns domain.ErrSessionNotFound for unknown or expired sessions.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*padron.Session, error)
	Save(ctx context.Context, session *padron.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetProgress and GetProgress track a running commit without rewriting
	// the whole session on every record.
	SetProgress(ctx context.Context, id uuid.UUID, p padron.Progress) error
	GetProgress(ctx context.Context, id uuid.UUID) (padron.Progress, error)
}
