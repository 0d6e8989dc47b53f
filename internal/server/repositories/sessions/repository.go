package sessions

import (
	"context"

	"github.com/themisai/themis/internal/server/models"
)

// Repository persists chat sessions. Ownership checks are left to callers.
type Repository interface {
	Create(ctx context.Context, s *models.Session) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	// ListByPerson returns the person's sessions, most recently created first.
	// An empty status matches every session.
	ListByPerson(ctx context.Context, personID string, status models.SessionStatus, limit, offset int) ([]models.Session, error)
	// UpdateTitle sets the title and bumps updated_at.
	UpdateTitle(ctx context.Context, id, title string) (*models.Session, error)
	// Delete removes the session together with its messages and attachments.
	Delete(ctx context.Context, id string) error
}
