package messages

import (
	"context"

	"github.com/themisai/themis/internal/server/models"
)

// Repository persists messages and their document attachments.
type Repository interface {
	Create(ctx context.Context, m *models.Message) (*models.Message, error)
	// AddAttachment links a document to a message. Linking the same document
	// twice yields common.ErrorAlreadyExists.
	AddAttachment(ctx context.Context, a *models.Attachment) (*models.Attachment, error)
	// ListBySession returns messages oldest first, each with its attachments
	// and their documents.
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]models.Message, error)
}
