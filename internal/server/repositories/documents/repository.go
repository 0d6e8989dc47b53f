package documents

import (
	"context"

	"github.com/themisai/themis/internal/server/models"
)

// Repository persists uploaded document metadata.
type Repository interface {
	Create(ctx context.Context, d *models.Document) (*models.Document, error)
	Get(ctx context.Context, id string) (*models.Document, error)
}
