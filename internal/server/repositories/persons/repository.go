package persons

import (
	"context"

	"github.com/themisai/themis/internal/server/models"
)

// Repository persists accounts together with their optional address.
type Repository interface {
	// Create stores p and its address. A taken email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, p *models.Person) (*models.Person, error)
	// GetByEmail looks up an account by its lowercased email.
	GetByEmail(ctx context.Context, email string) (*models.Person, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
