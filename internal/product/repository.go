package product

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by the repository when no product matches the
// given identifier.
var ErrNotFound = errors.New("product not found")

// Repository persists product records.
type Repository interface {
	Create(ctx context.Context, input CreateProductInput) (*Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
