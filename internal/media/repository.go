package media

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dmruiz/floresta-backend/pkg/enums"
)

// ErrNotFound is returned by the repository when the referenced media record
// does not exist. The service maps it to a NOT_FOUND error.
var ErrNotFound = errors.New("media not found")

// Repository is the ordering store for media metadata. Implementations own
// the dense-order invariant: within one (mediable_type, mediable_id) pair the
// order values form {0..n-1} after Create and Reorder. Delete leaves gaps on
// purpose; order is consumed as a sort key, not an index.
//
// Mutations for one owner pair must be linearized. The in-memory
// implementation guards everything with a single lock; a concurrent backing
// store must provide at least per-owner-pair exclusion.
type Repository interface {
	// Create assigns a fresh id, order = current count for the owner pair,
	// and timestamps, then persists the record.
	Create(ctx context.Context, input CreateMediaInput) (*Media, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Media, error)
	// FindAll returns every record sorted ascending by order. Ties are kept
	// in insertion order.
	FindAll(ctx context.Context) ([]Media, error)
	FindAllByMediable(ctx context.Context, mediableType enums.MediableType, mediableID string) ([]Media, error)
	CountByMediable(ctx context.Context, mediableType enums.MediableType, mediableID string) (int, error)
	// Update merges the set fields over the record and bumps UpdatedAt.
	// Order is never touched here.
	Update(ctx context.Context, id uuid.UUID, input UpdateMediaInput) (*Media, error)
	// Delete removes the record without renumbering siblings.
	Delete(ctx context.Context, id uuid.UUID) error
	// Reorder moves the record to input.Order within its owner-scoped
	// sequence and reindexes that sequence 0..n-1, stamping every touched
	// record with one shared update time.
	Reorder(ctx context.Context, id uuid.UUID, input ReorderMediaInput) error
}
