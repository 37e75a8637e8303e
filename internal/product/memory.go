package product

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a process-lifetime product store guarded by a single
// lock.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []*Product
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository constructs an empty in-memory product store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, input CreateProductInput) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	item := &Product{
		ID:            uuid.New(),
		Name:          input.Name,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Description:   input.Description,
		Category:      input.Category,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.items = append(r.items, item)

	out := *item
	return &out, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item := r.findLocked(id)
	if item == nil {
		return nil, ErrNotFound
	}
	out := *item
	return &out, nil
}

// FindAll returns every product, newest first.
func (r *MemoryRepository) FindAll(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.findLocked(id)
	if item == nil {
		return nil, ErrNotFound
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.StockQuantity != nil {
		item.StockQuantity = *input.StockQuantity
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	item.UpdatedAt = time.Now()

	out := *item
	return &out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepository) findLocked(id uuid.UUID) *Product {
	for _, item := range r.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}
