package media

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmruiz/floresta-backend/pkg/enums"
)

// MemoryRepository is a process-lifetime ordering store. A single lock
// linearizes every mutation, which covers the per-owner-pair single-writer
// requirement with room to spare.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []*Media
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository constructs an empty in-memory media store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create appends the record at the end of its owner pair's sequence:
// order = count of records already attached to that pair.
func (r *MemoryRepository) Create(ctx context.Context, input CreateMediaInput) (*Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	item := &Media{
		ID:           uuid.New(),
		MediableType: input.MediableType,
		MediableID:   input.MediableID,
		Kind:         input.Kind,
		URL:          input.URL,
		Filename:     input.Filename,
		Order:        r.countLocked(input.MediableType, input.MediableID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.items = append(r.items, item)

	out := *item
	return &out, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item := r.findLocked(id)
	if item == nil {
		return nil, ErrNotFound
	}
	out := *item
	return &out, nil
}

func (r *MemoryRepository) FindAll(ctx context.Context) ([]Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Media, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	sortByOrder(out)
	return out, nil
}

func (r *MemoryRepository) FindAllByMediable(ctx context.Context, mediableType enums.MediableType, mediableID string) ([]Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Media
	for _, item := range r.items {
		if item.MediableType == mediableType && item.MediableID == mediableID {
			out = append(out, *item)
		}
	}
	sortByOrder(out)
	return out, nil
}

func (r *MemoryRepository) CountByMediable(ctx context.Context, mediableType enums.MediableType, mediableID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.countLocked(mediableType, mediableID), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id uuid.UUID, input UpdateMediaInput) (*Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.findLocked(id)
	if item == nil {
		return nil, ErrNotFound
	}

	if input.MediableType != nil {
		item.MediableType = *input.MediableType
	}
	if input.MediableID != nil {
		item.MediableID = *input.MediableID
	}
	if input.Kind != nil {
		item.Kind = *input.Kind
	}
	if input.URL != nil {
		item.URL = *input.URL
	}
	if input.Filename != nil {
		item.Filename = *input.Filename
	}
	item.UpdatedAt = time.Now()

	out := *item
	return &out, nil
}

// Delete removes the record. Siblings keep their order values, so the owner
// pair's sequence may be left with a gap until the next Reorder.
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

// Reorder rebuilds the owner pair's sequence with the record moved to
// input.Order. Records of other owner pairs are never touched, so equal
// order values across owners cannot bleed into each other.
func (r *MemoryRepository) Reorder(ctx context.Context, id uuid.UUID, input ReorderMediaInput) error {
	if input.Order == nil {
		return ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var scoped []*Media
	for _, item := range r.items {
		if item.MediableType == input.MediableType && item.MediableID == input.MediableID {
			scoped = append(scoped, item)
		}
	}
	sort.SliceStable(scoped, func(i, j int) bool { return scoped[i].Order < scoped[j].Order })

	currentIndex := -1
	for i, item := range scoped {
		if item.ID == id {
			currentIndex = i
			break
		}
	}
	if currentIndex == -1 {
		return ErrNotFound
	}

	moved := scoped[currentIndex]
	scoped = append(scoped[:currentIndex], scoped[currentIndex+1:]...)

	target := *input.Order
	if target < 0 {
		target = 0
	}
	if target > len(scoped) {
		target = len(scoped)
	}
	scoped = append(scoped[:target], append([]*Media{moved}, scoped[target:]...)...)

	updatedAt := time.Now()
	for i, item := range scoped {
		item.Order = i
		item.UpdatedAt = updatedAt
	}
	return nil
}

func (r *MemoryRepository) findLocked(id uuid.UUID) *Media {
	for _, item := range r.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (r *MemoryRepository) countLocked(mediableType enums.MediableType, mediableID string) int {
	count := 0
	for _, item := range r.items {
		if item.MediableType == mediableType && item.MediableID == mediableID {
			count++
		}
	}
	return count
}

func sortByOrder(items []Media) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
}
