package media

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmruiz/floresta-backend/pkg/enums"
	"github.com/dmruiz/floresta-backend/pkg/storage"
)

// Media is a stored asset attached to a mediable owner. Order is zero-based
// and dense within one (mediable_type, mediable_id) pair; it carries no
// meaning across owners.
type Media struct {
	ID           uuid.UUID          `json:"id"`
	MediableType enums.MediableType `json:"mediable_type"`
	MediableID   string             `json:"mediable_id"`
	Kind         enums.MediaKind    `json:"kind"`
	URL          string             `json:"url"`
	Filename     string             `json:"filename"`
	Order        int                `json:"order"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// CreateMediaInput holds the caller-provided fields for a new media record.
// ID, order and timestamps are assigned by the store.
type CreateMediaInput struct {
	MediableType enums.MediableType
	MediableID   string
	Kind         enums.MediaKind
	URL          string
	Filename     string
}

// UpdateMediaInput holds optional mutation values. Order is deliberately
// absent: it only changes through Reorder.
type UpdateMediaInput struct {
	MediableType *enums.MediableType
	MediableID   *string
	Kind         *enums.MediaKind
	URL          *string
	Filename     *string
}

// ReorderMediaInput names the owner pair and the target position. Order is a
// pointer so a missing value can be told apart from zero.
type ReorderMediaInput struct {
	MediableType enums.MediableType
	MediableID   string
	Order        *int
}

// UploadInput carries one upload batch for a single owner. The transport
// layer filters zero-byte files before this input is built.
type UploadInput struct {
	MediableType enums.MediableType
	MediableID   string
	Files        []storage.UploadFile
}
