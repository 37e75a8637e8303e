package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmruiz/floresta-backend/pkg/enums"
	pkgerrors "github.com/dmruiz/floresta-backend/pkg/errors"
	"github.com/dmruiz/floresta-backend/pkg/storage"
)

// Service orchestrates media metadata and file storage. It is the only
// component that talks to both: the ordering store never sees files, the file
// storage never sees records.
type Service interface {
	CreateMedia(ctx context.Context, input CreateMediaInput) (*Media, error)
	GetMediaByID(ctx context.Context, id uuid.UUID) (*Media, error)
	ListMedia(ctx context.Context) ([]Media, error)
	ListMediaByMediable(ctx context.Context, mediableType enums.MediableType, mediableID string) ([]Media, error)
	UpdateMedia(ctx context.Context, id uuid.UUID, input UpdateMediaInput) (*Media, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
	ReorderMedia(ctx context.Context, id uuid.UUID, input ReorderMediaInput) error
	UploadForMediable(ctx context.Context, input UploadInput) ([]Media, error)
}

type service struct {
	repo    Repository
	storage storage.FileStorage
}

// NewService constructs a media service backed by the provided ordering store
// and file storage.
func NewService(repo Repository, fileStorage storage.FileStorage) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if fileStorage == nil {
		return nil, fmt.Errorf("file storage required")
	}
	return &service{repo: repo, storage: fileStorage}, nil
}

func (s *service) CreateMedia(ctx context.Context, input CreateMediaInput) (*Media, error) {
	if errs := validateCreateMediaInput(input); errs.HasErrors() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media validation failed").WithDetails(errs)
	}
	created, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media record")
	}
	return created, nil
}

func (s *service) GetMediaByID(ctx context.Context, id uuid.UUID) (*Media, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("media %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media record")
	}
	return found, nil
}

func (s *service) ListMedia(ctx context.Context) ([]Media, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media records")
	}
	return items, nil
}

func (s *service) ListMediaByMediable(ctx context.Context, mediableType enums.MediableType, mediableID string) ([]Media, error) {
	items, err := s.repo.FindAllByMediable(ctx, mediableType, mediableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media for mediable")
	}
	return items, nil
}

func (s *service) UpdateMedia(ctx context.Context, id uuid.UUID, input UpdateMediaInput) (*Media, error) {
	if errs := validateUpdateMediaInput(input); errs.HasErrors() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media validation failed").WithDetails(errs)
	}
	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("media %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update media record")
	}
	return updated, nil
}

// DeleteMedia removes the stored file first, then the record. When the file
// delete fails the record stays behind: a lingering record can be retried or
// cleaned up later, a file with no record cannot be found again without a
// full scan.
func (s *service) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	found, err := s.GetMediaByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, found.URL); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("media %s not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media record")
	}
	return nil
}

func (s *service) ReorderMedia(ctx context.Context, id uuid.UUID, input ReorderMediaInput) error {
	count, err := s.repo.CountByMediable(ctx, input.MediableType, input.MediableID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count media for mediable")
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("no media found for %s %s", input.MediableType, input.MediableID))
	}

	maxOrder := count - 1
	if errs := validateReorderMediaInput(input, maxOrder); errs.HasErrors() {
		return pkgerrors.New(pkgerrors.CodeValidation, "media validation failed").WithDetails(errs)
	}

	if err := s.repo.Reorder(ctx, id, input); err != nil {
		if errors.Is(err, ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("media %s not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reorder media records")
	}
	return nil
}

// UploadForMediable saves each file and creates its record one at a time, in
// input order. The loop must stay sequential: Create derives the new order
// value from the owner pair's current count, so concurrent creates would race
// on it and break upload ordering.
func (s *service) UploadForMediable(ctx context.Context, input UploadInput) ([]Media, error) {
	folder := fmt.Sprintf("%s/%s", input.MediableType, input.MediableID)

	for _, file := range input.Files {
		stored, err := s.storage.Save(ctx, file, folder)
		if err != nil {
			return nil, err
		}

		create := CreateMediaInput{
			MediableType: input.MediableType,
			MediableID:   input.MediableID,
			Kind:         inferMediaKind(stored.MimeType),
			URL:          stored.URL,
			Filename:     stored.Filename,
		}
		if _, err := s.CreateMedia(ctx, create); err != nil {
			return nil, err
		}
	}

	// Return the full re-fetched list so the caller sees final state,
	// pre-existing media included.
	return s.ListMediaByMediable(ctx, input.MediableType, input.MediableID)
}

// inferMediaKind maps a mime type onto a media kind. Anything that is not an
// image also maps to image for now; revisit when more kinds exist.
func inferMediaKind(mimeType string) enums.MediaKind {
	if strings.HasPrefix(mimeType, "image/") {
		return enums.MediaKindImage
	}
	return enums.MediaKindImage
}
