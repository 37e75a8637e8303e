package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dmruiz/floresta-backend/internal/media"
	"github.com/dmruiz/floresta-backend/pkg/enums"
	pkgerrors "github.com/dmruiz/floresta-backend/pkg/errors"
)

// Service exposes product catalog operations. It owns the product lifecycle
// and delegates image handling to the media service, so a deleted product
// takes its attached media (records and files) with it.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListProductsWithPreview(ctx context.Context) ([]ProductWithPreview, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	mediaSvc media.Service
}

// NewService constructs a product service instance.
func NewService(repo Repository, mediaSvc media.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if mediaSvc == nil {
		return nil, fmt.Errorf("media service required")
	}
	return &service{repo: repo, mediaSvc: mediaSvc}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	if errs := validateCreateProductInput(input); errs.HasErrors() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product validation failed").WithDetails(errs)
	}
	created, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist product record")
	}
	return created, nil
}

func (s *service) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product record")
	}
	return found, nil
}

func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product records")
	}
	return items, nil
}

// ListProductsWithPreview lists every product decorated with the URL of its
// first image. Products without media get a nil preview.
func (s *service) ListProductsWithPreview(ctx context.Context) ([]ProductWithPreview, error) {
	items, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ProductWithPreview, 0, len(items))
	for _, item := range items {
		attached, err := s.mediaSvc.ListMediaByMediable(ctx, enums.MediableTypeProducts, item.ID.String())
		if err != nil {
			return nil, err
		}
		entry := ProductWithPreview{Product: item}
		if len(attached) > 0 {
			url := attached[0].URL
			entry.PreviewURL = &url
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*Product, error) {
	if errs := validateUpdateProductInput(input); errs.HasErrors() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product validation failed").WithDetails(errs)
	}
	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product record")
	}
	return updated, nil
}

// DeleteProduct removes the product's attached media first, then the product
// record. Media deletions are attempted for every attachment even when some
// fail, so one bad file does not strand the rest.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProductByID(ctx, id); err != nil {
		return err
	}

	attached, err := s.mediaSvc.ListMediaByMediable(ctx, enums.MediableTypeProducts, id.String())
	if err != nil {
		return err
	}

	var cascadeErr error
	for _, item := range attached {
		if err := s.mediaSvc.DeleteMedia(ctx, item.ID); err != nil {
			cascadeErr = multierr.Append(cascadeErr, err)
		}
	}
	if cascadeErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, cascadeErr, "delete attached media")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product record")
	}
	return nil
}
