package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmruiz/floresta-backend/api/responses"
	"github.com/dmruiz/floresta-backend/api/validators"
	productsvc "github.com/dmruiz/floresta-backend/internal/product"
	"github.com/dmruiz/floresta-backend/pkg/enums"
	pkgerrors "github.com/dmruiz/floresta-backend/pkg/errors"
	"github.com/dmruiz/floresta-backend/pkg/logger"
)

type createProductRequest struct {
	Name          string `json:"name" validate:"required"`
	Price         string `json:"price" validate:"required"`
	StockQuantity int    `json:"stock_quantity" validate:"min=0"`
	Description   string `json:"description" validate:"required"`
	Category      string `json:"category" validate:"required"`
}

func (r createProductRequest) toInput() (productsvc.CreateProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price").
			WithDetails(pkgerrors.FieldErrors{"price": "must be a decimal number"})
	}
	category, err := enums.ParseProductCategory(strings.TrimSpace(r.Category))
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
			WithDetails(pkgerrors.FieldErrors{"category": "must be a known product category"})
	}
	return productsvc.CreateProductInput{
		Name:          r.Name,
		Price:         price,
		StockQuantity: r.StockQuantity,
		Description:   r.Description,
		Category:      category,
	}, nil
}

type updateProductRequest struct {
	Name          *string `json:"name,omitempty"`
	Price         *string `json:"price,omitempty"`
	StockQuantity *int    `json:"stock_quantity,omitempty"`
	Description   *string `json:"description,omitempty"`
	Category      *string `json:"category,omitempty"`
}

func (r updateProductRequest) toInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Name:          r.Name,
		StockQuantity: r.StockQuantity,
		Description:   r.Description,
	}
	if r.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*r.Price))
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price").
				WithDetails(pkgerrors.FieldErrors{"price": "must be a decimal number"})
		}
		input.Price = &price
	}
	if r.Category != nil {
		category, err := enums.ParseProductCategory(strings.TrimSpace(*r.Category))
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
				WithDetails(pkgerrors.FieldErrors{"category": "must be a known product category"})
		}
		input.Category = &category
	}
	return input, nil
}

// CreateProduct handles product creation.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ListProducts handles catalog listing, each product carrying its first image
// URL as a preview.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		listed, err := svc.ListProductsWithPreview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listed)
	}
}

// GetProduct handles fetching a single product by id.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.GetProductByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, found)
	}
}

// UpdateProduct handles partial product mutation.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// DeleteProduct handles product removal, attached media included.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").
			WithDetails(pkgerrors.FieldErrors{"id": "must be a valid uuid"})
	}
	return id, nil
}
