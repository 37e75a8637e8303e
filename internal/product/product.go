package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmruiz/floresta-backend/pkg/enums"
)

// Product is a catalog entry. Its images live in the media subsystem, keyed
// by the ("products", ID) owner pair.
type Product struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Price         decimal.Decimal       `json:"price"`
	StockQuantity int                   `json:"stock_quantity"`
	Description   string                `json:"description"`
	Category      enums.ProductCategory `json:"category"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ProductWithPreview decorates a product with the URL of its first image, if
// it has any.
type ProductWithPreview struct {
	Product
	PreviewURL *string `json:"preview_url"`
}

// CreateProductInput holds the payload to create a product.
type CreateProductInput struct {
	Name          string                `json:"name"`
	Price         decimal.Decimal       `json:"price"`
	StockQuantity int                   `json:"stock_quantity"`
	Description   string                `json:"description"`
	Category      enums.ProductCategory `json:"category"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string                `json:"name"`
	Price         *decimal.Decimal       `json:"price"`
	StockQuantity *int                   `json:"stock_quantity"`
	Description   *string                `json:"description"`
	Category      *enums.ProductCategory `json:"category"`
}
