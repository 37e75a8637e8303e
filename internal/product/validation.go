package product

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmruiz/floresta-backend/pkg/enums"
	pkgerrors "github.com/dmruiz/floresta-backend/pkg/errors"
)

var minPrice = decimal.NewFromFloat(0.01)

const (
	minNameLength        = 3
	minDescriptionLength = 10
	maxDescriptionLength = 200
)

func validateCreateProductInput(input CreateProductInput) pkgerrors.FieldErrors {
	errs := pkgerrors.FieldErrors{}

	validateName(errs, input.Name)
	validatePrice(errs, input.Price)
	validateStock(errs, input.StockQuantity)
	validateDescription(errs, input.Description)
	validateCategory(errs, input.Category)

	return errs
}

// validateUpdateProductInput applies the create rules to the partial payload:
// every field has to be present and valid even when it is not being changed.
// Callers resend the full field set on update.
func validateUpdateProductInput(input UpdateProductInput) pkgerrors.FieldErrors {
	errs := pkgerrors.FieldErrors{}

	if input.Name == nil {
		errs["name"] = "name must be at least 3 characters long"
	} else {
		validateName(errs, *input.Name)
	}
	if input.Price == nil {
		errs["price"] = "price must be at least 0.01"
	} else {
		validatePrice(errs, *input.Price)
	}
	if input.StockQuantity == nil {
		errs["stock_quantity"] = "stock_quantity is required"
	} else {
		validateStock(errs, *input.StockQuantity)
	}
	if input.Description == nil {
		errs["description"] = "description must be between 10 and 200 characters long"
	} else {
		validateDescription(errs, *input.Description)
	}
	if input.Category == nil {
		errs["category"] = "category is required and must be a known product category"
	} else {
		validateCategory(errs, *input.Category)
	}

	return errs
}

func validateName(errs pkgerrors.FieldErrors, name string) {
	if len(strings.TrimSpace(name)) < minNameLength {
		errs["name"] = "name must be at least 3 characters long"
	}
}

func validatePrice(errs pkgerrors.FieldErrors, price decimal.Decimal) {
	if price.LessThan(minPrice) {
		errs["price"] = "price must be at least 0.01"
	}
}

func validateStock(errs pkgerrors.FieldErrors, stock int) {
	if stock < 0 {
		errs["stock_quantity"] = "stock_quantity cannot be negative"
	}
}

func validateDescription(errs pkgerrors.FieldErrors, description string) {
	length := len(strings.TrimSpace(description))
	if length < minDescriptionLength || length > maxDescriptionLength {
		errs["description"] = "description must be between 10 and 200 characters long"
	}
}

func validateCategory(errs pkgerrors.FieldErrors, category enums.ProductCategory) {
	if !category.IsValid() {
		errs["category"] = "category is required and must be a known product category"
	}
}
