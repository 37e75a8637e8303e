package enums

import "fmt"

// ProductCategory classifies catalog products.
type ProductCategory string

const (
	ProductCategoryRoses  ProductCategory = "roses"
	ProductCategoryTulips ProductCategory = "tulips"
	ProductCategoryLilies ProductCategory = "lilies"
	ProductCategoryMixed  ProductCategory = "mixed"
)

var validProductCategories = []ProductCategory{
	ProductCategoryRoses,
	ProductCategoryTulips,
	ProductCategoryLilies,
	ProductCategoryMixed,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCategory.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts the raw string to ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
