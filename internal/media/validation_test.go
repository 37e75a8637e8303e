package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmruiz/floresta-backend/pkg/enums"
)

func TestValidateCreateMediaInput(t *testing.T) {
	errs := validateCreateMediaInput(CreateMediaInput{})
	require.True(t, errs.HasErrors())
	assert.Equal(t, "url is required", errs["url"])
	assert.Contains(t, errs["kind"], "known media kind")
	assert.Contains(t, errs["mediable_type"], "registered owner kind")
	assert.Equal(t, "mediable_id is required", errs["mediable_id"])

	errs = validateCreateMediaInput(CreateMediaInput{
		MediableType: enums.MediableTypeProducts,
		MediableID:   "p-1",
		Kind:         enums.MediaKindImage,
		URL:          "/uploads/products/p-1/a.png",
	})
	assert.False(t, errs.HasErrors())
}

func TestValidateCreateMediaInputRejectsBlankValues(t *testing.T) {
	errs := validateCreateMediaInput(CreateMediaInput{
		MediableType: enums.MediableTypeProducts,
		MediableID:   "   ",
		Kind:         enums.MediaKindImage,
		URL:          "  ",
	})
	assert.Equal(t, "url is required", errs["url"])
	assert.Equal(t, "mediable_id is required", errs["mediable_id"])
}

func TestValidateUpdateMediaInputRequiresEveryField(t *testing.T) {
	name := "a.png"
	errs := validateUpdateMediaInput(UpdateMediaInput{Filename: &name})
	require.True(t, errs.HasErrors())
	for _, field := range []string{"url", "kind", "mediable_type", "mediable_id"} {
		assert.Contains(t, errs, field)
	}

	mt := enums.MediableTypeProducts
	mid := "p-1"
	kind := enums.MediaKindImage
	url := "/uploads/products/p-1/a.png"
	errs = validateUpdateMediaInput(UpdateMediaInput{
		MediableType: &mt,
		MediableID:   &mid,
		Kind:         &kind,
		URL:          &url,
		Filename:     &name,
	})
	assert.False(t, errs.HasErrors())
}

func TestValidateReorderMediaInput(t *testing.T) {
	base := ReorderMediaInput{MediableType: enums.MediableTypeProducts, MediableID: "p-1"}

	errs := validateReorderMediaInput(base, 2)
	assert.Equal(t, "order is required and must be a number", errs["order"])

	neg := -1
	base.Order = &neg
	errs = validateReorderMediaInput(base, 2)
	assert.Equal(t, "order cannot be negative", errs["order"])

	high := 3
	base.Order = &high
	errs = validateReorderMediaInput(base, 2)
	assert.Equal(t, "order cannot be greater than 2", errs["order"])

	edge := 2
	base.Order = &edge
	errs = validateReorderMediaInput(base, 2)
	assert.False(t, errs.HasErrors())

	zero := 0
	base.Order = &zero
	errs = validateReorderMediaInput(base, 0)
	assert.False(t, errs.HasErrors())
}
