package media

import (
	"fmt"
	"strings"

	pkgerrors "github.com/dmruiz/floresta-backend/pkg/errors"
)

func validateCreateMediaInput(input CreateMediaInput) pkgerrors.FieldErrors {
	errs := pkgerrors.FieldErrors{}

	if strings.TrimSpace(input.URL) == "" {
		errs["url"] = "url is required"
	}
	if !input.Kind.IsValid() {
		errs["kind"] = "kind is required and must be a known media kind"
	}
	if !input.MediableType.IsValid() {
		errs["mediable_type"] = "mediable_type is required and must be a registered owner kind"
	}
	if strings.TrimSpace(input.MediableID) == "" {
		errs["mediable_id"] = "mediable_id is required"
	}

	return errs
}

// validateUpdateMediaInput applies the create rules to a partial payload:
// every required field has to be present and valid even when it is not being
// changed. Callers resend the full field set on update.
func validateUpdateMediaInput(input UpdateMediaInput) pkgerrors.FieldErrors {
	errs := pkgerrors.FieldErrors{}

	if input.URL == nil || strings.TrimSpace(*input.URL) == "" {
		errs["url"] = "url is required"
	}
	if input.Kind == nil || !input.Kind.IsValid() {
		errs["kind"] = "kind is required and must be a known media kind"
	}
	if input.MediableType == nil || !input.MediableType.IsValid() {
		errs["mediable_type"] = "mediable_type is required and must be a registered owner kind"
	}
	if input.MediableID == nil || strings.TrimSpace(*input.MediableID) == "" {
		errs["mediable_id"] = "mediable_id is required"
	}

	return errs
}

func validateReorderMediaInput(input ReorderMediaInput, maxOrder int) pkgerrors.FieldErrors {
	errs := pkgerrors.FieldErrors{}

	switch {
	case input.Order == nil:
		errs["order"] = "order is required and must be a number"
	case *input.Order < 0:
		errs["order"] = "order cannot be negative"
	case *input.Order > maxOrder:
		errs["order"] = fmt.Sprintf("order cannot be greater than %d", maxOrder)
	}

	return errs
}
