package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/dmruiz/floresta-backend/pkg/errors"
)

// RequireQuery returns the trimmed value of a query parameter, or a
// validation error when it is absent or blank.
func RequireQuery(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "missing query parameter").
			WithDetails(pkgerrors.FieldErrors{key: "is required"})
	}
	return raw, nil
}
