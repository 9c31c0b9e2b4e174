package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
)

var validate = validator.New()

// ParseUUIDParam reads a chi URL parameter and requires it to be a UUID.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if err := validate.Var(raw, "required,uuid"); err != nil {
		return uuid.Nil, formatParamError(name, err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid path parameter").
			WithDetails(map[string]any{name: "must be a valid uuid"})
	}
	return id, nil
}

func formatParamError(name string, err error) *pkgerrors.Error {
	msg := "is invalid"
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		switch errs[0].Tag() {
		case "required":
			msg = "is required"
		case "uuid":
			msg = "must be a valid uuid"
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid path parameter").
		WithDetails(map[string]any{name: msg})
}
