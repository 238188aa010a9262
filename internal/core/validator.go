// AngelaMos | 2026
// validator.go

package core

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator reports fields by their JSON name so error details match
// what the client sent.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Bind decodes a JSON body into dst and validates it. The returned error is
// already an *AppError ready for JSONError.
func Bind(r *http.Request, dst any, v *validator.Validate) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return BadRequestError("invalid request body")
	}

	if err := v.Struct(dst); err != nil {
		return ValidationError(FieldErrors(err))
	}

	return nil
}
