package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"flipsip/internal/models"

	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateOrderFields checks the required set and value formats of f. The
// returned error is a *ValidationError when f is rejected.
func validateOrderFields(v *validator.Validate, f models.OrderFields) error {
	err := v.Struct(f)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate order fields: %w", err)
	}

	verr := &ValidationError{}
	for _, e := range validationErrors {
		if e.Tag() == "required" {
			verr.Missing = append(verr.Missing, e.Field())
			continue
		}
		if verr.Invalid == nil {
			verr.Invalid = make(map[string]string)
		}
		verr.Invalid[e.Field()] = fmt.Sprintf("failed on the '%s' tag", e.Tag())
	}
	return verr
}
