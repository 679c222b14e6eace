package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrBinding wraps failures to decode a body or query string.
	ErrBinding = errors.New("binding failed")

	// ErrValidation wraps struct validation failures.
	ErrValidation = errors.New("validation failed")
)

// Validator returns the shared validator. Field errors are reported under
// their json or form names, and "notempty" rejects whitespace-only strings.
var Validator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(wireName)

	if err := v.RegisterValidation("notempty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}

	return v
})

// wireName is the name a field has on the wire: its json tag, else its form tag.
func wireName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return fld.Name
}

// Validate checks v against its validate tags.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	return bindAndValidate(c, binding.JSON, v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	return bindAndValidate(c, binding.Query, v)
}

func bindAndValidate(c *gin.Context, b binding.Binding, v any) error {
	if err := c.ShouldBindWith(v, b); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// IsValidationError reports whether err carries field-level validation failures.
func IsValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

// FieldErrors maps each failing field to a readable message.
func FieldErrors(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fieldMessage(fe.Tag(), fe.Param(), fe.Kind())
	}

	return out
}

func fieldMessage(tag, param string, kind reflect.Kind) string {
	unit := ""
	if kind == reflect.String {
		unit = " characters"
	}

	switch tag {
	case "required":
		return "is required"
	case "notempty":
		return "must not be empty"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s%s", param, unit)
	case "max", "lte":
		return fmt.Sprintf("must be at most %s%s", param, unit)
	case "oneof":
		return "must be one of: " + param
	default:
		return "failed the " + tag + " check"
	}
}
