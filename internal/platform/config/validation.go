package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf keys so messages name the
// setting an operator has to change.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ","); name != "" {
			return name
		}

		return strings.ToLower(fld.Name)
	})

	return v
}

// Validate reports every invalid setting at once. The service refuses to start
// on error.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(settingKey(fe.Namespace()), fe.Tag(), fe.Param()))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(problems, "\n  "))
}

// settingKey strips the root type from a namespace such as "Config.sync.interval".
func settingKey(namespace string) string {
	if _, key, found := strings.Cut(namespace, "."); found {
		return key
	}

	return namespace
}

func describe(key, tag, param string) string {
	switch tag {
	case "required":
		return key + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, param)
	case "url":
		return key + " must be a valid URL"
	case "startswith":
		return fmt.Sprintf("%s must start with %q", key, param)
	default:
		return fmt.Sprintf("%s fails %s", key, tag)
	}
}
