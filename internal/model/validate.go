package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries a message that is safe to return to API clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
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

// validateStruct runs the struct tags of v. Any failed "required" rule is
// reported with missingMsg so clients keep seeing the familiar message;
// other rules produce a per-field message.
func validateStruct(v any, missingMsg string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return &ValidationError{Message: missingMsg}
		}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "oneof":
		return &ValidationError{Message: fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))}
	case "gt":
		return &ValidationError{Message: fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())}
	case "gte":
		return &ValidationError{Message: fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())}
	case "min":
		return &ValidationError{Message: fmt.Sprintf("%s must not be empty", fe.Field())}
	default:
		return &ValidationError{Message: fmt.Sprintf("%s is invalid", fe.Field())}
	}
}
