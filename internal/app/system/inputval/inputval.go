// Package inputval validates form input before anything is sent to the API.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so messages match the form inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Errors maps a form field to its first validation message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e[k])
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// Struct validates v using its `validate` tags. It returns nil or Errors.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := Errors{}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

// FieldErrors extracts Errors from err, or nil when err is something else.
func FieldErrors(err error) Errors {
	var fe Errors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

func message(e validator.FieldError) string {
	label := strings.ReplaceAll(e.Field(), "_", " ")
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func oneOf(s string, allowed []string) bool {
	return validate.Var(s, "required,oneof="+strings.Join(allowed, " ")) == nil
}

// IsValidUserStatus reports whether s is active, inactive, or banned.
func IsValidUserStatus(s string) bool {
	return oneOf(s, models.UserStatuses)
}

// IsValidStartupStatus reports whether s is pending, active, completed, or rejected.
func IsValidStartupStatus(s string) bool {
	return oneOf(s, models.StartupStatuses)
}

// IsValidAudience reports whether s is a broadcast recipient group.
func IsValidAudience(s string) bool {
	return oneOf(s, models.Audiences)
}

// IsValidEmail reports whether s is a plain email address.
func IsValidEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}
