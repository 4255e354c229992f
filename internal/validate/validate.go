package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Rule    string `json:"rule"`
}

// Struct validates a tagged request struct and returns the list of
// field-level failures, or nil if the value is valid.
func Struct(s interface{}) []FieldError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: "invalid request body", Rule: "struct"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   snake(fe.Field()),
			Message: message(fe),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	field := snake(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address", field)
	case "min":
		return fmt.Sprintf("The %s field must have at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not exceed %s characters", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field and %s field must be the same", field, snake(fe.Param()))
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("The %s field must be a valid date (%s)", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid", field)
	}
}

// snake converts a Go field name to the snake_case key clients send.
func snake(goName string) string {
	var b strings.Builder
	for i, r := range goName {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
