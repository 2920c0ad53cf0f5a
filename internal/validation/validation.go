// Package validation envuelve go-playground/validator con nombres de campo JSON.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// V devuelve la instancia compartida del validador.
func V() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("username", validUsername)
	})
	return validate
}

// FieldError describe un campo inválido con su nombre JSON.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) Message() string {
	switch e.Tag {
	case "required", "required_without", "required_with":
		return fmt.Sprintf("field '%s' is required", e.Field)
	case "email":
		return fmt.Sprintf("field '%s' must be a valid email address", e.Field)
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s characters long", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters long", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of [%s]", e.Field, e.Param)
	case "username":
		return fmt.Sprintf("field '%s' may only contain letters, digits and @.+-_", e.Field)
	default:
		return fmt.Sprintf("field '%s' failed on '%s'", e.Field, e.Tag)
	}
}

// Errors es la lista de campos inválidos de un Struct.
type Errors []FieldError

func (es Errors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Message())
	}
	return strings.Join(msgs, "; ")
}

// Missing indica si todos los errores son de campos requeridos ausentes.
func (es Errors) Missing() bool {
	if len(es) == 0 {
		return false
	}
	for _, e := range es {
		if !strings.HasPrefix(e.Tag, "required") {
			return false
		}
	}
	return true
}

// Struct valida s y devuelve Errors (o nil).
func Struct(s any) error {
	err := V().Struct(s)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("validation: %w", err)
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := make(Errors, 0, len(ves))
	for _, fe := range ves {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// Var valida un valor suelto contra tag.
func Var(v any, tag string) error {
	return V().Var(v, tag)
}

// validUsername acepta letras, dígitos y @.+-_.
func validUsername(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("@.+-_", r):
		default:
			return false
		}
	}
	return true
}
