package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors returned by the services. Handlers map them to status codes with
// errors.Is.
var (
	ErrTodoNotFound       = errors.New("todo not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrEmailTaken         = errors.New("email already exist")
	ErrIncorrectPassword  = errors.New("incorrect old password")
	ErrPasswordMismatch   = errors.New("password mismatch")
	ErrBookNotFound       = errors.New("item not found")
	ErrForbidden          = errors.New("not authorized to access this url")
)

// ValidationError lists the request fields that failed validation, keyed
// by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate runs the struct's validate tags and converts failures into a
// *ValidationError.
func Validate(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		if fe.Kind() == reflect.String {
			return "should have at least " + fe.Param() + " characters"
		}
		return "should be greater than or equal to " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "should have at most " + fe.Param() + " characters"
		}
		return "should be less than or equal to " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	default:
		return "failed on the " + fe.Tag() + " rule"
	}
}
