// Package validation checks submitted form data and reports problems as a
// field → messages map instead of failing with an error value.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key for errors that do not belong to one field.
const NonFieldErrors = "__all__"

// Errors maps a form field name to its error messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Valid reports whether no errors were recorded.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Get returns the messages for field.
func (e Errors) Get(field string) []string {
	return e[field]
}

// First returns the first message for field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Has reports whether field has at least one message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form (or json) name so errors line up with inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates s against its `validate` tags.
func Struct(s interface{}) Errors {
	errs := Errors{}
	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonFieldErrors, err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "number":
		return "Enter a whole number."
	default:
		return "Invalid value."
	}
}

// EchoValidator adapts the package validator to echo.Validator for JSON
// request bodies.
type EchoValidator struct{}

// Validate implements echo.Validator interface.
func (EchoValidator) Validate(i interface{}) error {
	return validate.Struct(i)
}
