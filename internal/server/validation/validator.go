// Package validation checks decoded request payloads before they reach the
// service layer.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/go-playground/validator/v10"
)

// Mode selects which fields ValidateUser requires.
type Mode int

const (
	// ModeCreate requires name, email and password.
	ModeCreate Mode = iota
	// ModeUpdate requires name and email; password is ignored.
	ModeUpdate
)

// UserPayload is the typed body of create and update requests.
type UserPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,looseemail"`
	Password string `json:"password" validate:"required"`
}

// LoginPayload is the typed body of a login request.
type LoginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Error carries a client-facing reason. It matches common.ErrorValidation
// under errors.Is.
type Error struct {
	Reason string
}

func NewError(reason string) *Error { return &Error{Reason: reason} }

func (e *Error) Error() string { return e.Reason }

func (e *Error) Is(target error) bool { return target == common.ErrorValidation }

// emailShape is deliberately loose: something, one "@", a domain with a dot.
var emailShape = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return v
}

// ValidateUser checks p for the given mode. Missing fields are reported
// before a malformed email, in the order name, email, password.
func ValidateUser(p UserPayload, mode Mode) error {
	var err error
	switch mode {
	case ModeUpdate:
		err = validate.StructExcept(p, "Password")
	default:
		err = validate.Struct(p)
	}
	return translate(err)
}

// ValidateLogin requires both email and password. The email shape is not
// checked; an unknown address simply fails authentication.
func ValidateLogin(p LoginPayload) error {
	if err := validate.Struct(p); err != nil {
		return NewError("Email and password required")
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewError(err.Error())
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return NewError("Missing required field: " + fe.Field())
		}
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "looseemail" {
			return NewError("Invalid email format")
		}
	}
	return NewError("Invalid field: " + fieldErrs[0].Field())
}
