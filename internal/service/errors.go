package service

import (
	"GluviaAdmin/internal/nutrition"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrForbidden          = errors.New("forbidden")

	ErrEmailTaken         = &ConflictError{Field: "email"}
	ErrCanonicalNameTaken = &ConflictError{Field: "canonicalName"}
)

// FieldError — ошибка конкретного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input fails field rules.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError — значение уникального поля уже занято.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string { return e.Field + " is already taken" }

// checker накапливает нарушения правил по полям.
type checker struct {
	v []nutrition.Violation
}

func (c *checker) add(field, msg string) {
	c.v = append(c.v, nutrition.Violation{Field: field, Message: msg})
}

func (c *checker) addAll(vs []nutrition.Violation) { c.v = append(c.v, vs...) }

func (c *checker) required(field, value string) {
	c.addAll(nutrition.CheckRequired([2]string{field, value}))
}

func (c *checker) oneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.add(field, "must be one of "+strings.Join(allowed, ", "))
}

func (c *checker) err() error {
	if len(c.v) == 0 {
		return nil
	}
	ve := &ValidationError{Details: make([]FieldError, 0, len(c.v))}
	for _, v := range c.v {
		ve.Details = append(ve.Details, FieldError{Field: v.Field, Message: v.Message})
	}
	return ve
}

// notFound переводит ошибку gorm в ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
