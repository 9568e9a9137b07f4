package usecase

import (
	"errors"
	"fmt"
	"strings"

	"travel-marketplace/pkg/utils"
)

var (
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("not allowed to perform this action")
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidTransition    = errors.New("booking is no longer pending")
	ErrAlreadyApproved      = errors.New("package is already approved")
	ErrCapacityExceeded     = errors.New("travelers exceed the package capacity")
	ErrConflict             = errors.New("resource already exists")
	ErrStoreUnavailable     = errors.New("data store unavailable")
	ErrProfileMissing       = errors.New("profile missing for authenticated account")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrUploadFailed         = errors.New("upload failed")
)

// ValidationError carries a message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// validate runs struct tags and returns a *ValidationError when any fail.
func validate(v any) error {
	if errs := utils.ValidateStruct(v); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// storeErr keeps the cause for logs while classifying it as ErrStoreUnavailable.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, strings.TrimSpace(id), ErrNotFound)
}
