package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for domain errors. Handlers match on these with errors.Is
// and map them to HTTP responses; the services never see a transport.
var (
	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a write collides with an existing record.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when a record does not exist, or exists but is
	// not owned by the requesting user. The two cases are deliberately
	// indistinguishable so owner-scoped lookups never leak other users' rows.
	ErrNotFound = errors.New("not found")
)

// Validation wraps ErrValidation with a caller-facing message.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Conflict wraps ErrConflict with a caller-facing message.
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// NotFound wraps ErrNotFound with a caller-facing message.
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// Message strips the sentinel prefix so transports can show just the detail.
func Message(err error) string {
	for _, kind := range []error{ErrValidation, ErrConflict, ErrNotFound} {
		if errors.Is(err, kind) {
			return strings.TrimPrefix(err.Error(), kind.Error()+": ")
		}
	}
	return err.Error()
}
