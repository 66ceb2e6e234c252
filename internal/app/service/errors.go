package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionRevoked     = errors.New("session has been revoked")

	ErrValidation       = errors.New("validation failed")
	ErrDuplicateGiftBox = errors.New("gift box already requested")
	ErrGiftBoxNotFound  = errors.New("gift box not found")
	ErrAlreadyShipped   = errors.New("gift box already shipped")
	ErrNotMailDelivery  = errors.New("gift box is not a mail delivery")
	ErrSubmitFailed     = errors.New("gift box submission failed")
	ErrUpdateFailed     = errors.New("tracking number update failed")
)

// ValidationError reports user input problems; Fields maps field name to message.
// errors.Is(err, ErrValidation) holds for every *ValidationError.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + e.Message + " (" + strings.Join(names, ", ") + ")"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
