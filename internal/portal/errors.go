package portal

import (
	"errors"
	"strings"
)

// Workflow errors. Each maps to a translated message via MessageKey.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyClaimed     = errors.New("item already claimed by this citizen")
	ErrInvalidState       = errors.New("invalid state for this action")
	ErrMatchExists        = errors.New("items already matched")
	ErrCategoryMismatch   = errors.New("items belong to different categories")
	ErrInactive           = errors.New("account inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInUse              = errors.New("still in use")
)

// ValidationError lists the message keys of every failed input check.
type ValidationError struct {
	Keys []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Keys, ", ")
}

// add records key once.
func (e *ValidationError) add(key string) {
	for _, k := range e.Keys {
		if k == key {
			return
		}
	}
	e.Keys = append(e.Keys, key)
}

// err returns e when any check failed and nil otherwise.
func (e *ValidationError) err() error {
	if len(e.Keys) == 0 {
		return nil
	}
	return e
}

func invalid(keys ...string) error {
	return &ValidationError{Keys: keys}
}

// MessageKey returns the translation key describing err to a user. Unknown
// errors map to a generic message.
func MessageKey(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve) && len(ve.Keys) > 0:
		return ve.Keys[0]
	case errors.Is(err, ErrNotFound):
		return "errors.not_found"
	case errors.Is(err, ErrForbidden):
		return "errors.forbidden"
	case errors.Is(err, ErrAlreadyClaimed):
		return "errors.already_claimed"
	case errors.Is(err, ErrInvalidState):
		return "errors.invalid_state"
	case errors.Is(err, ErrMatchExists):
		return "errors.match_exists"
	case errors.Is(err, ErrCategoryMismatch):
		return "errors.category_mismatch"
	case errors.Is(err, ErrInactive):
		return "errors.account_inactive"
	case errors.Is(err, ErrInvalidCredentials):
		return "errors.invalid_credentials"
	case errors.Is(err, ErrInUse):
		return "errors.in_use"
	}
	return "errors.generic"
}

// MessageKeys returns every translation key describing err: all failed checks
// of a validation error, or the single MessageKey otherwise.
func MessageKeys(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) && len(ve.Keys) > 0 {
		return append([]string(nil), ve.Keys...)
	}
	return []string{MessageKey(err)}
}
