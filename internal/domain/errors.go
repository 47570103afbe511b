package domain

import "errors"

// Domain errors - defining errors as package-level sentinels makes them
// testable and allows callers to classify failures with errors.Is
var (
	ErrInvalidURL   = errors.New("invalid URL")
	ErrInvalidCode  = errors.New("code must be 6-8 alphanumeric characters")
	ErrCodeConflict = errors.New("code already exists")
	ErrNotFound     = errors.New("link not found")
)

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err indicates a uniqueness conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrCodeConflict) }
