// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"
)

// Every error returned by Service wraps exactly one of these kinds.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrState       = errors.New("state error")
	ErrConflict    = errors.New("conflict")
	ErrAuth        = errors.New("authentication required")
	ErrPermission  = errors.New("permission denied")
	ErrUnavailable = errors.New("store unavailable")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func statef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrState, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// storeErr marks a driver failure as transient for the caller
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}

// Kind returns the sentinel err wraps, or nil for foreign errors
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrState, ErrConflict, ErrAuth, ErrPermission, ErrUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
