package errors

import (
	"errors"
	"fmt"
)

// Common error types for the dashboard client core
var (
	// Session errors
	ErrAcquisitionFailure = errors.New("credential acquisition failed")
	ErrRefreshFailure     = errors.New("credential refresh failed")
	ErrUnauthenticated    = errors.New("no active session")
	ErrUnauthorized       = errors.New("unauthorized")

	// View errors
	ErrFetchFailure    = errors.New("fetch failed")
	ErrRedirectFailure = errors.New("platform connection failed")

	// Local errors
	ErrStorage       = errors.New("credential storage failure")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Wrapf wraps an error with context using fmt.Errorf. format may itself
// contain %w verbs, e.g. to attach a sentinel.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
