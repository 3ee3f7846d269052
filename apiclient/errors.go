package apiclient

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/social-dashboard/internal/errors"
)

// Error is returned for every failed request. StatusCode is zero when no
// response was received (network failure, cancellation, encoding error).
//
// Every Error matches errors.ErrFetchFailure; a 401 additionally matches
// errors.ErrUnauthorized.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: %d %s: %v", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *Error) Unwrap() []error {
	errs := []error{errors.ErrFetchFailure}
	if e.StatusCode == http.StatusUnauthorized {
		errs = append(errs, errors.ErrUnauthorized)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsNetwork reports whether the request failed before a response arrived.
func (e *Error) IsNetwork() bool {
	return e.StatusCode == 0
}
