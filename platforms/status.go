package platforms

import (
	"fmt"
	"net/url"

	"github.com/jrsteele09/social-dashboard/internal/errors"
)

// Query parameters set by the redirect-back after the external OAuth
// handshake.
const (
	StatusParam  = "status"
	MessageParam = "message"

	statusSuccess = "success"
	statusError   = "error"
)

// DefaultErrorMessage is shown when the redirect reports an error without a
// message.
const DefaultErrorMessage = "Failed to connect Instagram"

type ConnectionState string

const (
	Neutral   ConnectionState = "neutral"
	Connected ConnectionState = "connected"
	Errored   ConnectionState = "error"
)

// ConnectionStatus is derived from the redirect query alone. It lives only as
// long as the view it was parsed for and is never persisted.
type ConnectionStatus struct {
	State   ConnectionState
	Message string
}

// ParseStatus derives the connection status from redirect query parameters.
// Unknown or absent status values are Neutral.
func ParseStatus(query url.Values) ConnectionStatus {
	switch query.Get(StatusParam) {
	case statusSuccess:
		return ConnectionStatus{State: Connected}
	case statusError:
		msg := query.Get(MessageParam)
		if msg == "" {
			msg = DefaultErrorMessage
		}
		return ConnectionStatus{State: Errored, Message: msg}
	default:
		return ConnectionStatus{State: Neutral}
	}
}

// Err returns an error matching errors.ErrRedirectFailure when the redirect
// reported a failure, and nil otherwise.
func (s ConnectionStatus) Err() error {
	if s.State != Errored {
		return nil
	}
	return fmt.Errorf("%w: %s", errors.ErrRedirectFailure, s.Message)
}

// Query returns the redirect query that ParseStatus maps back to s.
func (s ConnectionStatus) Query() url.Values {
	q := url.Values{}
	switch s.State {
	case Connected:
		q.Set(StatusParam, statusSuccess)
	case Errored:
		q.Set(StatusParam, statusError)
		if s.Message != "" {
			q.Set(MessageParam, s.Message)
		}
	}
	return q
}
