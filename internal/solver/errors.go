package solver

import (
	"errors"
	"fmt"
)

// BackendHint is shown to users alongside any transport failure.
const BackendHint = "Please make sure the optimization backend is running."

// ErrRunInProgress is returned when a run is requested while another is outstanding.
var ErrRunInProgress = errors.New("an optimization run is already in progress")

// TransportError covers network failures and non-2xx responses from the backend.
type TransportError struct {
	// StatusCode is zero when no response was received.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
