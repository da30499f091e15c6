package predict

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when the submitted text is not a number.
// Its text is shown to the user as is.
var ErrInvalidInput = errors.New("Please enter a valid number")

// FallbackMessage is shown when a failure carries no description.
const FallbackMessage = "An error occurred"

// RequestError describes a failed call to the prediction service.
// StatusCode is zero when no response was received.
type RequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	return ""
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}
