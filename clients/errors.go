package clients

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies why a shipping estimate could not be obtained.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"
	KindHTTPStatus ErrorKind = "http_status"
	KindDecode     ErrorKind = "decode"
	KindRejected   ErrorKind = "rejected"
	KindInvalid    ErrorKind = "invalid"
)

// ShippingError is returned by ShippingClient for every failure.
type ShippingError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ShippingError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("shipping estimate %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("shipping estimate %s: %s", e.Kind, e.Message)
}

func (e *ShippingError) Unwrap() error {
	return e.Err
}

// UserMessage returns text suitable for the checkout page. Server-provided
// messages are surfaced for rejected and 4xx responses only.
func (e *ShippingError) UserMessage() string {
	switch {
	case e.Kind == KindRejected && e.Message != "":
		return e.Message
	case e.Kind == KindHTTPStatus && e.StatusCode >= 400 && e.StatusCode < 500 && e.Message != "":
		return e.Message
	case e.Kind == KindHTTPStatus && e.StatusCode == http.StatusTooManyRequests:
		return "Too many shipping requests. Please wait a moment."
	case e.Kind == KindNetwork:
		return "Couldn't reach the shipping service. Check your connection and try again."
	}
	return "We couldn't estimate shipping right now. Please try again."
}
