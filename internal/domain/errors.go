package domain

import (
	"errors"
	"fmt"
)

// FetchKind classifies why a fetch against a data source failed.
type FetchKind int

const (
	// KindNetwork means the request never produced a response.
	KindNetwork FetchKind = iota
	// KindHTTP means the response status was not 2xx.
	KindHTTP
	// KindParse means the response body was not valid JSON (or YAML).
	KindParse
)

func (k FetchKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindParse:
		return "parse"
	default:
		return fmt.Sprintf("FetchKind(%d)", int(k))
	}
}

// FetchError is returned by every data source adapter.
type FetchError struct {
	Kind   FetchKind
	Status int
	// Reason is a server supplied explanation, if any.
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	msg := e.Kind.String() + " error"
	if e.Kind == KindHTTP && e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchKind reports whether err wraps a FetchError of the given kind.
func IsFetchKind(err error, kind FetchKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

var (
	// ErrHoneypot marks a submission that filled the hidden field.
	ErrHoneypot = errors.New("honeypot field was filled")
	// ErrTooFast marks a submission sent before the minimum dwell time.
	ErrTooFast = errors.New("submitted too soon after the form was opened")
	// ErrIncomplete marks a submission missing required fields or consent.
	ErrIncomplete = errors.New("required fields missing or consent not given")
	// ErrNothingLaunchable is returned when a random pick finds no live molecule.
	ErrNothingLaunchable = errors.New("no launchable molecules in this filter")
)
