package recocache

import (
	"errors"
)

// Kind classifies request failures for programmatic handling.
type Kind uint8

const (
	KindNotFound Kind = iota + 1
	KindInvalidArgument
)

// RequestError is a caller mistake detected before any remote work starts.
// Errors returned by a Fetcher are not wrapped in RequestError; they reach
// every waiting caller exactly as the Fetcher returned them.
type RequestError struct {
	Kind Kind
	Msg  string
}

func (e *RequestError) Error() string { return e.Msg }

var (
	// ErrChatNotFound reports that a referenced dialog is unknown locally.
	ErrChatNotFound = &RequestError{Kind: KindNotFound, Msg: "chat not found"}

	// ErrInvalidChat reports a dialog of the wrong kind where a channel is
	// required.
	ErrInvalidChat = &RequestError{Kind: KindInvalidArgument, Msg: "invalid chat specified"}

	// ErrClosed reports a request made after Close.
	ErrClosed = errors.New("recocache: manager closed")
)

// IsNotFound reports whether err is a not-found request failure.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindNotFound
}

// IsInvalidArgument reports whether err is an invalid-argument request
// failure.
func IsInvalidArgument(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindInvalidArgument
}
