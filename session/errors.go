package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionClosed is returned by every command issued after Close or a fatal transport error.
	ErrSessionClosed = errors.New("session closed")
	// ErrNotReady is returned by commands issued before the transport reported a login.
	ErrNotReady = errors.New("session not ready")
	// ErrInvalidRecipient is returned when a send has a blank recipient.
	ErrInvalidRecipient = errors.New("invalid recipient")
	// ErrInvalidArgument is returned when caller input fails validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned by transports when a queried identifier is unknown.
	ErrNotFound = errors.New("not found")
	// ErrUnsupported is returned when the transport cannot perform an optional operation.
	ErrUnsupported = errors.New("operation not supported by transport")
	// ErrFatal is wrapped by transports when the session cannot continue (e.g. remote logout).
	ErrFatal = errors.New("fatal transport failure")
)

// ConnectError reports a failed session establishment
type ConnectError struct {
	Session string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect session %q: %v", e.Session, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// TransportError reports a failed send, query or teardown
type TransportError struct {
	Op      string
	Timeout bool
	Fatal   bool
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: transport timeout: %v", e.Op, e.Err)
	case e.Fatal:
		return fmt.Sprintf("%s: fatal transport error: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a TransportError caused by a timeout
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}
