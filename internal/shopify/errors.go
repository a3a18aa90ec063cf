package shopify

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors that RemoteError wraps, so callers can classify failures
// with errors.Is without inspecting fields.
var (
	// ErrTransport marks network or HTTP-level failures.
	ErrTransport = errors.New("transport failure")
	// ErrProtocol marks well-formed HTTP responses carrying an
	// application-level error list.
	ErrProtocol = errors.New("remote protocol error")
)

// RemoteError is the uniform label the gateway attaches to every transport
// and protocol failure before surfacing it.
type RemoteError struct {
	// Kind is ErrTransport or ErrProtocol.
	Kind error
	// Status is the HTTP status when one was received, 0 otherwise.
	Status int
	// Message is a short human-readable description.
	Message string
	// Operation names the GraphQL operation that failed.
	Operation string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("shopify %s: %s (status=%d, op=%s)",
		e.Kind, e.Message, e.Status, e.Operation)
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}

func transportError(op, message string, status int) error {
	return &RemoteError{Kind: ErrTransport, Status: status, Message: message, Operation: op}
}

func protocolError(op, message string, status int) error {
	return &RemoteError{Kind: ErrProtocol, Status: status, Message: message, Operation: op}
}
