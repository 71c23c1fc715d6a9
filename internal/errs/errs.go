// Package errs defines the error taxonomy shared by the repository host
// client, the generation backends and the aggregation pipeline.
//
// Three classes exist:
//
//   - ErrInvalidArgument: malformed caller input, raised before any remote call.
//   - ErrRemoteUnavailable: transport failure or non-2xx status from a remote
//     service. Carried by *RemoteError with the upstream status and message.
//   - ErrRemoteProtocol: a successful transport response whose shape violates
//     the expected contract. Carried by *ProtocolError.
//
// Match with errors.Is on the sentinels and errors.As on the typed errors.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel classes.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrRemoteProtocol    = errors.New("remote protocol error")
)

// InvalidArgument returns an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// RemoteError is a transport-level or non-2xx failure from a remote service.
type RemoteError struct {
	Service    string // "github", "generator"
	StatusCode int    // 0 when no response was received
	Message    string // upstream message, verbatim
	Err        error  // underlying cause, may be nil
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s unavailable: %s", e.Service, msg)
	}
	return fmt.Sprintf("%s unavailable (status %d): %s", e.Service, e.StatusCode, msg)
}

// Unwrap returns the underlying cause.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is reports ErrRemoteUnavailable as a match.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteUnavailable
}

// ProtocolError is a response that arrived intact but has the wrong shape.
type ProtocolError struct {
	Service string
	Path    string
	Detail  string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s protocol error: %s", e.Service, e.Detail)
	}
	return fmt.Sprintf("%s protocol error at %q: %s", e.Service, e.Path, e.Detail)
}

// Is reports ErrRemoteProtocol as a match.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrRemoteProtocol
}

// StatusCode extracts the upstream status from err, or 0.
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
