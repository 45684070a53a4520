package predict

import (
	"errors"
	"fmt"
)

var (
	// ErrServerRejected matches every *ServerRejectedError.
	ErrServerRejected = errors.New("predict: server rejected request")
	// ErrTransport matches failures before or while reading a usable response:
	// unreachable endpoint, malformed request, malformed response, open breaker.
	ErrTransport = errors.New("predict: transport failed")
)

// ServerRejectedError reports a non-2xx status with a JSON body. Message is the
// body's "error" field and is empty when the field is absent.
type ServerRejectedError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *ServerRejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("predict: server rejected request with status %d", e.StatusCode)
	}
	return fmt.Sprintf("predict: server rejected request with status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrServerRejected) match.
func (e *ServerRejectedError) Is(target error) bool {
	return target == ErrServerRejected
}

// TransportError wraps the cause of a transport failure. Op names the stage
// that failed (encode, send, read, decode, breaker).
type TransportError struct {
	Op        string
	RequestID string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("predict: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
