package bwprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the device protocol.
var (
	// ErrNotConnected indicates an operation was attempted without a connection.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates connect was called while already connected.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrTimeout indicates a query did not receive its response before the
	// read deadline.
	ErrTimeout = errors.New("response timed out")

	// ErrInvalidHost indicates an empty host name.
	ErrInvalidHost = errors.New("host must not be empty")

	// ErrInvalidPort indicates a port outside 1..65535.
	ErrInvalidPort = errors.New("port out of range")
)

// ConnectionError represents a failure to establish the TCP session.
type ConnectionError struct {
	Host  string
	Port  int
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	addr := Endpoint{Host: e.Host, Port: e.Port}.Address()
	if e.Cause != nil {
		return fmt.Sprintf("connection to %s failed: %v", addr, e.Cause)
	}
	return fmt.Sprintf("connection to %s failed", addr)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// WriteError represents a transport write failure.
type WriteError struct {
	Line  string // The line being transmitted, without terminator
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %q failed: %v", e.Line, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// ReadError represents a transport read failure while waiting for a
// response. When Timeout is set, errors.Is(err, ErrTimeout) reports true.
type ReadError struct {
	Line    string
	Timeout bool
	Cause   error
}

func (e *ReadError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("no response to %q: %v", e.Line, ErrTimeout)
	}
	return fmt.Sprintf("read response to %q failed: %v", e.Line, e.Cause)
}

// Unwrap exposes both the timeout sentinel and the transport cause.
func (e *ReadError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Timeout {
		errs = append(errs, ErrTimeout)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// ResponseTooLargeError reports a response that filled the whole buffer
// without a line terminator.
type ResponseTooLargeError struct {
	Line     string
	Capacity int
}

func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response to %q exceeds %d byte buffer", e.Line, e.Capacity)
}

// DeviceError is reported when the instrument's error queue is not empty
// after a command.
type DeviceError struct {
	Command  string
	Response string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device reported error after %q: %s", e.Command, e.Response)
}

// NewConnectionError creates a new connection error.
func NewConnectionError(host string, port int, cause error) error {
	return &ConnectionError{Host: host, Port: port, Cause: cause}
}
