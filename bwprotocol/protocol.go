// Package bwprotocol implements the line-oriented automation protocol
// spoken by BitWise Laboratories instruments over TCP.
//
// Protocol Format:
//
//	Command (client -> device):  <command>\n
//	Query   (client -> device):  <command>?\n
//	Response (device -> client): <text>\n      (queries only)
//
// Example Session:
//
//	CLI: *IDN?
//	DEV: ACME,WidgetBox,SN123
//	CLI: OUTPUT ON
//	CLI: :SYST:ERR?
//	DEV: [none]
package bwprotocol

import (
	"net"
	"strconv"
	"time"
)

// Protocol constants.
const (
	// DefaultPort is the instrument's automation port.
	DefaultPort = 923

	// LineTerminator ends every command, query and response.
	LineTerminator = "\n"

	// QuerySuffix marks a line that expects a response.
	QuerySuffix = "?"

	// ErrorQuery asks the instrument for the oldest entry of its error queue.
	ErrorQuery = ":SYST:ERR?"

	// NoErrorResponse is the instrument's reply when the error queue is empty.
	NoErrorResponse = "[none]"

	// ResponseBufferSize is the capacity of a session's response buffer.
	ResponseBufferSize = 65536

	// MaxLineLength is the maximum length of an input command line in bytes.
	MaxLineLength = 4096

	// ConnectionTimeout is the timeout for establishing connections.
	ConnectionTimeout = 5 * time.Second

	// ReadTimeout is the default deadline for a query response.
	ReadTimeout = 30 * time.Second
)

// Endpoint identifies the instrument.
type Endpoint struct {
	Host string
	Port int
}

// Address returns the endpoint in host:port form.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Validate checks the host and port ranges.
func (e Endpoint) Validate() error {
	if e.Host == "" {
		return ErrInvalidHost
	}
	if e.Port < 1 || e.Port > 65535 {
		return ErrInvalidPort
	}
	return nil
}

func (e Endpoint) String() string {
	return e.Address()
}
