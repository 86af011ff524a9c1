package bwprotocol

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is a TCP connection to one instrument.
//
// Commands are written as single lines. Queries are written the same way
// and then block until one response line has been read into a bounded
// buffer. A session never grows its buffer: a response that does not fit
// is reported as a *ResponseTooLargeError.
//
// Thread Safety:
// Session is not safe for concurrent use. Calls must be strictly
// sequential; hand the session to one goroutine at a time. The one
// exception is Disconnect, which may be called from another goroutine
// (a signal handler, say) to unblock a pending Query.
type Session struct {
	id       string
	endpoint Endpoint

	mu   sync.Mutex // guards conn
	conn net.Conn

	fastMode    bool
	readTimeout time.Duration

	// Response buffer used by Query, allocated on first use.
	buf []byte

	logger zerolog.Logger
}

// NewSession creates a disconnected session with the default read timeout
// and logging disabled.
func NewSession() *Session {
	return &Session{
		id:          uuid.NewString(),
		readTimeout: ReadTimeout,
		logger:      zerolog.Nop(),
	}
}

// SetLogger sets the logger for protocol trace output. Every record carries
// the session ID.
func (s *Session) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("session", s.id).Logger()
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// SetFastMode enables or disables fast mode. In fast mode callers skip
// the error check after each command. It takes effect on the next call.
func (s *Session) SetFastMode(enabled bool) {
	s.fastMode = enabled
}

// FastMode reports whether fast mode is enabled.
func (s *Session) FastMode() bool {
	return s.fastMode
}

// SetReadTimeout sets how long a query waits for its response.
// Zero waits indefinitely.
func (s *Session) SetReadTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.readTimeout = d
}

// ReadTimeout returns the current query read timeout.
func (s *Session) ReadTimeout() time.Duration {
	return s.readTimeout
}

// IsConnected returns true if the session holds an open connection.
func (s *Session) IsConnected() bool {
	return s.connection() != nil
}

func (s *Session) connection() net.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Endpoint returns the endpoint of the current connection, or of the last
// connection attempt.
func (s *Session) Endpoint() Endpoint {
	return s.endpoint
}

// Connect opens a TCP connection to host:port.
func (s *Session) Connect(host string, port int) error {
	return s.ConnectWithContext(context.Background(), host, port)
}

// ConnectWithContext opens a TCP connection to host:port. The dial is
// bounded by ConnectionTimeout and by ctx. On failure the session stays
// disconnected and a *ConnectionError is returned.
func (s *Session) ConnectWithContext(ctx context.Context, host string, port int) error {
	if s.connection() != nil {
		return ErrAlreadyConnected
	}

	endpoint := Endpoint{Host: host, Port: port}
	if err := endpoint.Validate(); err != nil {
		return NewConnectionError(host, port, err)
	}
	s.endpoint = endpoint

	connectCtx, cancel := context.WithTimeout(ctx, ConnectionTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(connectCtx, "tcp", endpoint.Address())
	if err != nil {
		s.logger.Debug().Err(err).Str("endpoint", endpoint.Address()).Msg("connect failed")
		return NewConnectionError(host, port, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	s.logger.Debug().Str("endpoint", endpoint.Address()).Msg("connected")
	return nil
}

// Disconnect closes the connection. It is safe to call on a disconnected
// session; only the call that actually closes the socket can return an
// error.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	s.logger.Debug().Err(err).Msg("disconnected")
	return err
}

// SendCommand writes line followed by the line terminator. It performs a
// single write and never reads; verifying the command is up to the caller
// (see CheckError).
func (s *Session) SendCommand(line string) error {
	conn := s.connection()
	if conn == nil {
		return ErrNotConnected
	}
	return s.write(conn, line)
}

// Query writes line and returns the trimmed response, using the session's
// own buffer of ResponseBufferSize bytes.
func (s *Session) Query(line string) (string, error) {
	if s.buf == nil {
		s.buf = make([]byte, ResponseBufferSize)
	}
	return s.QueryInto(s.buf, line)
}

// QueryInto writes line and reads the response into buf. Reading stops at
// the first line terminator; anything the device sent after it is
// discarded. The session does not keep buf after returning.
//
// If buf fills up before a terminator arrives a *ResponseTooLargeError is
// returned. If the device closes the connection after sending part of a
// line, that part is the response.
func (s *Session) QueryInto(buf []byte, line string) (string, error) {
	conn := s.connection()
	if conn == nil {
		return "", ErrNotConnected
	}
	if err := s.write(conn, line); err != nil {
		return "", err
	}

	response, err := s.readLine(conn, buf, line)
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("rx", response).Msg("response")
	return response, nil
}

// CheckError queries the instrument's error queue after command was sent.
// A non-empty queue is returned as a *DeviceError.
func (s *Session) CheckError(command string) error {
	response, err := s.Query(ErrorQuery)
	if err != nil {
		return err
	}
	if !IsNoError(response) {
		return &DeviceError{Command: command, Response: response}
	}
	return nil
}

// write sends one line. A failed write leaves the stream in an unknown
// state, so the connection is dropped.
func (s *Session) write(conn net.Conn, line string) error {
	s.logger.Debug().Str("tx", line).Msg("send")

	if _, err := io.WriteString(conn, FormatLine("", line)); err != nil {
		s.abort(conn)
		return &WriteError{Line: line, Cause: err}
	}
	return nil
}

// readLine reads directly from conn so that no bytes are held back
// between calls. conn stays valid for the whole read even if Disconnect
// runs meanwhile; the read then fails on the closed socket.
func (s *Session) readLine(conn net.Conn, buf []byte, line string) (string, error) {
	if s.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			s.abort(conn)
			return "", &ReadError{Line: line, Cause: err}
		}
		defer conn.SetReadDeadline(time.Time{})
	}

	n := 0
	for n < len(buf) {
		m, err := conn.Read(buf[n:])
		if i := bytes.IndexByte(buf[n:n+m], '\n'); i >= 0 {
			return TrimLine(string(buf[:n+i])), nil
		}
		n += m

		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) && n > 0 {
			s.abort(conn)
			return TrimLine(string(buf[:n])), nil
		}

		s.abort(conn)
		if errors.Is(err, io.EOF) {
			return "", &ReadError{Line: line, Cause: io.ErrUnexpectedEOF}
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", &ReadError{Line: line, Timeout: true, Cause: err}
		}
		return "", &ReadError{Line: line, Cause: err}
	}

	// The unread remainder of the line would be taken as the next
	// response, so the connection cannot be reused.
	s.abort(conn)
	return "", &ResponseTooLargeError{Line: line, Capacity: len(buf)}
}

// abort closes conn after a transport failure. A conn that Disconnect
// already released is left alone.
func (s *Session) abort(conn net.Conn) {
	s.mu.Lock()
	if s.conn != conn {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.mu.Unlock()

	s.logger.Debug().Msg("dropping connection after transport failure")
	conn.Close()
}
