// Package stubdevice provides a loopback TCP instrument for tests.
//
// A Device accepts any number of connections, records every line it
// receives and answers each one with whatever its Handler returns.
package stubdevice

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Handler returns the raw bytes to send back for a received line.
// An empty string sends nothing.
type Handler func(line string) string

// Silent never replies.
func Silent(string) string { return "" }

// Device is a TCP instrument listening on 127.0.0.1.
type Device struct {
	listener net.Listener
	handler  Handler

	mu    sync.Mutex
	lines []string
	conns []net.Conn

	wg sync.WaitGroup
}

// Start starts a device on an ephemeral port. It is stopped when the test
// finishes.
func Start(t testing.TB, handler Handler) *Device {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "failed to create stub device listener")

	if handler == nil {
		handler = Silent
	}

	d := &Device{listener: listener, handler: handler}
	d.wg.Add(1)
	go d.acceptLoop()
	t.Cleanup(d.stop)

	return d
}

// Port returns the listening port.
func (d *Device) Port() int {
	return d.listener.Addr().(*net.TCPAddr).Port
}

// PortString returns the listening port in decimal, as given on a command
// line.
func (d *Device) PortString() string {
	return strconv.Itoa(d.Port())
}

// Received returns a copy of every line received so far, in order.
func (d *Device) Received() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lines...)
}

func (d *Device) acceptLoop() {
	defer d.wg.Done()
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			return
		}

		d.mu.Lock()
		d.conns = append(d.conns, conn)
		d.mu.Unlock()

		d.wg.Add(1)
		go d.serve(conn)
	}
}

func (d *Device) serve(conn net.Conn) {
	defer d.wg.Done()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()

		d.mu.Lock()
		d.lines = append(d.lines, line)
		d.mu.Unlock()

		if reply := d.handler(line); reply != "" {
			io.WriteString(conn, reply)
		}
	}
}

func (d *Device) stop() {
	d.listener.Close()

	d.mu.Lock()
	for _, conn := range d.conns {
		conn.Close()
	}
	d.conns = nil
	d.mu.Unlock()

	d.wg.Wait()
}
