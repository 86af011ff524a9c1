// =============================================================================
// stubdevice_test.go - Shared Helpers for CLI Tests
// =============================================================================
//
// Helpers used by main_test.go and lineeditor_test.go. The instrument itself
// lives in internal/stubdevice so the protocol tests can use the same one;
// this file only adds the default instrument behaviour the CLI tests expect
// and a runCLI wrapper that drives run() the way main() does.
//
// GO CONCEPT: Test-Only Files
// ---------------------------
// Files ending in _test.go are compiled only by `go test`. Helpers defined
// here are visible to every test in package main but never end up in the
// bw binary.
//
// =============================================================================

package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitwiselabs/bw/bwprotocol"
	"github.com/bitwiselabs/bw/internal/stubdevice"
)

// startStubDevice starts a loopback instrument. A nil handler uses
// defaultStubHandler.
func startStubDevice(t *testing.T, handler stubdevice.Handler) *stubdevice.Device {
	t.Helper()

	if handler == nil {
		handler = defaultStubHandler
	}
	return stubdevice.Start(t, handler)
}

// defaultStubHandler behaves like an instrument with an empty error queue.
func defaultStubHandler(line string) string {
	switch line {
	case "*IDN?":
		return "ACME,WidgetBox,SN123\n"
	case bwprotocol.ErrorQuery:
		return bwprotocol.NoErrorResponse + "\n"
	default:
		if bwprotocol.IsQuery(line, false) {
			return "0\n"
		}
		return ""
	}
}

// cliResult captures one run of the CLI.
type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs the CLI with the given stdin contents and environment.
//
// GO CONCEPT: Dependency Injection Through Parameters
// ---------------------------------------------------
// run() takes its streams and a getenv function as parameters instead of
// touching os.Stdout or os.Getenv directly. Tests pass buffers and a map
// lookup, so they never modify process-wide state and can run in parallel.
func runCLI(t *testing.T, stdin string, env map[string]string, argv ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(argv, pipeWith(t, stdin), &stdout, &stderr, envFunc(env))
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// pipeWith returns a readable pipe that yields input and then EOF.
func pipeWith(t *testing.T, input string) *os.File {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err, "failed to create pipe")
	_, err = io.WriteString(w, input)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	t.Cleanup(func() { r.Close() })
	return r
}

// envFunc returns a getenv replacement backed by a map.
func envFunc(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}
