// =============================================================================
// runner.go - Command Dispatch (Queries, Commands, Error Checks)
// =============================================================================
//
// This file turns input lines into instrument traffic. Every line, whether
// it came from the command line, a file, a pipe or the interactive prompt,
// goes through runner.process:
//
//   - An empty line prints "No command entered." and sends nothing.
//   - A line ending in '?' (or any line under -query) is a query; the
//     response is printed on stdout.
//   - Anything else is a command. Unless fast mode is on, the instrument's
//     error queue is checked right after it.
//
// The first failure stops a batch. The caller prints it and exits with 1.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bitwiselabs/bw/bwprotocol"
)

// emptyCommandNotice is printed on stderr for a line with nothing to send.
const emptyCommandNotice = "No command entered."

// GO CONCEPT: Sentinel Errors
// ---------------------------
// A sentinel is a package-level error value that callers compare against
// with errors.Is. Every line source returns errLineTooLong for an
// oversized line, so the message is the same whether the line was typed
// or read from a file.
var errLineTooLong = fmt.Errorf("input line longer than %d bytes", bwprotocol.MaxLineLength)

// checkLineLength rejects lines longer than MaxLineLength bytes, not
// counting the line terminator.
func checkLineLength(line string) (string, error) {
	if len(line) > bwprotocol.MaxLineLength {
		return "", errLineTooLong
	}
	return line, nil
}

// GO CONCEPT: Custom Error Types
// ------------------------------
// Any type with an Error() string method satisfies the error interface.
// A struct error carries details (here the path) that callers can pull out
// with errors.As. Unwrap exposes the underlying cause, so
// errors.Is(err, os.ErrNotExist) still works through the wrapper.

// InputFileError reports a command file that cannot be read.
type InputFileError struct {
	Path  string
	Cause error
}

func (e *InputFileError) Error() string {
	return fmt.Sprintf("unable to open input file %s: %v", e.Path, e.Cause)
}

func (e *InputFileError) Unwrap() error {
	return e.Cause
}

// GO CONCEPT: Small Interfaces Defined by the Consumer
// ----------------------------------------------------
// The runner does not depend on *bwprotocol.Session directly. It declares
// the four methods it needs, and the session satisfies that interface
// implicitly because its method set matches. Tests substitute a fake that
// records calls, with no network involved.

// device is the part of *bwprotocol.Session the runner drives.
type device interface {
	SendCommand(line string) error
	Query(line string) (string, error)
	CheckError(command string) error
	FastMode() bool
}

// runner sends command lines to a device and prints query responses.
type runner struct {
	device     device
	forceQuery bool
	verbose    bool

	stdout io.Writer
	stderr io.Writer
}

// process sends one trimmed line. Queries print their response on
// stdout; commands are followed by an error check unless the device is in
// fast mode. In verbose mode the line is echoed before the prefix is
// added.
func (r *runner) process(line, prefix string) error {
	kind := bwprotocol.Classify(line, r.forceQuery)
	if kind == bwprotocol.KindEmpty {
		fmt.Fprintln(r.stderr, emptyCommandNotice)
		return nil
	}

	if r.verbose {
		fmt.Fprintf(r.stdout, "Transmit: %s\n", line)
	}
	line = prefix + line

	// GO CONCEPT: Early Returns
	// -------------------------
	// Each branch returns as soon as it is done. Go style keeps the happy
	// path at the left margin instead of nesting it inside else blocks.
	if kind == bwprotocol.KindQuery {
		response, err := r.device.Query(line)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.stdout, response)
		return nil
	}

	if err := r.device.SendCommand(line); err != nil {
		return err
	}
	if r.device.FastMode() {
		return nil
	}
	return r.device.CheckError(line)
}

// GO CONCEPT: Functions as Iterators
// ----------------------------------
// runLines takes a "next" function rather than a reader. The scanner over a
// file and the interactive LineEditor.ReadLine both fit the signature
// func() (string, error), so one loop serves every input source. io.EOF
// marks the normal end of input, as it does for io.Reader.

// runLines processes lines until next returns io.EOF. Lines never get the
// command-line prefix. The first failure stops the run.
func (r *runner) runLines(next func() (string, error)) error {
	for {
		line, err := next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := r.process(bwprotocol.TrimLine(line), ""); err != nil {
			return err
		}
	}
}

// GO CONCEPT: bufio.Scanner Limits
// --------------------------------
// A Scanner refuses tokens larger than its maximum buffer size and reports
// bufio.ErrTooLong. The buffer leaves room for a "\r\n" terminator; the
// length of the line itself is checked separately by checkLineLength.

// newLineScanner returns a scanner for lines of up to MaxLineLength bytes.
func newLineScanner(in io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, bwprotocol.MaxLineLength), bwprotocol.MaxLineLength+2)
	return scanner
}

// scanLines adapts a scanner to the runLines iterator.
func scanLines(scanner *bufio.Scanner) func() (string, error) {
	return func() (string, error) {
		if scanner.Scan() {
			return checkLineLength(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				return "", errLineTooLong
			}
			return "", err
		}
		return "", io.EOF
	}
}

// openInputFile opens a command file for reading.
func openInputFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputFileError{Path: path, Cause: err}
	}
	return f, nil
}
