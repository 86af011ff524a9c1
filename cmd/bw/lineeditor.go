// =============================================================================
// lineeditor.go - Line Editor with Dual-Mode Operation
// =============================================================================
//
// When no inline command and no -file are given, bw reads commands from
// stdin. This file decides how:
//
//   - Interactive mode: stdin is a terminal, so ergochat/readline provides
//     line editing with Emacs keybindings and a persistent history.
//   - Non-interactive mode: stdin is a pipe, a file or an Emacs comint
//     buffer. Lines are read with bufio.Scanner and no prompt is printed,
//     so the output of `cat setup.txt | bw` contains only responses.
//
// Both modes hand lines to runner.runLines through the same ReadLine
// method, and both reject lines longer than MaxLineLength.
//
// History is stored at ~/.bw_history with a 500-entry limit.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

// GO CONCEPT: Grouped Constants
// -----------------------------
// Related constants share one const block. Untyped constants such as
// historySize take on the type they are used as, so the same value fits an
// int field in readline.Config without a conversion.
const (
	// historyFileName is stored in the user's home directory.
	historyFileName = ".bw_history"

	// historySize is the number of commands kept in the history file.
	historySize = 500

	// prompt is shown before each interactive command.
	prompt = "bw> "
)

// GO CONCEPT: Struct Fields with Mixed Visibility
// -----------------------------------------------
// LineEditor is exported (capital L) but all of its fields are not. Other
// code can hold a *LineEditor and call its methods, and only this file
// decides which of rl and scanner is in use.

// LineEditor reads commands typed on a terminal or piped in.
type LineEditor struct {
	interactive bool

	// rl is the readline instance (interactive mode only).
	rl *readline.Instance

	// scanner reads piped input (non-interactive mode only).
	scanner *bufio.Scanner
}

// GO CONCEPT: TTY Detection
// -------------------------
// term.IsTerminal asks the OS whether a file descriptor is attached to a
// terminal. Pipes and regular files are not. Emacs shell buffers are
// pseudo-terminals, but Emacs does its own line editing and sets
// INSIDE_EMACS, so that variable turns readline off.

// isInteractiveInput reports whether in is a terminal that a person is
// typing into.
func isInteractiveInput(in *os.File, getenv func(string) string) bool {
	return term.IsTerminal(int(in.Fd())) && getenv("INSIDE_EMACS") == ""
}

// NewLineEditor creates a line editor reading from in and echoing to out.
// getenv is consulted for INSIDE_EMACS.
func NewLineEditor(in *os.File, out io.Writer, getenv func(string) string) *LineEditor {
	if !isInteractiveInput(in, getenv) {
		return &LineEditor{scanner: newLineScanner(in)}
	}

	// GO CONCEPT: Struct Literals with Named Fields
	// ---------------------------------------------
	// Naming each field keeps the literal readable and lets every
	// unmentioned field keep its zero value.
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:       prompt,
		Stdin:        in,
		Stdout:       out,
		HistoryFile:  filepath.Join(homeDir(), historyFileName),
		HistoryLimit: historySize,

		// Lines are added by ReadLine so that empty and rejected lines
		// stay out of the history.
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return &LineEditor{scanner: newLineScanner(in)}
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

// ReadLine returns the next input line, or io.EOF at end of input.
// Ctrl-C at the prompt also ends input.
func (le *LineEditor) ReadLine() (string, error) {
	if !le.interactive {
		return scanLines(le.scanner)()
	}

	line, err := le.rl.Readline()
	if err != nil {
		// GO CONCEPT: Comparing Errors with errors.Is
		// -------------------------------------------
		// readline reports Ctrl-C as the sentinel readline.ErrInterrupt.
		// errors.Is also matches wrapped errors, so it keeps working if
		// the library starts wrapping it.
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}

	line, err = checkLineLength(line)
	if err != nil {
		return "", err
	}
	if len(line) > 0 {
		le.rl.SaveToHistory(line)
	}
	return line, nil
}

// GO CONCEPT: Resource Cleanup and Idempotency
// --------------------------------------------
// Close restores the terminal mode readline changed. Setting rl to nil
// afterwards makes a second Close a no-op, so callers can both defer it
// and call it explicitly.

// Close releases the terminal.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive returns true if the editor is using readline. run uses it
// to show the welcome banner only when a person is at the keyboard.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}

// homeDir returns the user's home directory, or "" if unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
