// =============================================================================
// main.go - Bw CLI Entry Point
// =============================================================================
//
// Bw sends automation commands and queries to a BitWise Laboratories
// instrument over TCP and prints the responses. It is a thin front end
// over the bwprotocol package.
//
// Usage:
//
//	bw -i 10.0.0.5 "*IDN?"          Send one query and print the response
//	bw -i 10.0.0.5 -f setup.txt     Send every line of a command file
//	bw -i 10.0.0.5                  Read commands from stdin (or a prompt)
//	bw -h                           Show help
//
// Exit status is 0 when every command succeeded and 1 otherwise.
//
// =============================================================================

// GO CONCEPT: Packages
// --------------------
// Every Go file starts with a package clause. Package main is special: it
// builds an executable, and its main() function is the entry point. The
// protocol code lives in its own package (bwprotocol) so other programs
// can import it; this package only handles the command line.
package main

// GO CONCEPT: Imports
// -------------------
// Standard library packages come first, then third-party modules, then
// packages from this module, each group separated by a blank line. Every
// import must be used or the build fails.
import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/bitwiselabs/bw/bwprotocol"
)

// GO CONCEPT: Constants
// ---------------------
// Constants are fixed at compile time. An untyped string constant can be
// concatenated with other constants, as missingHostMessage does with
// envHost, and the result is still a constant.
const (
	// version is the current version of the CLI.
	version = "2.0.0"

	// appName is the application name.
	appName = "Bw"

	// copyright is the copyright notice.
	copyright = "(c) BitWise Laboratories, Inc."
)

// missingHostMessage is printed when neither -ip nor BW_IP is given.
const missingHostMessage = "IP address must be specified on command line or using " +
	envHost + " environment variable.  Use -h for help."

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s, version %s, %s", appName, version, copyright)
}

// GO CONCEPT: Raw String Literals
// -------------------------------
// Backquoted strings keep newlines and backslashes exactly as written,
// which suits multi-line text. Format verbs inside them still work with
// fmt.Sprintf.

// welcomeBanner returns the text shown before the first interactive prompt.
func welcomeBanner(endpoint bwprotocol.Endpoint) string {
	return fmt.Sprintf(`%s
Connected to %s.

Type a command or query, one per line. Ctrl-D or Ctrl-C exits.
`, fullTitle(), endpoint)
}

// printError prints a single diagnostic line.
func printError(w io.Writer, message string) {
	fmt.Fprintf(w, "Error: %s\n", message)
}

// GO CONCEPT: Zero-Cost Disabled Logging
// --------------------------------------
// zerolog.Nop() returns a logger whose events are discarded before any
// field is formatted, so the protocol package can log every line it sends
// without slowing down a normal run.

// newLogger returns the protocol trace logger: human-readable debug output
// on stderr in verbose mode, nothing otherwise.
func newLogger(verbose bool, stderr io.Writer) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.StampMicro}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}

// GO CONCEPT: Signals and Channels
// --------------------------------
// signal.Notify delivers OS signals to a channel instead of killing the
// process. A goroutine waits on that channel and runs cleanup, so the
// instrument connection is closed even on Ctrl-C.
//
// The returned stop function unregisters the channel and ends the
// goroutine. Deferring it keeps the handler scoped to a single run.

// setupSignalHandler runs cleanup and exits when SIGINT or SIGTERM arrives.
func setupSignalHandler(cleanup func()) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// GO CONCEPT: select
	// ------------------
	// select blocks until one of its channel operations can proceed. Here
	// the goroutine ends either on a signal or when stop closes done.
	go func() {
		select {
		case sig := <-sigCh:
			cleanup()
			code := 1
			if s, ok := sig.(syscall.Signal); ok {
				code = 128 + int(s)
			}
			os.Exit(code)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// run executes one invocation of the CLI and returns the exit status.
// It never calls os.Exit itself, which keeps it testable.
func run(argv []string, stdin *os.File, stdout, stderr io.Writer, getenv func(string) string) int {
	args, err := parseArguments(argv)
	if err != nil {
		printError(stderr, err.Error())
		return 1
	}

	if args.showHelp {
		printUsage(stdout)
		return 0
	}
	if args.showVersion {
		fmt.Fprintln(stdout, fullTitle())
		return 0
	}

	cfg, err := resolveConfig(args, getenv)
	if err != nil {
		printError(stderr, err.Error())
		return 1
	}

	if cfg.Verbose {
		printSettings(stdout, cfg)
	}

	if cfg.Host == "" {
		printError(stderr, missingHostMessage)
		return 1
	}

	// Open the command file before connecting so a bad path fails fast.
	var input *os.File
	if cfg.InputFile != "" {
		input, err = openInputFile(cfg.InputFile)
		if err != nil {
			printError(stderr, err.Error())
			return 1
		}
		defer input.Close()
	}

	session := bwprotocol.NewSession()
	session.SetFastMode(cfg.NoCheck)
	session.SetReadTimeout(cfg.Timeout)
	session.SetLogger(newLogger(cfg.Verbose, stderr))

	// GO CONCEPT: sync.Once
	// ---------------------
	// Disconnect may be reached from the deferred call below or from the
	// signal handler. sync.Once guarantees the body runs exactly once no
	// matter how many paths call it. A Query blocked in the main goroutine
	// keeps its own reference to the socket, so closing it from the
	// handler makes that read fail instead of crashing.
	var once sync.Once
	disconnect := func() {
		once.Do(func() { session.Disconnect() })
	}
	defer disconnect()

	stopSignals := setupSignalHandler(disconnect)
	defer stopSignals()

	if err := session.ConnectWithContext(context.Background(), cfg.Host, cfg.Port); err != nil {
		printError(stderr, err.Error())
		return 1
	}

	r := &runner{
		device:     session,
		forceQuery: cfg.Query,
		verbose:    cfg.Verbose,
		stdout:     stdout,
		stderr:     stderr,
	}

	// GO CONCEPT: Tagless switch
	// --------------------------
	// `switch { case cond: ... }` is an if/else-if chain. Cases are tried
	// in order, which encodes the input priority: file, then inline
	// command, then stdin.
	switch {
	case input != nil:
		err = r.runLines(scanLines(newLineScanner(input)))

	case cfg.Command != "":
		prefix := cfg.Prefix
		if cfg.NoPrefix {
			prefix = ""
		}
		err = r.process(cfg.Command, prefix)

	default:
		editor := NewLineEditor(stdin, stdout, getenv)
		if editor.IsInteractive() {
			fmt.Fprint(stdout, welcomeBanner(session.Endpoint()))
		}
		err = r.runLines(editor.ReadLine)
		editor.Close()
	}

	if err != nil {
		printError(stderr, err.Error())
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}
