// =============================================================================
// help.go - Usage Text
// =============================================================================
//
// This file prints the -h output. The option list mirrors parseArguments in
// config.go, and the defaults are taken from the bwprotocol constants so the
// help text cannot drift from the real values.
//
// =============================================================================

package main

import (
	"fmt"
	"io"

	"github.com/bitwiselabs/bw/bwprotocol"
)

// GO CONCEPT: Raw String Literals as Templates
// ---------------------------------------------
// The usage text is one backquoted string passed to fmt.Fprintf. Column
// alignment in the source is exactly what the user sees. Each %s or %d
// verb is filled from the arguments in order, so adding an option means
// adding both a line here and a matching argument below.

// printUsage prints usage information.
func printUsage(w io.Writer) {
	fmt.Fprintf(w, `%s
Purpose:  Sends automation query or command to BitWise Laboratories
          device and displays response.

USAGE: bw [options] [query_or_command]

OPTIONS:
  -h, -help             Show this help
  -version              Show version
  -v                    Display verbose messages
  -port <N>, -p <N>     Port number, default is %d, or use %s
  -ip <addr>, -i <addr> IP address (required), or use %s
  -file <f>, -f <f>     Read commands from file instead of stdin
  -nocheck, -n          Fast mode: skip error checking after commands
  -query, -q            Force command to query a response
  -prefix <s>, -x <s>   Prefix for the command-line command, or use %s
  -noprefix, -nx        Ignore any prefix that may be set
  -timeout <d>, -t <d>  Response timeout (e.g. 10s, 0 waits forever),
                        default is %s, or use %s
  -config <f>, -c <f>   YAML settings file, or use %s

SOURCES:
  With a command on the command line it is sent once. Otherwise commands
  are read one per line from -file or from stdin. A command ending in '?'
  is a query and its response is printed. The prefix applies only to the
  command-line command. The first error stops the run.

CONFIG FILE:
  ip: 10.0.0.5
  port: %d
  prefix: ":BERT:"
  nocheck: false
  timeout: 10s

  Command-line options override environment variables, which override
  the config file.

EXAMPLES:
  bw -i 10.0.0.5 "*IDN?"            Print the instrument identity
  bw -i 10.0.0.5 -n OUTPUT ON       Send a command without error check
  bw -i 10.0.0.5 -f setup.txt       Send every line of setup.txt
  echo ":SYST:ERR?" | bw -i 10.0.0.5
`,
		fullTitle(),
		bwprotocol.DefaultPort, envPort,
		envHost,
		envPrefix,
		bwprotocol.ReadTimeout, envTimeout,
		envConfig,
		bwprotocol.DefaultPort,
	)
}
