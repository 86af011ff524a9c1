package bwprotocol

import "strings"

// Kind describes how a command line is exchanged with the instrument.
type Kind int

const (
	// KindEmpty is a line with nothing to transmit.
	KindEmpty Kind = iota
	// KindCommand is written without waiting for a response.
	KindCommand
	// KindQuery is written and followed by reading one response line.
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindCommand:
		return "command"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// IsQuery reports whether line expects a response: either force is set or
// the last non-whitespace character is a question mark.
func IsQuery(line string, force bool) bool {
	if force {
		return true
	}
	return strings.HasSuffix(strings.TrimRight(line, " \t\r\n"), QuerySuffix)
}

// Classify returns the exchange kind for an already trimmed line.
// Empty lines are never transmitted, even when force is set.
func Classify(line string, force bool) Kind {
	if line == "" {
		return KindEmpty
	}
	if IsQuery(line, force) {
		return KindQuery
	}
	return KindCommand
}

// FormatLine joins an optional prefix and the command, and appends the
// line terminator.
func FormatLine(prefix, line string) string {
	return prefix + line + LineTerminator
}
