package bwprotocol

// Characters removed from each end of a line. The two sets differ: line
// endings and tabs only ever appear at the end.
const (
	leadingTrimSet  = "\" "
	trailingTrimSet = "\n\r\t \""
)

// TrimLine strips surrounding quotes and whitespace from a command or
// response line. Leading double quotes and spaces are removed, then
// trailing newlines, carriage returns, tabs, spaces and double quotes.
// The result is a fixed point: TrimLine(TrimLine(s)) == TrimLine(s).
func TrimLine(s string) string {
	return trimLeading(trimTrailing(s))
}

func trimLeading(s string) string {
	i := 0
	for i < len(s) && containsByte(leadingTrimSet, s[i]) {
		i++
	}
	return s[i:]
}

func trimTrailing(s string) string {
	n := len(s)
	for n > 0 && containsByte(trailingTrimSet, s[n-1]) {
		n--
	}
	return s[:n]
}

func containsByte(set string, b byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == b {
			return true
		}
	}
	return false
}
