package bwprotocol

import (
	"strconv"
	"strings"
)

// IsNoError reports whether a reply to ErrorQuery means the instrument's
// error queue is empty. Accepted forms are an empty reply, "[none]", and
// SCPI style replies whose numeric code is zero, such as `0,"No error"`.
func IsNoError(response string) bool {
	response = TrimLine(response)
	if response == "" || strings.EqualFold(response, NoErrorResponse) {
		return true
	}

	code, _, _ := strings.Cut(response, ",")
	n, err := strconv.Atoi(strings.TrimSpace(code))
	return err == nil && n == 0
}
