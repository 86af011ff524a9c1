// =============================================================================
// help_test.go - Tests for Usage Text (help.go)
// =============================================================================
//
// GO CONCEPT: Capturing Output for Testing
// ----------------------------------------
// printUsage writes to an io.Writer. Passing a bytes.Buffer captures the
// text in memory, where strings.Contains can check it.
//
// =============================================================================

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestUsageListsOptions(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	usage := buf.String()

	options := []string{
		"-h", "-help", "-v", "-port", "-p", "-ip", "-i", "-file", "-f",
		"-nocheck", "-n", "-query", "-q", "-prefix", "-x", "-noprefix", "-nx",
		"-timeout", "-t", "-config", "-c", "-version",
	}
	for _, opt := range options {
		if !strings.Contains(usage, opt) {
			t.Errorf("usage missing option %q", opt)
		}
	}
}

func TestUsageMentionsEnvironment(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	usage := buf.String()

	for _, env := range []string{envHost, envPort, envPrefix, envTimeout, envConfig} {
		if !strings.Contains(usage, env) {
			t.Errorf("usage missing environment variable %s", env)
		}
	}
}

func TestUsageShowsDefaults(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	usage := buf.String()

	if !strings.Contains(usage, "default is 923") {
		t.Error("usage should show the default port")
	}
	if !strings.Contains(usage, "default is 30s") {
		t.Error("usage should show the default timeout")
	}
	if !strings.HasPrefix(usage, fullTitle()) {
		t.Error("usage should start with the title")
	}
	if strings.Contains(usage, "%!") {
		t.Errorf("usage has a formatting error:\n%s", usage)
	}
}
