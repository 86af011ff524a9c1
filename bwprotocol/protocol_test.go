package bwprotocol

import (
	"errors"
	"strings"
	"testing"
)

func TestProtocolConstants(t *testing.T) {
	if DefaultPort != 923 {
		t.Errorf("DefaultPort = %d, want 923", DefaultPort)
	}
	if ResponseBufferSize != 65536 {
		t.Errorf("ResponseBufferSize = %d, want 65536", ResponseBufferSize)
	}
	if LineTerminator != "\n" {
		t.Errorf("LineTerminator = %q, want %q", LineTerminator, "\n")
	}
	if !strings.HasSuffix(ErrorQuery, QuerySuffix) {
		t.Errorf("ErrorQuery %q must be a query", ErrorQuery)
	}
}

func TestEndpointAddress(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		expected string
	}{
		{"IPv4", Endpoint{Host: "10.0.0.5", Port: 923}, "10.0.0.5:923"},
		{"hostname", Endpoint{Host: "bert.lab", Port: 5025}, "bert.lab:5025"},
		{"IPv6", Endpoint{Host: "::1", Port: 923}, "[::1]:923"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.endpoint.Address(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEndpointValidate(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		expected error
	}{
		{"valid", Endpoint{Host: "localhost", Port: 923}, nil},
		{"lowest port", Endpoint{Host: "localhost", Port: 1}, nil},
		{"highest port", Endpoint{Host: "localhost", Port: 65535}, nil},
		{"empty host", Endpoint{Port: 923}, ErrInvalidHost},
		{"port zero", Endpoint{Host: "localhost", Port: 0}, ErrInvalidPort},
		{"port too large", Endpoint{Host: "localhost", Port: 65536}, ErrInvalidPort},
		{"negative port", Endpoint{Host: "localhost", Port: -1}, ErrInvalidPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.endpoint.Validate(); !errors.Is(err, tt.expected) {
				t.Errorf("Validate() = %v, want %v", err, tt.expected)
			}
		})
	}
}

func TestTrimLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "*IDN?", "*IDN?"},
		{"quoted", `"*IDN?"`, "*IDN?"},
		{"trailing newline", "OUTPUT ON\n", "OUTPUT ON"},
		{"crlf", "OUTPUT ON\r\n", "OUTPUT ON"},
		{"leading spaces", "   :SYST:ERR?", ":SYST:ERR?"},
		{"trailing tab", "OUTPUT ON\t", "OUTPUT ON"},
		{"mixed quotes and space", ` " "FREQ 10E9" " `, "FREQ 10E9"},
		{"inner quotes kept", `LABEL "A" B`, `LABEL "A" B`},
		{"closing quote stripped", `LABEL "A B"`, `LABEL "A B`},
		{"leading tab kept", "\tOUTPUT ON", "\tOUTPUT ON"},
		{"only trim chars", "\" \r\n\"", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimLine(tt.input); got != tt.expected {
				t.Errorf("TrimLine(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTrimLineFixedPoint(t *testing.T) {
	inputs := []string{
		"*IDN?",
		`""OUTPUT ON""`,
		" \" \t\r\n",
		"\tFREQ?\r\n",
		`"ACME,WidgetBox,SN123"` + "\n",
	}

	for _, input := range inputs {
		once := TrimLine(input)
		if twice := TrimLine(once); twice != once {
			t.Errorf("TrimLine not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		force    bool
		expected Kind
	}{
		{"query", "*IDN?", false, KindQuery},
		{"query with trailing space", "FREQ? ", false, KindQuery},
		{"command", "OUTPUT ON", false, KindCommand},
		{"forced query", "OUTPUT", true, KindQuery},
		{"question mark inside", "A?B", false, KindCommand},
		{"empty", "", false, KindEmpty},
		{"empty forced", "", true, KindEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.line, tt.force); got != tt.expected {
				t.Errorf("Classify(%q, %v) = %v, want %v", tt.line, tt.force, got, tt.expected)
			}
		})
	}
}

func TestFormatLine(t *testing.T) {
	if got := FormatLine(":BERT:", "RUN"); got != ":BERT:RUN\n" {
		t.Errorf("got %q, want %q", got, ":BERT:RUN\n")
	}
	if got := FormatLine("", "*RST"); got != "*RST\n" {
		t.Errorf("got %q, want %q", got, "*RST\n")
	}
}

func TestIsNoError(t *testing.T) {
	tests := []struct {
		response string
		expected bool
	}{
		{"", true},
		{"[none]", true},
		{"[NONE]\n", true},
		{"0", true},
		{`0,"No error"`, true},
		{`+0,"No error"`, true},
		{`-113,"Undefined header"`, false},
		{"[Invalid_Command]", false},
		{"syntax error", false},
	}

	for _, tt := range tests {
		t.Run(tt.response, func(t *testing.T) {
			if got := IsNoError(tt.response); got != tt.expected {
				t.Errorf("IsNoError(%q) = %v, want %v", tt.response, got, tt.expected)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := NewConnectionError("10.0.0.5", 923, errors.New("connection refused"))
	if !strings.Contains(err.Error(), "10.0.0.5:923") {
		t.Errorf("ConnectionError message %q lacks endpoint", err.Error())
	}

	readErr := &ReadError{Line: "*IDN?", Timeout: true}
	if !errors.Is(readErr, ErrTimeout) {
		t.Error("timed out ReadError should match ErrTimeout")
	}
	if errors.Is(&ReadError{Line: "*IDN?", Cause: errors.New("reset")}, ErrTimeout) {
		t.Error("plain ReadError should not match ErrTimeout")
	}
}
