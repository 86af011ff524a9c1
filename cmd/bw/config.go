// =============================================================================
// config.go - Command-Line Arguments and Configuration
// =============================================================================
//
// Settings come from four places. In decreasing priority:
//
//   1. Command-line options (-ip, -port, -prefix, -timeout, ...)
//   2. Environment variables (BW_IP, BW_PORT, BW_PREFIX, BW_TIMEOUT)
//   3. A YAML config file (-config or BW_CONFIG)
//   4. Built-in defaults (port 923, 30 second response timeout)
//
// parseArguments only splits the command line; resolveConfig merges the
// sources and validates the values.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bitwiselabs/bw/bwprotocol"
)

// Environment variables consulted when the matching flag is absent.
const (
	envHost    = "BW_IP"
	envPort    = "BW_PORT"
	envPrefix  = "BW_PREFIX"
	envTimeout = "BW_TIMEOUT"
	envConfig  = "BW_CONFIG"
)

// GO CONCEPT: Zero Values as "Not Set"
// -------------------------------------
// A freshly declared struct has every field at its zero value: "" for
// strings, false for bools. An empty string therefore means the option was
// not given. Where "" is itself a valid value, as for -prefix, a separate
// bool records whether the option appeared.

// arguments holds the parsed command-line arguments. Empty strings mean
// "not given on the command line".
type arguments struct {
	showHelp    bool
	showVersion bool
	verbose     bool

	host       string
	port       string
	inputFile  string
	prefix     string
	timeout    string
	configFile string

	// prefixSet distinguishes "-prefix ''" from no -prefix at all.
	prefixSet bool

	noCheck    bool
	forceQuery bool
	noPrefix   bool

	// command is every word that is not an option, joined with spaces.
	command string
}

// parseArguments parses the command line (without the program name).
//
// Options may appear anywhere. Words that are not options make up the
// inline command, so "bw -i 10.0.0.5 :VOLT -5" sends ":VOLT -5".
func parseArguments(argv []string) (arguments, error) {
	var args arguments
	var words []string

	// GO CONCEPT: Closures
	// ---------------------
	// value captures remaining by reference. Each call consumes the next
	// word, and the loop below sees the shortened slice.
	remaining := argv
	value := func(flag string) (string, error) {
		if len(remaining) == 0 {
			return "", fmt.Errorf("%s requires an argument", flag)
		}
		v := remaining[0]
		remaining = remaining[1:]
		return v, nil
	}

	for len(remaining) > 0 {
		arg := remaining[0]
		remaining = remaining[1:]

		var err error
		switch arg {
		case "-h", "-help", "--help":
			args.showHelp = true
		case "-version", "--version":
			args.showVersion = true
		case "-v":
			args.verbose = true
		case "-port", "-p":
			args.port, err = value(arg)
		case "-ip", "-i":
			args.host, err = value(arg)
		case "-file", "-f":
			args.inputFile, err = value(arg)
		case "-nocheck", "-n":
			args.noCheck = true
		case "-query", "-q":
			args.forceQuery = true
		case "-prefix", "-x":
			args.prefix, err = value(arg)
			args.prefixSet = err == nil
		case "-noprefix", "-nx":
			args.noPrefix = true
		case "-timeout", "-t":
			args.timeout, err = value(arg)
		case "-config", "-c":
			args.configFile, err = value(arg)
		default:
			words = append(words, arg)
		}
		if err != nil {
			return arguments{}, err
		}
	}

	args.command = bwprotocol.TrimLine(strings.Join(words, " "))
	return args, nil
}

// Config is the resolved run configuration.
//
// Each setting is taken from, in decreasing priority: the command line,
// the environment, the YAML config file, the built-in default.
type Config struct {
	Host      string
	Port      int
	Prefix    string
	NoPrefix  bool
	NoCheck   bool
	Query     bool
	Timeout   time.Duration
	InputFile string
	Command   string
	Verbose   bool
}

// GO CONCEPT: Struct Tags
// -----------------------
// The backquoted `yaml:"ip"` after a field is a tag. yaml.v3 reads it
// through reflection to map YAML keys to fields. KnownFields(true) makes a
// misspelt key an error instead of silently ignoring it.

// fileConfig is the layout of the optional YAML config file.
//
//	ip: 10.0.0.5
//	port: 923
//	prefix: ":BERT:"
//	nocheck: false
//	timeout: 10s
type fileConfig struct {
	IP      string `yaml:"ip"`
	Port    int    `yaml:"port"`
	Prefix  string `yaml:"prefix"`
	NoCheck bool   `yaml:"nocheck"`
	Timeout string `yaml:"timeout"`
}

// ConfigError reports an unusable configuration value.
type ConfigError struct {
	Source string // flag, environment variable or file the value came from
	Value  string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid configuration in %s: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Source, e.Cause)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// GO CONCEPT: Functions as Parameters
// ------------------------------------
// resolveConfig receives getenv instead of calling os.Getenv. main passes
// os.Getenv; tests pass a lookup into a map, so no test changes the real
// process environment.

// resolveConfig merges the command line, the environment (through
// getenv) and the config file into a Config.
func resolveConfig(args arguments, getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:      bwprotocol.DefaultPort,
		Timeout:   bwprotocol.ReadTimeout,
		NoPrefix:  args.noPrefix,
		NoCheck:   args.noCheck,
		Query:     args.forceQuery,
		InputFile: args.inputFile,
		Command:   args.command,
		Verbose:   args.verbose,
	}

	configPath := args.configFile
	if configPath == "" {
		configPath = bwprotocol.TrimLine(getenv(envConfig))
	}
	if configPath != "" {
		if err := applyConfigFile(&cfg, configPath); err != nil {
			return Config{}, err
		}
	}

	if v := bwprotocol.TrimLine(getenv(envHost)); v != "" {
		cfg.Host = v
	}
	if v := bwprotocol.TrimLine(getenv(envPort)); v != "" {
		port, err := parsePort(envPort, v)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if v := bwprotocol.TrimLine(getenv(envPrefix)); v != "" {
		cfg.Prefix = v
	}
	if v := bwprotocol.TrimLine(getenv(envTimeout)); v != "" {
		timeout, err := parseTimeout(envTimeout, v)
		if err != nil {
			return Config{}, err
		}
		cfg.Timeout = timeout
	}

	if args.host != "" {
		cfg.Host = args.host
	}
	if args.port != "" {
		port, err := parsePort("-port", args.port)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if args.prefixSet {
		cfg.Prefix = args.prefix
	}
	if args.timeout != "" {
		timeout, err := parseTimeout("-timeout", args.timeout)
		if err != nil {
			return Config{}, err
		}
		cfg.Timeout = timeout
	}

	return cfg, nil
}

// applyConfigFile overlays the settings found in a YAML file.
func applyConfigFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &ConfigError{Source: path, Cause: err}
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return &ConfigError{Source: path, Cause: err}
	}

	if fc.IP != "" {
		cfg.Host = fc.IP
	}
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	if fc.Prefix != "" {
		cfg.Prefix = fc.Prefix
	}
	if fc.NoCheck {
		cfg.NoCheck = true
	}
	if fc.Timeout != "" {
		timeout, err := parseTimeout(path+": timeout", fc.Timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = timeout
	}
	return nil
}

func parsePort(source, value string) (int, error) {
	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ConfigError{Source: source, Value: value, Cause: errors.New("not a number")}
	}
	return port, nil
}

// parseTimeout accepts Go durations ("10s", "500ms") or whole seconds.
func parseTimeout(source, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		secs, convErr := strconv.Atoi(value)
		if convErr != nil {
			return 0, &ConfigError{Source: source, Value: value, Cause: err}
		}
		d = time.Duration(secs) * time.Second
	}
	if d < 0 {
		return 0, &ConfigError{Source: source, Value: value, Cause: errors.New("must not be negative")}
	}
	return d, nil
}

// printSettings prints the resolved configuration for -v.
func printSettings(w io.Writer, cfg Config) {
	input := cfg.InputFile
	if input == "" {
		input = "stdin"
	}
	fmt.Fprintf(w, "IPAddress.......[%s]\n", cfg.Host)
	fmt.Fprintf(w, "Port............%d\n", cfg.Port)
	fmt.Fprintf(w, "NoCheck.........%t\n", cfg.NoCheck)
	fmt.Fprintf(w, "NoPrefix........%t\n", cfg.NoPrefix)
	fmt.Fprintf(w, "Query...........%t\n", cfg.Query)
	fmt.Fprintf(w, "Timeout.........%s\n", cfg.Timeout)
	fmt.Fprintf(w, "InputFileName...[%s]\n", input)
	fmt.Fprintf(w, "Prefix..........[%s]\n", cfg.Prefix)
	fmt.Fprintf(w, "XmitString......[%s]\n", cfg.Command)
}
