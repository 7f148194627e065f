package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/arraydb/internal/exit"
	"github.com/jacoelho/arraydb/internal/output"
	"github.com/jacoelho/arraydb/internal/query"
)

// Stdin is the -data value that reads the collection from standard input.
const Stdin = "-"

var (
	ErrNoArguments      = errors.New("no arguments provided")
	ErrNoDataFile       = errors.New("no data file specified")
	ErrNoQuery          = errors.New("one of -query or -pattern is required")
	ErrConflictingQuery = errors.New("-query and -pattern cannot be used together")
	ErrWatchStdin       = errors.New("-watch cannot be used when reading data from stdin")
	ErrUnexpectedArgs   = errors.New("unexpected positional arguments")
)

// Config represents the complete configuration for the arraydb tool.
type Config struct {
	// Input
	DataFile  string
	From      string // JSONPath selecting the collection inside the data document
	QueryFile string
	Pattern   string

	// Query options; only flags given on the command line override a query file.
	Limit   int // negative means no limit
	Offset  int
	Strict  bool
	Reverse bool

	// Output
	Format     output.Format
	ExitStatus bool

	// Watch mode
	Watch     bool
	RateLimit float64 // re-runs per second (0 = unlimited)

	// Telemetry
	MetricsFile string
	LogLevel    string
	LogFormat   string

	set map[string]bool
}

// IsSet reports whether the named flag was given on the command line.
func (c *Config) IsSet(name string) bool {
	return c.set[name]
}

// QueryOptions layers the command-line query flags over base. Flags that
// were not given keep base's values.
func (c *Config) QueryOptions(base query.Options) query.Options {
	o := base
	if c.IsSet("limit") {
		o.Limit = c.Limit
		if c.Limit < 0 {
			o.Limit = query.NoLimit
		}
	}
	if c.IsSet("offset") {
		o.Offset = max(c.Offset, 0)
	}
	if c.IsSet("strict") {
		o.Strict = c.Strict
	}
	if c.IsSet("reverse") {
		o.Reverse = c.Reverse
	}
	return o
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return ErrNoDataFile
	}
	if c.QueryFile != "" && c.IsSet("pattern") {
		return ErrConflictingQuery
	}
	if c.QueryFile == "" && !c.IsSet("pattern") {
		return ErrNoQuery
	}
	if c.Watch && c.DataFile == Stdin {
		return ErrWatchStdin
	}

	if c.DataFile != Stdin {
		if _, err := os.Stat(c.DataFile); err != nil {
			return fmt.Errorf("data file %s not found: %w", c.DataFile, err)
		}
	}
	if c.QueryFile != "" {
		if _, err := os.Stat(c.QueryFile); err != nil {
			return fmt.Errorf("query file %s not found: %w", c.QueryFile, err)
		}
	}

	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		dataFile    = fs.String("data", "", "Data file holding the collection (- for stdin)")
		from        = fs.String("from", "", "JSONPath selecting the collection inside the data")
		queryFile   = fs.String("query", "", "Query file with query, limit, offset, strict and reverse")
		pattern     = fs.String("pattern", "", "Inline YAML pattern")
		limit       = fs.Int("limit", -1, "Maximum number of results (negative for no limit)")
		offset      = fs.Int("offset", 0, "Number of selected elements to skip")
		strict      = fs.Bool("strict", true, "Match without type coercion")
		reverse     = fs.Bool("reverse", false, "Select elements that do not match")
		format      = fs.String("format", "json", "Output format: json, lines or yaml")
		exitStatus  = fs.Bool("exit-status", false, "Exit with status 3 when nothing is selected")
		watch       = fs.Bool("watch", false, "Re-run when the data or query file changes")
		rateLimit   = fs.Float64("rate-limit", 0, "Maximum re-runs per second in watch mode (0 for unlimited)")
		metricsFile = fs.String("metrics", "", "Write Prometheus metrics to this file")
		logLevel    = fs.String("log-level", "info", "Log level: debug, info, warn or error")
		logFormat   = fs.String("log-format", "text", "Log format: text or json")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	if fs.NArg() > 0 {
		return nil, exit.Errorf("Error: %v: %v\n\n%s", ErrUnexpectedArgs, fs.Args(), Usage())
	}

	outputFormat, err := output.ParseFormat(*format)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	config := &Config{
		DataFile:    *dataFile,
		From:        *from,
		QueryFile:   *queryFile,
		Pattern:     *pattern,
		Limit:       *limit,
		Offset:      *offset,
		Strict:      *strict,
		Reverse:     *reverse,
		Format:      outputFormat,
		ExitStatus:  *exitStatus,
		Watch:       *watch,
		RateLimit:   *rateLimit,
		MetricsFile: *metricsFile,
		LogLevel:    *logLevel,
		LogFormat:   *logFormat,
		set:         set,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `arraydb - structural pattern queries over YAML and JSON collections

Usage: arraydb -data FILE (-pattern YAML | -query FILE) [options]

Options:
  -data FILE            Data file holding the collection (- for stdin)
  -from JSONPATH        Select the collection inside the data (default: the root)
  -pattern YAML         Inline pattern, e.g. '{age: !gt 30}'
  -query FILE           Query file with query, limit, offset, strict and reverse keys
  -limit N              Maximum number of results (negative for no limit)
  -offset N             Number of selected elements to skip
  -strict               Match without type coercion (default: true)
  -reverse              Select elements that do not match
  -format FORMAT        Output format: json, lines or yaml (default: json)
  -exit-status          Exit with status 3 when nothing is selected
  -watch                Re-run when the data or query file changes
  -rate-limit N         Maximum re-runs per second in watch mode (0 for unlimited)
  -metrics FILE         Write Prometheus metrics to FILE after each run
  -log-level LEVEL      debug, info, warn or error (default: info)
  -log-format FORMAT    text or json (default: text)
  -h, -help             Show this help message

Pattern tags:
  !gt 3  !lt 3  !ge 3  !le 3  !eq 3  !ne 3   comparison helpers
  !any                                      matches everything
  !re /^a/i                                 regular expression
  !undefined  !nan                          undefined and NaN

Examples:
  arraydb -data people.yaml -from '$.people[*]' -pattern '{age: !gt 30}'
  arraydb -data items.json -pattern 1 -strict=false -limit 2
  arraydb -data items.json -query active.yaml -format lines -watch`
}
