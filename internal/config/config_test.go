package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jacoelho/arraydb/internal/exit"
	"github.com/jacoelho/arraydb/internal/output"
	"github.com/jacoelho/arraydb/internal/query"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := writeFile(t, dir, "data.yaml", "- 1\n")
	queryFile := writeFile(t, dir, "query.yaml", "query: 1\n")

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			args: []string{"arraydb", "-data", data, "-pattern", "1"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Limit != -1 || cfg.Offset != 0 || !cfg.Strict || cfg.Reverse {
					t.Fatalf("Parse() query flags = %+v, want defaults", cfg)
				}
				if cfg.Format != output.FormatJSON {
					t.Fatalf("Parse() Format = %v, want json", cfg.Format)
				}
				if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
					t.Fatalf("Parse() logging = %s/%s, want info/text", cfg.LogLevel, cfg.LogFormat)
				}
				if cfg.IsSet("limit") {
					t.Fatalf("IsSet(limit) = true, want false")
				}
			},
		},
		{
			name: "all_flags",
			args: []string{
				"arraydb", "-data", data, "-from", "$.items", "-query", queryFile,
				"-limit", "5", "-offset", "2", "-strict=false", "-reverse",
				"-format", "yaml", "-exit-status", "-watch", "-rate-limit", "2.5",
				"-metrics", "out.prom", "-log-level", "debug", "-log-format", "json",
			},
			check: func(t *testing.T, cfg *Config) {
				want := Config{
					DataFile: data, From: "$.items", QueryFile: queryFile,
					Limit: 5, Offset: 2, Strict: false, Reverse: true,
					Format: output.FormatYAML, ExitStatus: true, Watch: true, RateLimit: 2.5,
					MetricsFile: "out.prom", LogLevel: "debug", LogFormat: "json",
				}
				got := *cfg
				got.set = nil
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("Parse() = %+v, want %+v", got, want)
				}
			},
		},
		{
			name: "stdin",
			args: []string{"arraydb", "-data", "-", "-pattern", "{a: 1}"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.DataFile != Stdin || cfg.Pattern != "{a: 1}" {
					t.Fatalf("Parse() = %+v, want stdin data and inline pattern", cfg)
				}
			},
		},
		{
			name: "empty_pattern_is_a_pattern",
			args: []string{"arraydb", "-data", data, "-pattern", ""},
			check: func(t *testing.T, cfg *Config) {
				if !cfg.IsSet("pattern") {
					t.Fatalf("IsSet(pattern) = false, want true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, result := Parse(tt.args)
			if result != nil {
				t.Fatalf("Parse() result = %q, want nil", result.Message)
			}
			tt.check(t, cfg)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := writeFile(t, dir, "data.yaml", "- 1\n")
	queryFile := writeFile(t, dir, "query.yaml", "query: 1\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no_arguments", args: nil, want: ErrNoArguments.Error()},
		{name: "no_data", args: []string{"arraydb", "-pattern", "1"}, want: ErrNoDataFile.Error()},
		{name: "no_query", args: []string{"arraydb", "-data", data}, want: ErrNoQuery.Error()},
		{
			name: "conflicting_query",
			args: []string{"arraydb", "-data", data, "-query", queryFile, "-pattern", "1"},
			want: ErrConflictingQuery.Error(),
		},
		{
			name: "watch_stdin",
			args: []string{"arraydb", "-data", "-", "-pattern", "1", "-watch"},
			want: ErrWatchStdin.Error(),
		},
		{
			name: "missing_data_file",
			args: []string{"arraydb", "-data", filepath.Join(dir, "missing.yaml"), "-pattern", "1"},
			want: "data file",
		},
		{
			name: "missing_query_file",
			args: []string{"arraydb", "-data", data, "-query", filepath.Join(dir, "missing.yaml")},
			want: "query file",
		},
		{name: "bad_format", args: []string{"arraydb", "-data", data, "-pattern", "1", "-format", "xml"}, want: "invalid output format"},
		{name: "bad_flag", args: []string{"arraydb", "-bogus"}, want: "failed to parse arguments"},
		{name: "positional", args: []string{"arraydb", "-data", data, "-pattern", "1", "extra"}, want: ErrUnexpectedArgs.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, result := Parse(tt.args)
			if cfg != nil {
				t.Fatalf("Parse() config = %+v, want nil", cfg)
			}
			if result == nil {
				t.Fatalf("Parse() result = nil, want error")
			}
			if result.ExitCode != exit.CodeError {
				t.Fatalf("Parse() ExitCode = %d, want %d", result.ExitCode, exit.CodeError)
			}
			if !strings.Contains(result.Message, tt.want) {
				t.Fatalf("Parse() Message = %q, want it to contain %q", result.Message, tt.want)
			}
		})
	}
}

func TestParseHelp(t *testing.T) {
	t.Parallel()

	cfg, result := Parse([]string{"arraydb", "-h"})
	if cfg != nil || result == nil {
		t.Fatalf("Parse(-h) = %v, %v, want nil config and a result", cfg, result)
	}
	if result.ExitCode != exit.CodeOK || result.Message != Usage() {
		t.Fatalf("Parse(-h) = %d %q, want usage with code 0", result.ExitCode, result.Message)
	}
}

func TestQueryOptions(t *testing.T) {
	t.Parallel()

	base := query.Options{Pattern: 1, HasPattern: true, Limit: 4, Offset: 1, Strict: false, Reverse: true}

	tests := []struct {
		name string
		cfg  Config
		want query.Options
	}{
		{
			name: "nothing_set",
			cfg:  Config{Limit: -1, Strict: true},
			want: base,
		},
		{
			name: "limit_and_strict",
			cfg:  Config{Limit: 2, Strict: true, set: map[string]bool{"limit": true, "strict": true}},
			want: query.Options{Pattern: 1, HasPattern: true, Limit: 2, Offset: 1, Strict: true, Reverse: true},
		},
		{
			name: "negative_limit_is_unlimited",
			cfg:  Config{Limit: -1, set: map[string]bool{"limit": true}},
			want: query.Options{Pattern: 1, HasPattern: true, Limit: query.NoLimit, Offset: 1, Reverse: true},
		},
		{
			name: "offset_and_reverse",
			cfg:  Config{Offset: -3, Reverse: false, set: map[string]bool{"offset": true, "reverse": true}},
			want: query.Options{Pattern: 1, HasPattern: true, Limit: 4, Offset: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.cfg.QueryOptions(base); got != tt.want {
				t.Fatalf("QueryOptions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateUnwraps(t *testing.T) {
	t.Parallel()

	cfg := &Config{DataFile: "-", set: map[string]bool{}}
	if err := cfg.Validate(); !errors.Is(err, ErrNoQuery) {
		t.Fatalf("Validate() error = %v, want %v", err, ErrNoQuery)
	}
}
