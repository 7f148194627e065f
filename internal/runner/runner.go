// Package runner executes the configured query: load the data, select the
// collection, run the query and write the results, once or on every change
// in watch mode.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jacoelho/arraydb/internal/config"
	"github.com/jacoelho/arraydb/internal/document"
	"github.com/jacoelho/arraydb/internal/exit"
	"github.com/jacoelho/arraydb/internal/logging"
	"github.com/jacoelho/arraydb/internal/metrics"
	"github.com/jacoelho/arraydb/internal/output"
	"github.com/jacoelho/arraydb/internal/query"
	"github.com/jacoelho/arraydb/internal/watch"
)

type Runner struct {
	config    *config.Config
	logger    *slog.Logger
	metrics   *metrics.Collector
	runID     string
	input     io.Reader
	output    io.Writer
	errOutput io.Writer
}

func New(cfg *config.Config) (*Runner, *exit.Result) {
	logger, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: os.Stderr,
	})
	if err != nil {
		return nil, exit.Errorf("Error creating runner: %v\n", err)
	}

	return &Runner{
		config:    cfg,
		logger:    logger,
		metrics:   metrics.NewCollector(),
		runID:     uuid.NewString(),
		input:     os.Stdin,
		output:    os.Stdout,
		errOutput: os.Stderr,
	}, nil
}

func (r *Runner) SetInput(rd io.Reader) {
	r.input = rd
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

// SetErrorOutput redirects error messages and logs.
func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
	if logger, err := logging.New(logging.Config{
		Level:  r.config.LogLevel,
		Format: r.config.LogFormat,
		Writer: r.errorWriter(),
	}); err == nil {
		r.logger = logger
	}
}

// Metrics exposes the collector fed by every run.
func (r *Runner) Metrics() *metrics.Collector {
	return r.metrics
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errorWriter(), format, args...)
}

// Run executes the query and returns the process exit code. In watch mode
// it keeps re-running until ctx is done.
func (r *Runner) Run(ctx context.Context) int {
	logger := r.logger.With("run_id", r.runID)
	logger.Debug("starting", "data", r.config.DataFile, "query", r.config.QueryFile, "watch", r.config.Watch)

	selected, err := r.Once(ctx)

	if !r.config.Watch {
		if err != nil {
			r.logf("Error: %v\n", err)
			return exit.CodeError
		}
		if r.config.ExitStatus && selected == 0 {
			return exit.CodeNoMatch
		}
		return exit.CodeOK
	}

	if err != nil {
		logger.Error("run failed", "error", err)
	}
	return r.watch(ctx, logger)
}

func (r *Runner) watch(ctx context.Context, logger *slog.Logger) int {
	paths := []string{r.config.DataFile}
	if r.config.QueryFile != "" {
		paths = append(paths, r.config.QueryFile)
	}

	w, err := watch.New(watch.Config{Paths: paths, RatePerSecond: r.config.RateLimit}, logger)
	if err != nil {
		r.logf("Error: %v\n", err)
		return exit.CodeError
	}
	defer func() { _ = w.Close() }()

	err = w.Run(ctx, func(ctx context.Context) error {
		_, err := r.Once(ctx)
		return err
	})
	if err != nil {
		r.logf("Error: %v\n", err)
		return exit.CodeError
	}
	return exit.CodeOK
}

// Once runs the query a single time, writes the results and returns how
// many elements were selected.
func (r *Runner) Once(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	opts, err := r.loadQuery()
	if err != nil {
		return 0, err
	}

	items, err := r.loadCollection()
	if err != nil {
		return 0, err
	}

	collection := query.From(items)

	start := time.Now()
	selected, stats := collection.SelectWithStats(opts)
	elapsed := time.Since(start)

	r.metrics.RecordQuery(opts.Strict, opts.Reverse, stats.Scanned, len(selected), elapsed)
	r.logger.Debug("query complete",
		"run_id", r.runID,
		"elements", collection.Len(),
		"scanned", stats.Scanned,
		"matched", stats.Selected,
		"selected", len(selected),
		"duration", elapsed,
	)

	if err := output.Write(r.payloadWriter(), r.config.Format, selected); err != nil {
		return 0, fmt.Errorf("write results: %w", err)
	}

	if r.config.MetricsFile != "" {
		if err := r.metrics.WriteTextfile(r.config.MetricsFile); err != nil {
			return 0, err
		}
	}

	return len(selected), nil
}

func (r *Runner) loadQuery() (query.Options, error) {
	var base query.Options

	if r.config.QueryFile != "" {
		f, err := os.Open(r.config.QueryFile)
		if err != nil {
			return query.Options{}, fmt.Errorf("open query file: %w", err)
		}
		defer f.Close()

		base, err = document.LoadQuery(f)
		if err != nil {
			return query.Options{}, fmt.Errorf("query file %s: %w", r.config.QueryFile, err)
		}
	} else {
		pattern, err := document.ParsePattern(r.config.Pattern)
		if err != nil {
			return query.Options{}, err
		}
		base = query.NewOptions(pattern)
	}

	return r.config.QueryOptions(base), nil
}

func (r *Runner) loadCollection() ([]any, error) {
	var (
		doc any
		err error
	)

	if r.config.DataFile == config.Stdin {
		doc, err = document.Load(r.input)
	} else {
		var f *os.File
		f, err = os.Open(r.config.DataFile)
		if err != nil {
			return nil, fmt.Errorf("open data file: %w", err)
		}
		defer f.Close()
		doc, err = document.Load(f)
	}
	if err != nil {
		return nil, fmt.Errorf("data %s: %w", r.config.DataFile, err)
	}

	return document.Select(doc, r.config.From)
}
