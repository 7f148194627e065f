package query

import (
	"math"

	"github.com/jacoelho/arraydb/internal/value"
)

// NoLimit is the default limit: every selected element is returned.
const NoLimit = math.MaxInt

// Options configures a query. HasPattern distinguishes "no pattern was
// given" (the query selects nothing) from a nil pattern, which matches null.
type Options struct {
	Pattern    any
	HasPattern bool
	Limit      int
	Offset     int
	Strict     bool
	Reverse    bool
}

// Option adjusts Options built by NewOptions.
type Option func(*Options)

// WithLimit keeps at most n selected elements. Negative values keep none.
func WithLimit(n int) Option {
	return func(o *Options) {
		o.Limit = n
	}
}

// WithOffset skips the first n selected elements.
func WithOffset(n int) Option {
	return func(o *Options) {
		o.Offset = n
	}
}

// WithStrict switches between strict (the default) and non-strict matching.
func WithStrict(strict bool) Option {
	return func(o *Options) {
		o.Strict = strict
	}
}

// WithReverse selects the elements that do not match.
func WithReverse(reverse bool) Option {
	return func(o *Options) {
		o.Reverse = reverse
	}
}

// NewOptions returns options for pattern with the defaults applied: strict
// matching, no inversion, no offset and no limit.
func NewOptions(pattern any, opts ...Option) Options {
	o := Options{
		Pattern:    pattern,
		HasPattern: true,
		Limit:      NoLimit,
		Strict:     true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FromConfig reads options from a configuration value with a "query" (or
// "pattern") member and optional "limit", "offset", "strict" and "reverse"
// members. It never fails: a missing pattern yields options that select
// nothing, a non-numeric limit means no limit and a non-numeric offset
// means zero. Strict defaults to true, reverse to false; present values
// count by truthiness.
func FromConfig(cfg map[string]any) Options {
	o := Options{
		Limit:  NoLimit,
		Strict: true,
	}

	if pattern, ok := cfg["query"]; ok {
		o.Pattern, o.HasPattern = pattern, true
	} else if pattern, ok := cfg["pattern"]; ok {
		o.Pattern, o.HasPattern = pattern, true
	}

	if limit, ok := cfg["limit"]; ok {
		o.Limit = toCount(value.ToNumber(limit), NoLimit)
	}
	if offset, ok := cfg["offset"]; ok {
		o.Offset = toCount(value.ToNumber(offset), 0)
	}
	if strict, ok := cfg["strict"]; ok {
		o.Strict = value.Truthy(strict)
	}
	if reverse, ok := cfg["reverse"]; ok {
		o.Reverse = value.Truthy(reverse)
	}

	return o
}

// toCount truncates f toward zero. NaN maps to fallback, +Inf to NoLimit
// and anything below zero to zero.
func toCount(f float64, fallback int) int {
	switch {
	case math.IsNaN(f):
		return fallback
	case f <= 0:
		return 0
	case f >= math.MaxInt:
		return NoLimit
	default:
		return int(math.Trunc(f))
	}
}
