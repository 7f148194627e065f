package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

var (
	ErrInvalidRegExp = errors.New("invalid regular expression")

	regexpType     = reflect.TypeOf((*regexp.Regexp)(nil))
	regExpType     = reflect.TypeOf((*RegExp)(nil))
	jsonNumberType = reflect.TypeOf(json.Number(""))
)

// Undefined is the value of an absent object member. It is distinct from
// nil, which is null.
type Undefined struct{}

func (Undefined) String() string {
	return "undefined"
}

// RegExp is a regular expression that remembers the source and flags it was
// written with, so two expressions with the same text compare equal.
type RegExp struct {
	Source string
	Flags  string

	re *regexp.Regexp
}

// NewRegExp compiles source with the given flags. Flags i, m and s change
// matching; d, g, u, v and y are accepted and only kept for the text form.
func NewRegExp(source, flags string) (*RegExp, error) {
	var inline strings.Builder
	seen := make(map[rune]bool, len(flags))
	for _, flag := range flags {
		if seen[flag] {
			return nil, fmt.Errorf("%w: duplicate flag %q in /%s/%s", ErrInvalidRegExp, flag, source, flags)
		}
		seen[flag] = true

		switch flag {
		case 'i', 'm', 's':
			inline.WriteRune(flag)
		case 'd', 'g', 'u', 'v', 'y':
		default:
			return nil, fmt.Errorf("%w: unknown flag %q in /%s/%s", ErrInvalidRegExp, flag, source, flags)
		}
	}

	expr := source
	if inline.Len() > 0 {
		expr = "(?" + inline.String() + ")" + source
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: /%s/%s: %v", ErrInvalidRegExp, source, flags, err)
	}

	return &RegExp{Source: source, Flags: flags, re: re}, nil
}

// MustRegExp is like NewRegExp but panics on error.
func MustRegExp(source, flags string) *RegExp {
	re, err := NewRegExp(source, flags)
	if err != nil {
		panic(err)
	}
	return re
}

// ParseRegExp accepts the literal form "/source/flags". Text without the
// enclosing slashes is taken as a source with no flags.
func ParseRegExp(literal string) (*RegExp, error) {
	if len(literal) >= 2 && literal[0] == '/' {
		if end := strings.LastIndexByte(literal, '/'); end > 0 {
			return NewRegExp(literal[1:end], literal[end+1:])
		}
	}
	return NewRegExp(literal, "")
}

// Test reports whether the expression matches anywhere in s.
func (r *RegExp) Test(s string) bool {
	re := r.re
	if re == nil {
		compiled, err := NewRegExp(r.Source, r.Flags)
		if err != nil {
			return false
		}
		re = compiled.re
	}
	return re.MatchString(s)
}

func (r *RegExp) String() string {
	source := r.Source
	if source == "" {
		source = "(?:)"
	}
	return "/" + source + "/" + r.Flags
}

func (r *RegExp) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RegExp) MarshalYAML() (any, error) {
	return r.String(), nil
}

// Func is a one-argument predicate together with its source text. Strict
// matching compares Source, non-strict matching calls Fn.
type Func struct {
	Source string
	Fn     func(any) bool
}

// NewFunc wraps fn under the given source text.
func NewFunc(source string, fn func(any) bool) Func {
	return Func{Source: source, Fn: fn}
}

// Call applies the predicate. A Func without Fn never matches.
func (f Func) Call(v any) bool {
	if f.Fn == nil {
		return false
	}
	return f.Fn(v)
}

func (f Func) String() string {
	return f.Source
}

func (f Func) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Source)
}

func (f Func) MarshalYAML() (any, error) {
	return f.Source, nil
}

// MatchString tests a regexp-kind value against s.
func MatchString(re any, s string) bool {
	rv := indirect(reflect.ValueOf(re))
	if rv.IsValid() && rv.CanAddr() {
		re = rv.Addr().Interface()
	}

	switch current := re.(type) {
	case *RegExp:
		return current.Test(s)
	case *regexp.Regexp:
		return current.MatchString(s)
	}
	return false
}
