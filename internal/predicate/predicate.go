// Package predicate builds the comparison helpers used as non-strict
// patterns. Each helper closes over a bound and returns a value.Func whose
// source text names the operator and the bound, e.g. "gt(3)".
package predicate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacoelho/arraydb/internal/value"
)

var ErrUnsupported = errors.New("unsupported predicate operation")

type Operator string

const (
	OpLessThan           Operator = "lt"
	OpGreaterThan        Operator = "gt"
	OpLessThanOrEqual    Operator = "le"
	OpGreaterThanOrEqual Operator = "ge"
	OpEquals             Operator = "eq"
	OpNotEquals          Operator = "ne"
	OpAny                Operator = "any"
)

type compareFunc func(candidate, bound any) bool

var operations = map[Operator]compareFunc{
	OpLessThan: func(candidate, bound any) bool {
		cmp, ok := value.Compare(candidate, bound)
		return ok && cmp < 0
	},
	OpGreaterThan: func(candidate, bound any) bool {
		cmp, ok := value.Compare(candidate, bound)
		return ok && cmp > 0
	},
	OpLessThanOrEqual: func(candidate, bound any) bool {
		cmp, ok := value.Compare(candidate, bound)
		return ok && cmp <= 0
	},
	OpGreaterThanOrEqual: func(candidate, bound any) bool {
		cmp, ok := value.Compare(candidate, bound)
		return ok && cmp >= 0
	},
	OpEquals:    value.StrictEqual,
	OpNotEquals: func(candidate, bound any) bool { return !value.StrictEqual(candidate, bound) },
}

// Operators lists the supported operator names.
func Operators() []Operator {
	return []Operator{
		OpLessThan,
		OpGreaterThan,
		OpLessThanOrEqual,
		OpGreaterThanOrEqual,
		OpEquals,
		OpNotEquals,
		OpAny,
	}
}

func ParseOperator(input string) (Operator, error) {
	op := Operator(strings.ToLower(strings.TrimSpace(input)))
	if _, ok := operations[op]; ok || op == OpAny {
		return op, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, input)
}

// New returns the helper for op closed over bound. The bound is ignored for
// OpAny.
func New(op Operator, bound any) (value.Func, error) {
	if op == OpAny {
		return Any(), nil
	}

	compare, ok := operations[op]
	if !ok {
		return value.Func{}, fmt.Errorf("%w: %q", ErrUnsupported, op)
	}

	return value.NewFunc(source(op, bound), func(candidate any) bool {
		return compare(candidate, bound)
	}), nil
}

func must(op Operator, bound any) value.Func {
	fn, err := New(op, bound)
	if err != nil {
		panic(err)
	}
	return fn
}

// Lt matches candidates ordered before bound. Strings order
// lexicographically, anything else numerically; NaN never matches.
func Lt(bound any) value.Func { return must(OpLessThan, bound) }

// Gt matches candidates ordered after bound.
func Gt(bound any) value.Func { return must(OpGreaterThan, bound) }

// Le matches candidates not ordered after bound.
func Le(bound any) value.Func { return must(OpLessThanOrEqual, bound) }

// Ge matches candidates not ordered before bound.
func Ge(bound any) value.Func { return must(OpGreaterThanOrEqual, bound) }

// Eq matches candidates of the same type and value as bound, without
// coercion. Arrays and objects only equal themselves.
func Eq(bound any) value.Func { return must(OpEquals, bound) }

// Ne is the negation of Eq.
func Ne(bound any) value.Func { return must(OpNotEquals, bound) }

// Any matches everything.
func Any() value.Func {
	return value.NewFunc(string(OpAny)+"()", func(any) bool { return true })
}

func source(op Operator, bound any) string {
	text := value.ToString(bound)
	if value.Of(bound) == value.KindString {
		text = fmt.Sprintf("%q", text)
	}
	return string(op) + "(" + text + ")"
}
