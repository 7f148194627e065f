// Package match decides whether a candidate value satisfies a structural
// pattern.
//
// In strict mode candidate and pattern must have the same kind and are then
// compared by a per-kind rule. In non-strict mode the pattern's kind alone
// selects the rule: scalars compare with coercion, functions act as
// predicates, regular expressions test strings, and arrays and objects
// recurse.
package match

import (
	"math"

	"github.com/jacoelho/arraydb/internal/value"
)

// Matches reports whether candidate satisfies pattern. It never fails;
// unmatched kinds simply yield false. Object patterns match when every
// pattern member is present in the candidate and matches; extra candidate
// members are ignored.
func Matches(candidate, pattern any, strict bool) bool {
	if strict {
		return matchStrict(candidate, pattern)
	}
	return matchLoose(candidate, pattern)
}

// Predicate binds pattern and mode into a single-argument filter.
func Predicate(pattern any, strict bool) func(any) bool {
	return func(candidate any) bool {
		return Matches(candidate, pattern, strict)
	}
}

func matchStrict(candidate, pattern any) bool {
	kind := value.Of(candidate)
	if kind != value.Of(pattern) {
		return false
	}

	switch kind {
	case value.KindNull, value.KindUndefined, value.KindNaN:
		return true
	case value.KindBoolean:
		return value.Bool(candidate) == value.Bool(pattern)
	case value.KindNumber, value.KindString, value.KindRegExp, value.KindFunction:
		return value.ToString(candidate) == value.ToString(pattern)
	case value.KindArray:
		return matchArrays(candidate, pattern, true)
	case value.KindObject:
		return matchObjects(candidate, pattern, true)
	default:
		return false
	}
}

func matchLoose(candidate, pattern any) bool {
	switch kind := value.Of(pattern); kind {
	case value.KindBoolean, value.KindNumber, value.KindString:
		return value.LooseEqual(pattern, candidate)
	case value.KindFunction:
		return value.Call(pattern, candidate)
	case value.KindNaN:
		return math.IsNaN(value.ToNumber(candidate))
	case value.KindNull, value.KindUndefined:
		return value.Of(candidate) == kind
	case value.KindObject:
		return value.Of(candidate) == value.KindObject && matchObjects(candidate, pattern, false)
	case value.KindRegExp:
		return value.Of(candidate) == value.KindString && value.MatchString(pattern, value.ToString(candidate))
	case value.KindArray:
		return value.Of(candidate) == value.KindArray && matchArrays(candidate, pattern, false)
	default:
		return false
	}
}

// matchArrays compares element-wise. Strict mode requires equal lengths;
// non-strict mode only looks at the pattern's positions, so a longer
// candidate matches a shorter pattern it starts with.
func matchArrays(candidate, pattern any, strict bool) bool {
	items := value.Elements(candidate)
	expected := value.Elements(pattern)

	if strict && len(items) != len(expected) {
		return false
	}
	if len(items) < len(expected) {
		return false
	}

	for i, want := range expected {
		if !Matches(items[i], want, strict) {
			return false
		}
	}
	return true
}

func matchObjects(candidate, pattern any, strict bool) bool {
	for key, want := range value.Members(pattern) {
		got, ok := value.Field(candidate, key)
		if !ok {
			return false
		}
		if !Matches(got, want, strict) {
			return false
		}
	}
	return true
}
