// Package value classifies arbitrary Go values into the closed set of kinds
// the matcher dispatches on, and implements the coercions between them.
package value

import (
	"math"
	"reflect"
	"regexp"

	"github.com/jacoelho/arraydb/internal/number"
)

// Kind is the canonical category of a value.
type Kind uint8

const (
	KindNull Kind = iota
	KindUndefined
	KindBoolean
	KindNumber
	KindNaN
	KindString
	KindRegExp
	KindFunction
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:      "null",
	KindUndefined: "undefined",
	KindBoolean:   "boolean",
	KindNumber:    "number",
	KindNaN:       "nan",
	KindString:    "string",
	KindRegExp:    "regexp",
	KindFunction:  "function",
	KindArray:     "array",
	KindObject:    "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Of returns the kind of v. It never fails: anything that is not recognised
// as one of the scalar or sequence kinds is an object.
//
// Pointers are followed, so *int classifies as a number and a nil pointer as
// null. Named types classify by their underlying kind. Nil slices and maps
// are empty arrays and objects.
func Of(v any) Kind {
	switch current := v.(type) {
	case nil:
		return KindNull
	case Undefined:
		return KindUndefined
	case []any:
		return KindArray
	case *RegExp:
		if current == nil {
			return KindNull
		}
		return KindRegExp
	case *regexp.Regexp:
		if current == nil {
			return KindNull
		}
		return KindRegExp
	case Func:
		return KindFunction
	case bool:
		return KindBoolean
	case float64:
		return numberKind(current)
	case int, int64:
		return KindNumber
	case string:
		return KindString
	case map[string]any:
		return KindObject
	}

	return reflectKind(reflect.ValueOf(v))
}

func reflectKind(rv reflect.Value) Kind {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return KindNull
		}
		if rv.Type() == regexpType || rv.Type() == regExpType {
			return KindRegExp
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Func:
		if rv.IsNil() {
			return KindNull
		}
		return KindFunction
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindNumber
	case reflect.Float32, reflect.Float64:
		return numberKind(rv.Float())
	case reflect.String:
		if rv.Type() == jsonNumberType {
			return numberKind(number.Parse(rv.String()))
		}
		return KindString
	default:
		return KindObject
	}
}

func numberKind(f float64) Kind {
	if math.IsNaN(f) {
		return KindNaN
	}
	return KindNumber
}
