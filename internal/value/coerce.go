package value

import (
	"math"
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"unicode/utf16"

	"github.com/jacoelho/arraydb/internal/number"
)

// Number returns the float64 held by a number- or nan-kind value.
func Number(v any) float64 {
	if f, ok := number.ToFloat64(v); ok {
		return f
	}
	return math.NaN()
}

// Bool returns the bool held by a boolean-kind value.
func Bool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	rv := indirect(reflect.ValueOf(v))
	return rv.Kind() == reflect.Bool && rv.Bool()
}

// Truthy reports whether v counts as true: everything except null,
// undefined, false, zero, NaN and the empty string.
func Truthy(v any) bool {
	switch Of(v) {
	case KindNull, KindUndefined, KindNaN:
		return false
	case KindBoolean:
		return Bool(v)
	case KindNumber:
		return Number(v) != 0
	case KindString:
		return ToString(v) != ""
	default:
		return true
	}
}

// ToNumber coerces v to a number. Composite values go through their string
// form, so [2] is 2, [] is 0 and {} is NaN.
func ToNumber(v any) float64 {
	switch Of(v) {
	case KindNull:
		return 0
	case KindUndefined, KindNaN:
		return math.NaN()
	case KindBoolean:
		if Bool(v) {
			return 1
		}
		return 0
	case KindNumber:
		return Number(v)
	default:
		return number.Parse(ToString(v))
	}
}

// ToString renders v as text. Arrays join their elements with commas
// (null and undefined elements are empty), objects are "[object Object]",
// regular expressions and functions use their source text.
func ToString(v any) string {
	switch Of(v) {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBoolean:
		if Bool(v) {
			return "true"
		}
		return "false"
	case KindNumber, KindNaN:
		return number.Format(Number(v))
	case KindString:
		if s, ok := v.(string); ok {
			return s
		}
		return indirect(reflect.ValueOf(v)).String()
	case KindRegExp:
		return regexpText(v)
	case KindFunction:
		return Source(v)
	case KindArray:
		items := Elements(v)
		parts := make([]string, len(items))
		for i, item := range items {
			switch Of(item) {
			case KindNull, KindUndefined:
			default:
				parts[i] = ToString(item)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

func regexpText(v any) string {
	rv := indirect(reflect.ValueOf(v))
	if rv.IsValid() && rv.CanAddr() {
		v = rv.Addr().Interface()
	}

	switch re := v.(type) {
	case *RegExp:
		return re.String()
	case *regexp.Regexp:
		return "/" + re.String() + "/"
	}
	return ""
}

// Source returns the source text of a function-kind value. Plain Go
// functions have no source, so their runtime name stands in for it.
func Source(v any) string {
	if fn, ok := v.(Func); ok {
		return fn.Source
	}

	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(rv.Pointer()); f != nil {
		return "func " + f.Name()
	}
	return "func"
}

// Call invokes a function-kind value as a one-argument predicate and reports
// whether it returned a truthy value. Functions that cannot accept v, or
// that do not take exactly one argument, never match.
func Call(fn any, v any) bool {
	switch current := fn.(type) {
	case Func:
		return current.Call(v)
	case func(any) bool:
		return current(v)
	case func(any) any:
		return Truthy(current(v))
	}

	rv := indirect(reflect.ValueOf(fn))
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return false
	}

	fnType := rv.Type()
	if fnType.NumIn() != 1 || fnType.IsVariadic() {
		return false
	}

	arg, ok := argument(fnType.In(0), v)
	if !ok {
		return false
	}

	out := rv.Call([]reflect.Value{arg})
	if len(out) == 0 {
		return false
	}
	return Truthy(out[0].Interface())
}

func argument(want reflect.Type, v any) (reflect.Value, bool) {
	if v == nil {
		switch want.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(want), true
		}
		return reflect.Value{}, false
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(want) {
		return rv, true
	}
	if Of(v) == KindNumber && isNumericKind(want.Kind()) {
		return exactNumber(want, Number(v))
	}
	return reflect.Value{}, false
}

// exactNumber converts f to a value of numeric type want only when no
// truncation, wrapping or overflow happens.
func exactNumber(want reflect.Type, f float64) (reflect.Value, bool) {
	out := reflect.New(want).Elem()

	switch want.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f != math.Trunc(f) || f < math.MinInt64 || f >= -math.MinInt64 {
			return reflect.Value{}, false
		}
		i := int64(f)
		if out.OverflowInt(i) {
			return reflect.Value{}, false
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return reflect.Value{}, false
		}
		u := uint64(f)
		if out.OverflowUint(u) {
			return reflect.Value{}, false
		}
		out.SetUint(u)
	default:
		if out.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	}

	return out, true
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// category groups kinds the way equality sees them: number and nan are one
// type, and every composite kind is a reference.
type category uint8

const (
	categoryNull category = iota
	categoryUndefined
	categoryBoolean
	categoryNumber
	categoryString
	categoryReference
)

func categoryOf(k Kind) category {
	switch k {
	case KindNull:
		return categoryNull
	case KindUndefined:
		return categoryUndefined
	case KindBoolean:
		return categoryBoolean
	case KindNumber, KindNaN:
		return categoryNumber
	case KindString:
		return categoryString
	default:
		return categoryReference
	}
}

// StrictEqual compares without coercion: both sides must have the same
// type, NaN equals nothing and composite values are equal only when they
// are the same reference.
func StrictEqual(a, b any) bool {
	ca, cb := categoryOf(Of(a)), categoryOf(Of(b))
	if ca != cb {
		return false
	}

	switch ca {
	case categoryNull, categoryUndefined:
		return true
	case categoryBoolean:
		return Bool(a) == Bool(b)
	case categoryNumber:
		return Number(a) == Number(b)
	case categoryString:
		return ToString(a) == ToString(b)
	default:
		return Identical(a, b)
	}
}

// LooseEqual compares with type coercion: null and undefined equal each
// other only, booleans become numbers, numbers and strings compare
// numerically and composite values are first reduced to their string form.
func LooseEqual(a, b any) bool {
	ka, kb := Of(a), Of(b)
	ca, cb := categoryOf(ka), categoryOf(kb)
	if ca == cb {
		return StrictEqual(a, b)
	}

	switch {
	case isNullish(ca) || isNullish(cb):
		return isNullish(ca) && isNullish(cb)
	case ca == categoryBoolean:
		return LooseEqual(ToNumber(a), b)
	case cb == categoryBoolean:
		return LooseEqual(a, ToNumber(b))
	case ca == categoryNumber && cb == categoryString:
		return Number(a) == number.Parse(ToString(b))
	case ca == categoryString && cb == categoryNumber:
		return number.Parse(ToString(a)) == Number(b)
	case ca == categoryReference:
		return LooseEqual(ToString(a), b)
	case cb == categoryReference:
		return LooseEqual(a, ToString(b))
	}

	return false
}

func isNullish(c category) bool {
	return c == categoryNull || c == categoryUndefined
}

// Identical reports whether a and b are the same reference. Scalars are
// identical when they are equal.
func Identical(a, b any) bool {
	if fa, ok := a.(Func); ok {
		fb, ok := b.(Func)
		return ok && fa.Source == fb.Source && sameFunc(fa.Fn, fb.Fn)
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !ra.IsValid() || !rb.IsValid() {
		return !ra.IsValid() && !rb.IsValid()
	}
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Struct, reflect.Array, reflect.Interface:
		return false
	}

	return a == b
}

func sameFunc(a, b func(any) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Compare orders a and b the way relational operators do: two strings
// compare by UTF-16 code units, anything else numerically. ok is false when
// the values are unordered (a NaN is involved).
func Compare(a, b any) (cmp int, ok bool) {
	pa, pb := primitive(a), primitive(b)
	if Of(pa) == KindString && Of(pb) == KindString {
		return compareUTF16(ToString(pa), ToString(pb)), true
	}

	na, nb := ToNumber(pa), ToNumber(pb)
	switch {
	case math.IsNaN(na) || math.IsNaN(nb):
		return 0, false
	case na < nb:
		return -1, true
	case na > nb:
		return 1, true
	default:
		return 0, true
	}
}

func primitive(v any) any {
	if categoryOf(Of(v)) == categoryReference {
		return ToString(v)
	}
	return v
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < len(a16) && i < len(b16); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
