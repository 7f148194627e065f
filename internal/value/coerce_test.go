package value

import (
	"math"
	"strings"
	"testing"
)

func TestTruthy(t *testing.T) {
	t.Parallel()

	falsy := []any{nil, Undefined{}, false, 0, 0.0, math.NaN(), ""}
	for _, v := range falsy {
		if Truthy(v) {
			t.Fatalf("Truthy(%#v) = true, want false", v)
		}
	}

	truthy := []any{true, 1, -0.5, "0", "false", []any{}, map[string]any{}, MustRegExp("a", "")}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Fatalf("Truthy(%#v) = false, want true", v)
		}
	}
}

func TestToNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "null", input: nil, want: 0},
		{name: "true", input: true, want: 1},
		{name: "false", input: false, want: 0},
		{name: "int", input: 7, want: 7},
		{name: "numeric_string", input: " 42 ", want: 42},
		{name: "empty_string", input: "", want: 0},
		{name: "empty_array", input: []any{}, want: 0},
		{name: "single_array", input: []any{2}, want: 2},
		{name: "nested_array", input: []any{[]any{"3"}}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ToNumber(tt.input); got != tt.want {
				t.Fatalf("ToNumber(%#v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	for _, v := range []any{Undefined{}, "foo", []any{"a"}, []any{1, 2}, map[string]any{}, math.NaN()} {
		if got := ToNumber(v); !math.IsNaN(got) {
			t.Fatalf("ToNumber(%#v) = %v, want NaN", v, got)
		}
	}
}

func TestToString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "null", input: nil, want: "null"},
		{name: "undefined", input: Undefined{}, want: "undefined"},
		{name: "bool", input: true, want: "true"},
		{name: "number", input: 0.1, want: "0.1"},
		{name: "infinity", input: math.Inf(-1), want: "-Infinity"},
		{name: "nan", input: math.NaN(), want: "NaN"},
		{name: "array", input: []any{1, nil, "a", []any{2, 3}, Undefined{}}, want: "1,,a,2,3,"},
		{name: "object", input: map[string]any{"a": 1}, want: "[object Object]"},
		{name: "regexp", input: MustRegExp("foo*bar", "g"), want: "/foo*bar/g"},
		{name: "func", input: NewFunc("gt(2)", nil), want: "gt(2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ToString(tt.input); got != tt.want {
				t.Fatalf("ToString(%#v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSourceOfGoFunc(t *testing.T) {
	t.Parallel()

	got := Source(strings.ToUpper)
	if got != "func strings.ToUpper" {
		t.Fatalf("Source(strings.ToUpper) = %q", got)
	}
}

func TestLooseEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    any
		b    any
		want bool
	}{
		{name: "number_string", a: 2, b: "2", want: true},
		{name: "true_one", a: true, b: 1, want: true},
		{name: "true_two", a: true, b: 2, want: false},
		{name: "false_empty", a: false, b: "", want: true},
		{name: "false_zero_string", a: false, b: "0", want: true},
		{name: "true_word", a: true, b: "foo", want: false},
		{name: "null_undefined", a: nil, b: Undefined{}, want: true},
		{name: "null_zero", a: nil, b: 0, want: false},
		{name: "null_false", a: nil, b: false, want: false},
		{name: "array_number", a: []any{2}, b: 2, want: true},
		{name: "array_string", a: []any{1, 2}, b: "1,2", want: true},
		{name: "object_string", a: map[string]any{}, b: "[object Object]", want: true},
		{name: "nan_nan", a: math.NaN(), b: math.NaN(), want: false},
		{name: "int_float", a: int64(3), b: 3.0, want: true},
		{name: "string_case", a: "FOO", b: "foo", want: false},
		{name: "distinct_arrays", a: []any{1}, b: []any{1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := LooseEqual(tt.a, tt.b); got != tt.want {
				t.Fatalf("LooseEqual(%#v, %#v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := LooseEqual(tt.b, tt.a); got != tt.want {
				t.Fatalf("LooseEqual(%#v, %#v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestStrictEqual(t *testing.T) {
	t.Parallel()

	shared := []any{1}
	object := map[string]any{"a": 1}

	if !StrictEqual(3, 3.0) {
		t.Fatal("StrictEqual(3, 3.0) = false, want true")
	}
	if StrictEqual(3, "3") {
		t.Fatal("StrictEqual(3, \"3\") = true, want false")
	}
	if StrictEqual(math.NaN(), math.NaN()) {
		t.Fatal("StrictEqual(NaN, NaN) = true, want false")
	}
	if !StrictEqual(shared, shared) {
		t.Fatal("StrictEqual(shared, shared) = false, want true")
	}
	if StrictEqual([]any{1}, []any{1}) {
		t.Fatal("StrictEqual of distinct arrays = true, want false")
	}
	if !StrictEqual(object, object) {
		t.Fatal("StrictEqual(object, object) = false, want true")
	}
	if StrictEqual(nil, Undefined{}) {
		t.Fatal("StrictEqual(null, undefined) = true, want false")
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a      any
		b      any
		want   int
		wantOK bool
	}{
		{name: "numbers", a: 1, b: 2, want: -1, wantOK: true},
		{name: "strings", a: "b", b: "a", want: 1, wantOK: true},
		{name: "numeric_strings_lexical", a: "10", b: "9", want: -1, wantOK: true},
		{name: "number_string", a: 10, b: "9", want: 1, wantOK: true},
		{name: "bool_number", a: true, b: 1, want: 0, wantOK: true},
		{name: "nan", a: math.NaN(), b: 1, wantOK: false},
		{name: "object", a: map[string]any{"foo": 2}, b: 2, wantOK: false},
		{name: "array_number", a: []any{5}, b: 3, want: 1, wantOK: true},
		{name: "surrogate_order", a: "\U0001F600", b: "｡", want: -1, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Compare(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("Compare(%#v, %#v) ok = %v, want %v", tt.a, tt.b, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("Compare(%#v, %#v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   any
		arg  any
		want bool
	}{
		{name: "func_value", fn: NewFunc("even", func(v any) bool { return ToNumber(v) == 2 }), arg: 2, want: true},
		{name: "func_any_bool", fn: func(v any) bool { return v == "x" }, arg: "x", want: true},
		{name: "func_any_any", fn: func(any) any { return "foo" }, arg: 1, want: true},
		{name: "typed_param", fn: func(n int) bool { return n > 2 }, arg: 3, want: true},
		{name: "typed_param_converted", fn: func(n int) bool { return n > 2 }, arg: 3.0, want: true},
		{name: "typed_param_mismatch", fn: func(n int) bool { return n > 2 }, arg: "3", want: false},
		{name: "typed_param_fraction", fn: func(n int) bool { return true }, arg: 2.5, want: false},
		{name: "typed_param_unsigned_negative", fn: func(n uint8) bool { return true }, arg: -1.0, want: false},
		{name: "typed_param_overflow", fn: func(n int16) bool { return true }, arg: 70000, want: false},
		{name: "typed_param_infinity", fn: func(n int64) bool { return true }, arg: math.Inf(1), want: false},
		{name: "typed_param_float", fn: func(f float64) bool { return f == 2.5 }, arg: 2.5, want: true},
		{name: "string_result", fn: func(s string) string { return s }, arg: "", want: false},
		{name: "no_result", fn: func(any) {}, arg: 1, want: false},
		{name: "two_params", fn: func(a, b int) bool { return true }, arg: 1, want: false},
		{name: "nil_arg_pointer", fn: func(p *int) bool { return p == nil }, arg: nil, want: true},
		{name: "nil_arg_int", fn: func(n int) bool { return true }, arg: nil, want: false},
		{name: "func_without_fn", fn: Func{Source: "x"}, arg: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Call(tt.fn, tt.arg); got != tt.want {
				t.Fatalf("Call(%s, %#v) = %v, want %v", tt.name, tt.arg, got, tt.want)
			}
		})
	}
}
