package value

import (
	"iter"
	"reflect"
	"slices"
	"strings"
)

// Elements returns the items of an array-kind value. The returned slice must
// not be modified: for []any it is the value itself.
func Elements(v any) []any {
	if items, ok := v.([]any); ok {
		return items
	}

	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items
}

// Field looks up key on an object-kind value. Maps with string keys and
// structs (by json tag name, then field name) are supported.
func Field(v any, key string) (any, bool) {
	if m, ok := v.(map[string]any); ok {
		got, found := m[key]
		return got, found
	}

	rv := indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		got := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !got.IsValid() {
			return nil, false
		}
		return got.Interface(), true
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Type().Field(i)
			name := fieldName(field)
			if field.IsExported() && name != "-" && name == key {
				return rv.Field(i).Interface(), true
			}
		}
	}

	return nil, false
}

// Keys returns the member names of an object-kind value in sorted order.
func Keys(v any) []string {
	var keys []string

	if m, ok := v.(map[string]any); ok {
		keys = make([]string, 0, len(m))
		for key := range m {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		return keys
	}

	rv := indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		keys = make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Type().Field(i)
			if field.IsExported() && fieldName(field) != "-" {
				keys = append(keys, fieldName(field))
			}
		}
	}

	slices.Sort(keys)
	return keys
}

// Members yields the name and value of every member of an object-kind value.
// Order is unspecified.
func Members(v any) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m, ok := v.(map[string]any); ok {
			for key, member := range m {
				if !yield(key, member) {
					return
				}
			}
			return
		}

		for _, key := range Keys(v) {
			member, _ := Field(v, key)
			if !yield(key, member) {
				return
			}
		}
	}
}

func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
