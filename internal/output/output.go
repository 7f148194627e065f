// Package output renders query results.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/arraydb/internal/value"
)

// ErrInvalidFormat is returned for unknown format names.
var ErrInvalidFormat = errors.New("invalid output format")

// Format selects how results are written.
type Format int

const (
	// FormatJSON writes one indented JSON array.
	FormatJSON Format = iota
	// FormatLines writes one compact JSON value per line.
	FormatLines
	// FormatYAML writes a YAML sequence.
	FormatYAML
)

var formatNames = map[Format]string{
	FormatJSON:  "json",
	FormatLines: "lines",
	FormatYAML:  "yaml",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	for format, candidate := range formatNames {
		if strings.EqualFold(name, candidate) {
			return format, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want json, lines or yaml)", ErrInvalidFormat, name)
}

// Write renders items to w.
func Write(w io.Writer, format Format, items []any) error {
	exported := make([]any, len(items))
	for i, item := range items {
		exported[i] = exportElement(item)
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, exported)
	case FormatLines:
		return writeLines(w, exported)
	case FormatYAML:
		return writeYAML(w, exported)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
}

func writeJSON(w io.Writer, items []any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(items); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func writeLines(w io.Writer, items []any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	for i, item := range items {
		if err := encoder.Encode(item); err != nil {
			return fmt.Errorf("encode JSON line %d: %w", i, err)
		}
	}
	return nil
}

func writeYAML(w io.Writer, items []any) error {
	payload, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	_, err = w.Write(payload)
	return err
}

// Export converts v into plain JSON data: NaN and infinities become null,
// undefined becomes null (or is dropped when it is an object member), and
// regular expressions and functions become their source text.
func Export(v any) any {
	return exportElement(v)
}

func exportElement(v any) any {
	switch value.Of(v) {
	case value.KindNull, value.KindUndefined, value.KindNaN:
		return nil
	case value.KindBoolean:
		return value.Bool(v)
	case value.KindNumber:
		return exportNumber(v)
	case value.KindString:
		return value.ToString(v)
	case value.KindRegExp, value.KindFunction:
		return value.ToString(v)
	case value.KindArray:
		elements := value.Elements(v)
		out := make([]any, len(elements))
		for i, element := range elements {
			out[i] = exportElement(element)
		}
		return out
	default:
		out := make(map[string]any)
		for key, member := range value.Members(v) {
			if value.Of(member) == value.KindUndefined {
				continue
			}
			out[key] = exportElement(member)
		}
		return out
	}
}

func exportNumber(v any) any {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return n
	case json.Number:
		return n
	}

	f := value.Number(v)
	switch {
	case math.IsInf(f, 0):
		return nil
	case f == 0:
		return float64(0)
	default:
		return f
	}
}
