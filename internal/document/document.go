// Package document loads YAML (and JSON) documents into the plain values the
// matcher understands, and selects the collection to query inside them.
//
// Besides the core YAML types a few local tags build values that have no
// YAML spelling:
//
//	!regexp /^a/i    regular expression (alias !re)
//	!gt 3            comparison helper; also !lt !le !ge !eq !ne
//	!any             predicate matching everything
//	!undefined       the undefined value
//	!nan             NaN
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/jacoelho/arraydb/internal/predicate"
	"github.com/jacoelho/arraydb/internal/value"
)

var (
	// ErrParser is returned for malformed documents and unsupported tags.
	ErrParser = errors.New("document parse error")
	// ErrNoData is returned when the input holds no document.
	ErrNoData = errors.New("document is empty")
)

// Load decodes the first document in r.
func Load(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Parse(data)
}

// Parse decodes the first document in data.
func Parse(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoData
	}

	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParser, err)
	}
	if len(file.Docs) == 0 || file.Docs[0] == nil || file.Docs[0].Body == nil {
		return nil, ErrNoData
	}

	d := decoder{anchors: make(map[string]any)}
	return d.node(file.Docs[0].Body)
}

// ParsePattern decodes a pattern given inline, e.g. on the command line.
func ParsePattern(text string) (any, error) {
	pattern, err := Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", text, err)
	}
	return pattern, nil
}

type decoder struct {
	anchors map[string]any
}

func (d *decoder) node(node ast.Node) (any, error) {
	switch n := node.(type) {
	case nil:
		return nil, nil
	case *ast.DocumentNode:
		return d.node(n.Body)
	case *ast.NullNode:
		return nil, nil
	case *ast.BoolNode:
		return n.Value, nil
	case *ast.IntegerNode:
		return integer(n)
	case *ast.FloatNode:
		return n.Value, nil
	case *ast.InfinityNode:
		return n.Value, nil
	case *ast.NanNode:
		return math.NaN(), nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.LiteralNode:
		if n.Value == nil {
			return "", nil
		}
		return n.Value.Value, nil
	case *ast.SequenceNode:
		return d.sequence(n)
	case *ast.MappingNode:
		out := make(map[string]any, len(n.Values))
		for _, pair := range n.Values {
			if err := d.pair(out, pair); err != nil {
				return nil, err
			}
		}
		return out, nil
	case *ast.MappingValueNode:
		out := make(map[string]any, 1)
		if err := d.pair(out, n); err != nil {
			return nil, err
		}
		return out, nil
	case *ast.MappingKeyNode:
		return d.node(n.Value)
	case *ast.AnchorNode:
		v, err := d.node(n.Value)
		if err != nil {
			return nil, err
		}
		d.anchors[n.Name.GetToken().Value] = v
		return v, nil
	case *ast.AliasNode:
		name := n.Value.GetToken().Value
		v, ok := d.anchors[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown alias %q", ErrParser, name)
		}
		return v, nil
	case *ast.TagNode:
		return d.tag(n)
	default:
		return nil, fmt.Errorf("%w: unsupported node %s", ErrParser, node.Type())
	}
}

func integer(n *ast.IntegerNode) (any, error) {
	switch v := n.Value.(type) {
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return float64(v), nil
		}
		return int64(v), nil
	default:
		return nil, fmt.Errorf("%w: unexpected integer value %T", ErrParser, n.Value)
	}
}

func (d *decoder) sequence(n *ast.SequenceNode) ([]any, error) {
	out := make([]any, 0, len(n.Values))
	for i, item := range n.Values {
		v, err := d.node(item)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *decoder) pair(out map[string]any, pair *ast.MappingValueNode) error {
	if _, ok := pair.Key.(*ast.MergeKeyNode); ok {
		return d.merge(out, pair.Value)
	}

	k, err := d.node(pair.Key)
	if err != nil {
		return err
	}
	key := value.ToString(k)

	v, err := d.node(pair.Value)
	if err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	out[key] = v
	return nil
}

// merge applies a "<<" key. Explicit keys win over merged ones, and earlier
// sources win over later ones.
func (d *decoder) merge(out map[string]any, node ast.Node) error {
	v, err := d.node(node)
	if err != nil {
		return err
	}

	sources := []any{v}
	if list, ok := v.([]any); ok {
		sources = list
	}

	for _, source := range sources {
		m, ok := source.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: merge value must be a mapping, got %s", ErrParser, value.Of(source))
		}
		for key, item := range m {
			if _, exists := out[key]; !exists {
				out[key] = item
			}
		}
	}
	return nil
}

func (d *decoder) tag(n *ast.TagNode) (any, error) {
	tag := n.Start.Value

	switch tag {
	case "!regexp", "!re":
		text, ok := scalar(n.Value)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a scalar", ErrParser, tag)
		}
		re, err := value.ParseRegExp(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %v", ErrParser, tag, text, err)
		}
		return re, nil
	case "!undefined":
		return value.Undefined{}, nil
	case "!nan":
		return math.NaN(), nil
	case "!any":
		return predicate.Any(), nil
	}

	if strings.HasPrefix(tag, "!!") {
		return d.coreTag(tag, n.Value)
	}

	op, err := predicate.ParseOperator(strings.TrimPrefix(tag, "!"))
	if err != nil {
		return nil, fmt.Errorf("%w: unknown tag %s", ErrParser, tag)
	}

	bound, err := d.node(n.Value)
	if err != nil {
		return nil, err
	}
	fn, err := predicate.New(op, bound)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParser, tag, err)
	}
	return fn, nil
}

// coreTag handles the YAML core schema tags that change how a scalar is
// read. Other "!!" tags leave the node as decoded.
func (d *decoder) coreTag(tag string, node ast.Node) (any, error) {
	text, isScalar := scalar(node)

	switch tag {
	case "!!str":
		if isScalar {
			return text, nil
		}
	case "!!int", "!!float":
		if isScalar {
			return coreNumber(tag, text)
		}
	case "!!null":
		return nil, nil
	case "!!bool":
		if isScalar {
			b, err := strconv.ParseBool(text)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %q", ErrParser, tag, text)
			}
			return b, nil
		}
	}

	return d.node(node)
}

// coreNumber reads text with the YAML core schema number rules: ".inf"
// and ".nan" spellings, "_" separators, 0x/0o/0b prefixes. Leading zeros
// are decimal. "!!int" yields int64 (float64 when out of range) and
// "!!float" yields float64.
func coreNumber(tag, text string) (any, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), "_", "")

	sign, unsigned := 1.0, s
	switch {
	case strings.HasPrefix(s, "-"):
		sign, unsigned = -1, s[1:]
	case strings.HasPrefix(s, "+"):
		unsigned = s[1:]
	}

	switch unsigned {
	case ".inf", ".Inf", ".INF":
		if tag == "!!float" {
			return math.Inf(int(sign)), nil
		}
	case ".nan", ".NaN", ".NAN":
		if tag == "!!float" && unsigned == s {
			return math.NaN(), nil
		}
	}

	base := 10
	digits := unsigned
	if len(unsigned) > 2 && unsigned[0] == '0' {
		switch unsigned[1] {
		case 'x', 'X':
			base, digits = 16, unsigned[2:]
		case 'o', 'O':
			base, digits = 8, unsigned[2:]
		case 'b', 'B':
			base, digits = 2, unsigned[2:]
		}
	}

	if digits != "" && !strings.ContainsAny(digits, "+-") {
		if u, err := strconv.ParseUint(digits, base, 64); err == nil {
			if tag == "!!float" {
				return sign * float64(u), nil
			}
			if sign < 0 && u == 1<<63 {
				return int64(math.MinInt64), nil
			}
			if sign < 0 && u < 1<<63 {
				return -int64(u), nil
			}
			if sign > 0 && u <= math.MaxInt64 {
				return int64(u), nil
			}
			return sign * float64(u), nil
		}
	}

	if base == 10 && tag == "!!float" {
		if isDecimal(s) {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s %q is not a number", ErrParser, tag, text)
}

// isDecimal reports whether s uses only decimal float characters, which
// keeps ParseFloat from accepting "inf", "nan" or hex floats.
func isDecimal(s string) bool {
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(".eE+-", r):
		default:
			return false
		}
	}
	return hasDigit
}

// scalar returns the source text of a scalar node.
func scalar(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value, true
	case *ast.LiteralNode:
		if n.Value == nil {
			return "", true
		}
		return n.Value.Value, true
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.NullNode, *ast.InfinityNode, *ast.NanNode:
		return n.GetToken().Value, true
	default:
		return "", false
	}
}
