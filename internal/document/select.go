package document

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/theory/jsonpath"

	"github.com/jacoelho/arraydb/internal/query"
	"github.com/jacoelho/arraydb/internal/value"
)

// ErrPath is returned for invalid JSONPath expressions.
var ErrPath = errors.New("invalid JSONPath")

// Select returns the collection inside doc addressed by path.
//
// With an empty path the root is used: a root sequence is the collection,
// any other root is a one-element collection. Otherwise the nodes selected
// by the JSONPath expression form the collection, except that a single
// selected sequence ("$.items") is used as the collection itself.
func Select(doc any, path string) ([]any, error) {
	if path == "" {
		return root(doc), nil
	}

	p, err := jsonpath.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPath, path, err)
	}

	nodes := p.Select(doc)
	if len(nodes) == 1 {
		if items, ok := nodes[0].([]any); ok {
			return slices.Clone(items), nil
		}
	}
	return append([]any{}, nodes...), nil
}

func root(doc any) []any {
	if items, ok := doc.([]any); ok {
		return slices.Clone(items)
	}
	return []any{doc}
}

// LoadQuery decodes a query file: a mapping with a "query" (or "pattern")
// member and optional "limit", "offset", "strict" and "reverse" members.
func LoadQuery(r io.Reader) (query.Options, error) {
	doc, err := Load(r)
	if err != nil {
		return query.Options{}, err
	}

	cfg, ok := doc.(map[string]any)
	if !ok {
		return query.Options{}, fmt.Errorf("%w: query must be a mapping, got %s", ErrParser, value.Of(doc))
	}
	return query.FromConfig(cfg), nil
}
