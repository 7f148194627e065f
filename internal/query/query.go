// Package query selects the elements of an ordered collection that match a
// structural pattern, with inversion, offset and limit applied over the
// selected elements.
package query

import (
	"github.com/jacoelho/arraydb/internal/match"
)

// Stats describes the work done by one query.
type Stats struct {
	// Scanned is the number of elements handed to the matcher.
	Scanned int
	// Selected is the number of elements that passed the match/reverse test,
	// including those skipped by the offset.
	Selected int
}

// Run returns the elements of items selected by o, in their original
// order. The result is always a fresh slice; items is never modified.
// An empty collection or missing pattern yields an empty result.
func Run(items []any, o Options) []any {
	out, _ := RunWithStats(items, o)
	return out
}

// RunWithStats is Run that also reports how much of items was examined.
// The walk stops as soon as the limit is reached.
func RunWithStats(items []any, o Options) ([]any, Stats) {
	var stats Stats

	out := []any{}
	if len(items) == 0 || !o.HasPattern {
		return out, stats
	}

	limit := max(o.Limit, 0)
	offset := max(o.Offset, 0)
	want := !o.Reverse

	for _, item := range items {
		if len(out) >= limit {
			break
		}

		stats.Scanned++
		if match.Matches(item, o.Pattern, o.Strict) != want {
			continue
		}

		stats.Selected++
		if stats.Selected <= offset {
			continue
		}
		out = append(out, item)
	}

	return out, stats
}
