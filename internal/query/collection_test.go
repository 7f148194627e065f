package query

import (
	"reflect"
	"sync"
	"testing"

	"github.com/jacoelho/arraydb/internal/predicate"
)

func TestCollectionQuery(t *testing.T) {
	t.Parallel()

	db := New(1, 1, 1, 2, 12, 1, 5)

	if got := db.Query(1, WithLimit(2)); !reflect.DeepEqual(got, []any{1, 1}) {
		t.Fatalf("Query(limit) = %v, want [1 1]", got)
	}
	if got := db.Query(predicate.Gt(4)); !reflect.DeepEqual(got, []any{12, 5}) {
		t.Fatalf("Query(gt) = %v, want [12 5]", got)
	}
	if got := db.QueryConfig(map[string]any{"query": 1, "offset": 1, "limit": 10}); !reflect.DeepEqual(got, []any{1, 1, 1}) {
		t.Fatalf("QueryConfig() = %v, want [1 1 1]", got)
	}
	if got := db.QueryConfig(map[string]any{}); len(got) != 0 {
		t.Fatalf("QueryConfig(empty) = %v, want []", got)
	}
}

func TestCollectionFromCopies(t *testing.T) {
	t.Parallel()

	items := []any{1, 2, 3}
	db := From(items)
	items[0] = 100

	if got, _ := db.At(0); got != 1 {
		t.Fatalf("At(0) = %v, want 1", got)
	}

	all := db.All()
	all[1] = 200
	if got, _ := db.At(1); got != 2 {
		t.Fatalf("At(1) = %v, want 2", got)
	}

	if _, ok := db.At(3); ok {
		t.Fatalf("At(3) ok = true, want false")
	}
}

func TestCollectionPush(t *testing.T) {
	t.Parallel()

	db := New()
	if db.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", db.Len())
	}

	db.Push("a", "b")
	db.Push("a")

	if db.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", db.Len())
	}
	if got := db.Query("a"); !reflect.DeepEqual(got, []any{"a", "a"}) {
		t.Fatalf("Query() = %v, want [a a]", got)
	}
}

func TestCollectionConcurrentAccess(t *testing.T) {
	t.Parallel()

	db := New()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := range 50 {
				db.Push(i*100 + j)
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				got := db.Query(predicate.Ge(0))
				if len(got) > db.Len() {
					t.Errorf("Query() returned %d elements, more than the collection holds", len(got))
					return
				}
			}
		}()
	}
	wg.Wait()

	if db.Len() != 400 {
		t.Fatalf("Len() = %d, want 400", db.Len())
	}
}
