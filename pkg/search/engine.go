package search

import (
	"errors"
	"math/rand/v2"

	"github.com/blacktop/ipa-archive/pkg/catalog"
)

// ErrEmptyCatalog is returned when a random pick is requested from an empty catalog.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Results are the catalog indices matching a filter, in catalog order.
type Results []int

// Evaluate scans the whole store and returns the indices of all records
// matching f.
func Evaluate(store *catalog.Store, f Filter) Results {
	c := f.compile()
	results := Results{}
	var seen map[string]struct{}
	if c.unique {
		seen = make(map[string]struct{})
	}
	store.Each(func(idx int, r catalog.Record) bool {
		if !c.match(&r) {
			return true
		}
		if c.unique {
			if _, dup := seen[r.BundleID]; dup {
				return true
			}
			seen[r.BundleID] = struct{}{}
		}
		results = append(results, idx)
		return true
	})
	return results
}

// Random picks a uniformly random index from results, or from the whole
// store when results is empty.
func Random(store *catalog.Store, results Results, rnd *rand.Rand) (int, error) {
	if len(results) > 0 {
		return results[intN(rnd, len(results))], nil
	}
	if store.Len() == 0 {
		return 0, ErrEmptyCatalog
	}
	return intN(rnd, store.Len()), nil
}

func intN(rnd *rand.Rand, n int) int {
	if rnd == nil {
		return rand.IntN(n)
	}
	return rnd.IntN(n)
}
