package aggregation

import (
	"sort"

	"github.com/shopspring/decimal"
)

// OrderedCategoricalSort returns a copy of rows sorted by key according to
// explicitOrder instead of lexicographic order. Values missing from
// explicitOrder sort after every listed value. The sort is stable.
func OrderedCategoricalSort[T any](rows []T, key func(T) string, explicitOrder []string) []T {
	rank := make(map[string]int, len(explicitOrder))
	for i, v := range explicitOrder {
		if _, dup := rank[v]; !dup {
			rank[v] = i
		}
	}
	position := func(v string) int {
		if r, ok := rank[v]; ok {
			return r
		}
		return len(explicitOrder)
	}

	out := make([]T, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return position(key(out[i])) < position(key(out[j]))
	})
	return out
}

// SortByOrder applies OrderedCategoricalSort to grouped rows by key.
func SortByOrder(rows []KeyValue, explicitOrder []string) []KeyValue {
	return OrderedCategoricalSort(rows, func(kv KeyValue) string { return kv.Key }, explicitOrder)
}

// naturalLess orders numbers numerically and everything else as strings.
// Numbers sort before non-numbers.
func naturalLess(a, b string) bool {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	switch {
	case errA == nil && errB == nil:
		return da.LessThan(db)
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
