package aggregation

import (
	"sort"

	"github.com/salesboard/salesboard/internal/core/sales"
	"github.com/shopspring/decimal"
)

type bucket[K comparable] struct {
	key   K
	state State
}

// fold groups the rows of t that pass filter by keyOf and reduces measure
// with agg. Buckets come back in first-encountered order. Rows with a null key
// are skipped; rows with a null measure create their group but add no value.
func fold[K comparable](
	t *sales.Table,
	keyOf func(sales.Record) (K, bool),
	measure sales.Column,
	filter sales.Predicate,
	agg Aggregator,
) []bucket[K] {
	index := make(map[K]int)
	var buckets []bucket[K]

	n := t.Len()
	for i := 0; i < n; i++ {
		r := t.At(i)
		if filter != nil && !filter(r) {
			continue
		}
		key, ok := keyOf(r)
		if !ok {
			continue
		}

		idx, seen := index[key]
		if !seen {
			idx = len(buckets)
			index[key] = idx
			buckets = append(buckets, bucket[K]{key: key})
		}

		v, ok := r.Measure(measure)
		if !ok {
			continue
		}
		if buckets[idx].state.Count == 0 {
			buckets[idx].state = agg.Initial(v)
			continue
		}
		buckets[idx].state = agg.Apply(buckets[idx].state, v)
	}
	return buckets
}

func dimension(c sales.Column) func(sales.Record) (string, bool) {
	return func(r sales.Record) (string, bool) { return r.Dimension(c) }
}

// Reduce groups t by groupKey and aggregates measure with the named operator.
// Rows come back in first-encountered group order, one per distinct key.
// Groups without a defined result (mean/min/max of only null values) are kept
// as Null rows.
func Reduce(t *sales.Table, groupKey, measure sales.Column, op string, filter sales.Predicate) []KeyValue {
	agg, ok := Operators[op]
	if !ok {
		return nil
	}

	buckets := fold(t, dimension(groupKey), measure, filter, agg)
	rows := make([]KeyValue, 0, len(buckets))
	for _, b := range buckets {
		v, ok := agg.Result(b.state)
		rows = append(rows, KeyValue{Key: b.key, Value: v, Count: b.state.Count, Null: !ok})
	}
	return rows
}

// SumBy sums measure per group, in first-encountered group order.
func SumBy(t *sales.Table, groupKey, measure sales.Column, filter sales.Predicate) []KeyValue {
	return Reduce(t, groupKey, measure, OpSum, filter)
}

// MeanBy computes the arithmetic mean of measure per group, one row per
// distinct key in first-encountered order. Callers impose any ordering.
func MeanBy(t *sales.Table, groupKey, measure sales.Column) []KeyValue {
	return Reduce(t, groupKey, measure, OpMean, nil)
}

// Total sums measure over the rows passing filter. Empty input sums to zero.
func Total(t *sales.Table, measure sales.Column, filter sales.Predicate) decimal.Decimal {
	total := decimal.Zero
	n := t.Len()
	for i := 0; i < n; i++ {
		r := t.At(i)
		if filter != nil && !filter(r) {
			continue
		}
		if v, ok := r.Measure(measure); ok {
			total = total.Add(v)
		}
	}
	return total
}

// DistinctCount returns the number of distinct non-null values in column.
func DistinctCount(t *sales.Table, column sales.Column) int {
	seen := make(map[string]struct{})
	n := t.Len()
	for i := 0; i < n; i++ {
		if v, ok := t.At(i).Dimension(column); ok {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// DistinctValues returns the distinct non-null values of column in natural
// order (numeric for numeric columns). Used for selector option lists.
func DistinctValues(t *sales.Table, column sales.Column) []string {
	seen := make(map[string]struct{})
	var values []string
	n := t.Len()
	for i := 0; i < n; i++ {
		v, ok := t.At(i).Dimension(column)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.SliceStable(values, func(i, j int) bool { return naturalLess(values[i], values[j]) })
	return values
}

// SortByKey returns a copy of rows ordered by key in natural order.
func SortByKey(rows []KeyValue) []KeyValue {
	out := make([]KeyValue, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return naturalLess(out[i].Key, out[j].Key) })
	return out
}

// SortByValueDesc returns a copy of rows ordered by value, largest first.
// Equal values keep their input order; Null rows go last.
func SortByValueDesc(rows []KeyValue) []KeyValue {
	return sortByValue(rows, func(a, b decimal.Decimal) bool { return a.GreaterThan(b) })
}

// SortByValueAsc returns a copy of rows ordered by value, smallest first.
// Null rows go last.
func SortByValueAsc(rows []KeyValue) []KeyValue {
	return sortByValue(rows, func(a, b decimal.Decimal) bool { return a.LessThan(b) })
}

func sortByValue(rows []KeyValue, before func(a, b decimal.Decimal) bool) []KeyValue {
	out := make([]KeyValue, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Null || out[j].Null {
			return !out[i].Null && out[j].Null
		}
		return before(out[i].Value, out[j].Value)
	})
	return out
}
