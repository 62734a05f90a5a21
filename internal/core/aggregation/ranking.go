package aggregation

import (
	"github.com/salesboard/salesboard/internal/core/sales"
)

// TopNBySum groups the rows passing filter by groupKey, sums measure, and
// returns the n largest groups, largest first. Ties keep first-encountered
// group order. The result never exceeds n rows, so n <= 0 returns an empty
// slice. Empty input returns an empty slice.
func TopNBySum(t *sales.Table, groupKey, measure sales.Column, n int, filter sales.Predicate) []KeyValue {
	ranked := SortByValueDesc(SumBy(t, groupKey, measure, filter))
	return head(ranked, n)
}

// RankedTop sums measure per groupKey and sorts descending. The headline row
// is the largest group; Found is false when no rows pass filter.
func RankedTop(t *sales.Table, groupKey, measure sales.Column, filter sales.Predicate) Ranking {
	rows := SortByValueDesc(SumBy(t, groupKey, measure, filter))
	if len(rows) == 0 {
		return Ranking{Rows: []KeyValue{}}
	}
	return Ranking{Top: rows[0], Found: true, Rows: rows}
}
