package aggregation

import (
	"sort"

	"github.com/salesboard/salesboard/internal/core/sales"
)

type cellKey struct {
	row string
	col string
}

// TwoDimensionalMean computes the mean of measure per (rowKey, colKey) pair.
//
// Without rowOrder the cells keep first-encountered order. With rowOrder the
// cells are ordered by column in natural order, then by row according to
// rowOrder (see OrderedCategoricalSort).
func TwoDimensionalMean(t *sales.Table, rowKey, colKey, measure sales.Column, rowOrder []string) []Cell {
	keyOf := func(r sales.Record) (cellKey, bool) {
		row, ok := r.Dimension(rowKey)
		if !ok {
			return cellKey{}, false
		}
		col, ok := r.Dimension(colKey)
		if !ok {
			return cellKey{}, false
		}
		return cellKey{row: row, col: col}, true
	}

	agg := Operators[OpMean]
	buckets := fold(t, keyOf, measure, nil, agg)

	cells := make([]Cell, 0, len(buckets))
	for _, b := range buckets {
		v, ok := agg.Result(b.state)
		if !ok {
			continue
		}
		cells = append(cells, Cell{Row: b.key.row, Col: b.key.col, Value: v, Count: b.state.Count})
	}

	if rowOrder == nil {
		return cells
	}

	sort.SliceStable(cells, func(i, j int) bool { return naturalLess(cells[i].Col, cells[j].Col) })
	return OrderedCategoricalSort(cells, func(c Cell) string { return c.Row }, rowOrder)
}
