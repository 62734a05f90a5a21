package aggregation

import (
	"sort"

	"github.com/salesboard/salesboard/internal/core/sales"
	"github.com/shopspring/decimal"
)

// Histogram splits the values of rows into bins equal-width buckets spanning
// [min, max]. All-equal values land in a single bin. Empty input or bins <= 0
// returns no bins.
func Histogram(rows []KeyValue, bins int) []Bin {
	if len(rows) == 0 || bins <= 0 {
		return []Bin{}
	}

	lo, hi := rows[0].Value, rows[0].Value
	for _, r := range rows[1:] {
		if r.Value.LessThan(lo) {
			lo = r.Value
		}
		if r.Value.GreaterThan(hi) {
			hi = r.Value
		}
	}

	if lo.Equal(hi) {
		return []Bin{{Lower: lo, Upper: hi, Count: len(rows)}}
	}

	width := hi.Sub(lo).Div(decimal.NewFromInt(int64(bins)))
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo.Add(width.Mul(decimal.NewFromInt(int64(i))))
		out[i].Upper = lo.Add(width.Mul(decimal.NewFromInt(int64(i + 1))))
	}
	out[bins-1].Upper = hi

	for _, r := range rows {
		idx := int(r.Value.Sub(lo).Div(width).IntPart())
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}

// BoxStatsBy summarizes measure per groupKey with min, quartiles and max.
// Quartiles use linear interpolation between closest ranks. Groups keep
// first-encountered order; null measures are skipped.
func BoxStatsBy(t *sales.Table, groupKey, measure sales.Column) []BoxStats {
	index := make(map[string]int)
	var keys []string
	var values [][]decimal.Decimal

	n := t.Len()
	for i := 0; i < n; i++ {
		r := t.At(i)
		k, ok := r.Dimension(groupKey)
		if !ok {
			continue
		}
		v, ok := r.Measure(measure)
		if !ok {
			continue
		}
		idx, seen := index[k]
		if !seen {
			idx = len(keys)
			index[k] = idx
			keys = append(keys, k)
			values = append(values, nil)
		}
		values[idx] = append(values[idx], v)
	}

	out := make([]BoxStats, 0, len(keys))
	for i, k := range keys {
		vs := values[i]
		sort.Slice(vs, func(a, b int) bool { return vs[a].LessThan(vs[b]) })
		out = append(out, BoxStats{
			Key:    k,
			Min:    vs[0],
			Q1:     quantile(vs, decimal.RequireFromString("0.25")),
			Median: quantile(vs, decimal.RequireFromString("0.5")),
			Q3:     quantile(vs, decimal.RequireFromString("0.75")),
			Max:    vs[len(vs)-1],
			Count:  len(vs),
		})
	}
	return out
}

// quantile expects sorted, non-empty input.
func quantile(sorted []decimal.Decimal, p decimal.Decimal) decimal.Decimal {
	pos := p.Mul(decimal.NewFromInt(int64(len(sorted) - 1)))
	lo := pos.Floor()
	frac := pos.Sub(lo)
	i := int(lo.IntPart())
	if frac.IsZero() || i+1 >= len(sorted) {
		return sorted[i]
	}
	return sorted[i].Add(sorted[i+1].Sub(sorted[i]).Mul(frac))
}
