package aggregation

import (
	"github.com/shopspring/decimal"
)

// Supported aggregation operators.
const (
	OpSum   = "sum"
	OpMean  = "mean"
	OpCount = "count"
	OpMin   = "min"
	OpMax   = "max"
)

// KeyValue is one row of a grouped result: a group key and its aggregate.
// Count is the number of non-null measure values folded into Value.
// Null marks a group with no defined result (mean/min/max over only null
// values); its Value is zero and must not be read as a number.
type KeyValue struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
	Count int64           `json:"count"`
	Null  bool            `json:"null,omitempty"`
}

// Ranking is a descending ranking with its headline row.
// Found is false when the input had no rows ("no data").
type Ranking struct {
	Top   KeyValue   `json:"top"`
	Found bool       `json:"found"`
	Rows  []KeyValue `json:"rows"`
}

// Head returns at most n rows of the ranking.
func (r Ranking) Head(n int) []KeyValue {
	return head(r.Rows, n)
}

// Cell is one (row, column) entry of a two-dimensional aggregate.
type Cell struct {
	Row   string          `json:"row"`
	Col   string          `json:"col"`
	Value decimal.Decimal `json:"value"`
	Count int64           `json:"count"`
}

// Bin is one equal-width histogram bucket, [Lower, Upper).
// The last bin also includes Upper.
type Bin struct {
	Lower decimal.Decimal `json:"lower"`
	Upper decimal.Decimal `json:"upper"`
	Count int             `json:"count"`
}

// BoxStats summarizes the distribution of a measure within one group.
type BoxStats struct {
	Key    string          `json:"key"`
	Min    decimal.Decimal `json:"min"`
	Q1     decimal.Decimal `json:"q1"`
	Median decimal.Decimal `json:"median"`
	Q3     decimal.Decimal `json:"q3"`
	Max    decimal.Decimal `json:"max"`
	Count  int             `json:"count"`
}

// head returns a copy of at most n rows; n <= 0 yields an empty slice.
func head(rows []KeyValue, n int) []KeyValue {
	if n <= 0 {
		return []KeyValue{}
	}
	if n >= len(rows) {
		out := make([]KeyValue, len(rows))
		copy(out, rows)
		return out
	}
	out := make([]KeyValue, n)
	copy(out, rows[:n])
	return out
}
