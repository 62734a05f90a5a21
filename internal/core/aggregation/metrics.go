package aggregation

import (
	"github.com/salesboard/salesboard/internal/core/sales"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentageOfTotal returns sum(measure where predicate) / sum(measure) * 100.
// A zero denominator yields 0, never an error.
func PercentageOfTotal(t *sales.Table, predicate sales.Predicate, measure sales.Column) decimal.Decimal {
	total := Total(t, measure, nil)
	if total.IsZero() {
		return decimal.Zero
	}
	part := Total(t, measure, predicate)
	return part.Mul(hundred).Div(total)
}

// SumByYear sums measure per year, oldest year first.
func SumByYear(t *sales.Table, measure sales.Column, filter sales.Predicate) []KeyValue {
	return SortByKey(SumBy(t, sales.ColYear, measure, filter))
}

// YearOverYearDelta returns the latest year's total minus the previous
// year's total. Fewer than two distinct years yields 0.
func YearOverYearDelta(t *sales.Table, measure sales.Column) decimal.Decimal {
	years := SumByYear(t, measure, nil)
	if len(years) < 2 {
		return decimal.Zero
	}
	return years[len(years)-1].Value.Sub(years[len(years)-2].Value)
}
