package aggregation

import (
	"github.com/shopspring/decimal"
)

// State is the running aggregate of one group.
// Count is the number of values folded in; zero means the group saw no values.
type State struct {
	Value decimal.Decimal
	Count int64
}

// Aggregator defines the reduce semantics of an aggregation operator.
// To add a new operator: implement this interface and register it in Operators.
type Aggregator interface {
	// Initial returns the state after the first value of a group.
	Initial(v decimal.Decimal) State

	// Apply folds a value into an existing state.
	Apply(s State, v decimal.Decimal) State

	// Result returns the aggregate. ok is false when the operator has no
	// defined result for s (mean/min/max of zero values).
	Result(s State) (value decimal.Decimal, ok bool)
}

// Operators is the registry of all supported aggregation operators.
var Operators = map[string]Aggregator{
	OpSum:   sumAgg{},
	OpMean:  meanAgg{},
	OpCount: countAgg{},
	OpMin:   minAgg{},
	OpMax:   maxAgg{},
}

// ValidOperator reports whether op is a registered aggregation operator.
func ValidOperator(op string) bool {
	_, ok := Operators[op]
	return ok
}

// sumAgg accumulates the sum. A group with no values sums to zero.
type sumAgg struct{}

func (sumAgg) Initial(v decimal.Decimal) State { return State{Value: v, Count: 1} }
func (sumAgg) Apply(s State, v decimal.Decimal) State {
	return State{Value: s.Value.Add(v), Count: s.Count + 1}
}
func (sumAgg) Result(s State) (decimal.Decimal, bool) {
	if s.Count == 0 {
		return decimal.Zero, true
	}
	return s.Value, true
}

// meanAgg keeps sum and count; the division happens once in Result.
type meanAgg struct{}

func (meanAgg) Initial(v decimal.Decimal) State { return State{Value: v, Count: 1} }
func (meanAgg) Apply(s State, v decimal.Decimal) State {
	return State{Value: s.Value.Add(v), Count: s.Count + 1}
}
func (meanAgg) Result(s State) (decimal.Decimal, bool) {
	if s.Count == 0 {
		return decimal.Zero, false
	}
	return s.Value.Div(decimal.NewFromInt(s.Count)), true
}

// countAgg counts non-null values. The value itself is ignored.
type countAgg struct{}

func (countAgg) Initial(_ decimal.Decimal) State { return State{Value: decimal.NewFromInt(1), Count: 1} }
func (countAgg) Apply(s State, _ decimal.Decimal) State {
	return State{Value: s.Value.Add(decimal.NewFromInt(1)), Count: s.Count + 1}
}
func (countAgg) Result(s State) (decimal.Decimal, bool) {
	return decimal.NewFromInt(s.Count), true
}

// minAgg tracks the minimum value seen.
type minAgg struct{}

func (minAgg) Initial(v decimal.Decimal) State { return State{Value: v, Count: 1} }
func (minAgg) Apply(s State, v decimal.Decimal) State {
	if v.LessThan(s.Value) {
		return State{Value: v, Count: s.Count + 1}
	}
	return State{Value: s.Value, Count: s.Count + 1}
}
func (minAgg) Result(s State) (decimal.Decimal, bool) { return s.Value, s.Count > 0 }

// maxAgg tracks the maximum value seen.
type maxAgg struct{}

func (maxAgg) Initial(v decimal.Decimal) State { return State{Value: v, Count: 1} }
func (maxAgg) Apply(s State, v decimal.Decimal) State {
	if v.GreaterThan(s.Value) {
		return State{Value: v, Count: s.Count + 1}
	}
	return State{Value: s.Value, Count: s.Count + 1}
}
func (maxAgg) Result(s State) (decimal.Decimal, bool) { return s.Value, s.Count > 0 }
