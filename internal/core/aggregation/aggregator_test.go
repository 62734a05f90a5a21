package aggregation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOperators_FoldAndResult(t *testing.T) {
	values := []decimal.Decimal{
		decimal.NewFromInt(4),
		decimal.NewFromInt(9),
		decimal.NewFromInt(2),
	}

	tests := []struct {
		name string
		op   string
		want string
	}{
		{name: "sum", op: OpSum, want: "15"},
		{name: "mean", op: OpMean, want: "5"},
		{name: "count", op: OpCount, want: "3"},
		{name: "min keeps lowest", op: OpMin, want: "2"},
		{name: "max keeps highest", op: OpMax, want: "9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agg, ok := Operators[tc.op]
			require.True(t, ok)

			state := agg.Initial(values[0])
			for _, v := range values[1:] {
				state = agg.Apply(state, v)
			}
			require.Equal(t, int64(3), state.Count)

			got, ok := agg.Result(state)
			require.True(t, ok)
			require.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestOperators_EmptyState(t *testing.T) {
	tests := []struct {
		op     string
		wantOK bool
		want   string
	}{
		{op: OpSum, wantOK: true, want: "0"},
		{op: OpCount, wantOK: true, want: "0"},
		{op: OpMean, wantOK: false},
		{op: OpMin, wantOK: false},
		{op: OpMax, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.op, func(t *testing.T) {
			got, ok := Operators[tc.op].Result(State{})
			require.Equal(t, tc.wantOK, ok)
			if ok {
				require.Equal(t, tc.want, got.String())
			}
		})
	}
}

func TestOperators_MeanIsExact(t *testing.T) {
	agg := Operators[OpMean]
	state := agg.Initial(decimal.RequireFromString("0.1"))
	state = agg.Apply(state, decimal.RequireFromString("0.2"))

	got, ok := agg.Result(state)
	require.True(t, ok)
	require.Equal(t, "0.15", got.String())
}

func TestValidOperator(t *testing.T) {
	require.True(t, ValidOperator(OpSum))
	require.True(t, ValidOperator(OpMean))
	require.True(t, ValidOperator(OpCount))
	require.True(t, ValidOperator(OpMin))
	require.True(t, ValidOperator(OpMax))
	require.False(t, ValidOperator("avg"))
	require.False(t, ValidOperator(""))
}
