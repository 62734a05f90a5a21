package sales

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testRows() []Record {
	return []Record{
		{StoreNbr: 1, Family: "GROCERY I", State: "Pichincha", Sales: decimal.NewFromInt(10), OnPromotion: 2},
		{StoreNbr: 2, Family: "BEVERAGES", State: "Guayas", Sales: decimal.NewFromInt(5)},
		{StoreNbr: 1, Family: "BEVERAGES", State: "Pichincha", Sales: decimal.NewFromInt(20)},
	}
}

func TestTable_FilterSharesRowsAndKeepsOrder(t *testing.T) {
	table := NewTable(testRows(), Metadata{LoadID: "load-1"})

	filtered := table.Where(ColStoreNbr, "1")
	require.Equal(t, 2, filtered.Len())
	require.Equal(t, "GROCERY I", filtered.At(0).Family)
	require.Equal(t, "BEVERAGES", filtered.At(1).Family)
	require.Equal(t, "load-1", filtered.Metadata().LoadID)

	// parent untouched
	require.Equal(t, 3, table.Len())

	nested := filtered.Filter(Promoted)
	require.Equal(t, 1, nested.Len())
	require.Equal(t, int64(2), nested.At(0).OnPromotion)
}

func TestTable_StaleSelectorYieldsEmptyTable(t *testing.T) {
	table := NewTable(testRows(), Metadata{})

	require.Equal(t, 0, table.Where(ColState, "Atlantis").Len())
	require.Equal(t, 0, table.Where(ColStoreNbr, "99").Len())
}

func TestTable_NilIsEmpty(t *testing.T) {
	var table *Table
	require.Equal(t, 0, table.Len())
	require.Nil(t, table.Filter(Promoted))
}

func TestTable_MetadataIsCopied(t *testing.T) {
	table := NewTable(nil, Metadata{RowCounts: map[string]int{"part_1": 3}})

	meta := table.Metadata()
	meta.RowCounts["part_1"] = 99

	require.Equal(t, 3, table.Metadata().RowCounts["part_1"])
}

func TestRecord_DimensionNulls(t *testing.T) {
	r := Record{StoreNbr: 7, Year: 2017}

	_, ok := r.Dimension(ColDate)
	require.False(t, ok)
	_, ok = r.Dimension(ColFamily)
	require.False(t, ok)
	_, ok = r.Dimension(ColTransactions)
	require.False(t, ok)

	v, ok := r.Dimension(ColStoreNbr)
	require.True(t, ok)
	require.Equal(t, "7", v)

	r.Date = sql.NullTime{Time: time.Date(2017, 8, 15, 0, 0, 0, 0, time.UTC), Valid: true}
	v, ok = r.Dimension(ColDate)
	require.True(t, ok)
	require.Equal(t, "2017-08-15", v)
}

func TestRecord_Measure(t *testing.T) {
	r := Record{Sales: decimal.RequireFromString("12.5"), OnPromotion: 3}

	v, ok := r.Measure(ColSales)
	require.True(t, ok)
	require.True(t, v.Equal(decimal.RequireFromString("12.5")))

	_, ok = r.Measure(ColTransactions)
	require.False(t, ok)

	_, ok = r.Measure(ColFamily)
	require.False(t, ok)

	r.Transactions = sql.NullInt64{Int64: 40, Valid: true}
	v, ok = r.Measure(ColTransactions)
	require.True(t, ok)
	require.Equal(t, "40", v.String())
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		wantErr bool
	}{
		{name: "valid", rec: Record{Sales: decimal.NewFromInt(1)}},
		{name: "negative sales", rec: Record{Sales: decimal.NewFromInt(-1)}, wantErr: true},
		{name: "negative promotion", rec: Record{OnPromotion: -1}, wantErr: true},
		{name: "negative transactions", rec: Record{Transactions: sql.NullInt64{Int64: -4, Valid: true}}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidColumn(t *testing.T) {
	require.True(t, ValidColumn(ColDayOfWeek))
	require.False(t, ValidColumn("revenue"))
	require.True(t, IsMeasure(ColTransactions))
	require.False(t, IsMeasure(ColYear))
	require.True(t, IsNumeric(ColYear))
	require.False(t, IsNumeric(ColState))
}
