package sales

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Column names a field of the sales schema. Values match the CSV header names.
type Column string

const (
	ColDate         Column = "date"
	ColStoreNbr     Column = "store_nbr"
	ColFamily       Column = "family"
	ColSales        Column = "sales"
	ColOnPromotion  Column = "onpromotion"
	ColTransactions Column = "transactions"
	ColCity         Column = "city"
	ColState        Column = "state"
	ColStoreType    Column = "store_type"
	ColYear         Column = "year"
	ColMonth        Column = "month"
	ColWeek         Column = "week"
	ColDayOfWeek    Column = "day_of_week"
)

// Columns is the fixed schema every source must provide, in canonical order.
var Columns = []Column{
	ColDate, ColStoreNbr, ColFamily, ColSales, ColOnPromotion,
	ColTransactions, ColCity, ColState, ColStoreType,
	ColYear, ColMonth, ColWeek, ColDayOfWeek,
}

var (
	measureColumns = map[Column]bool{
		ColSales:        true,
		ColOnPromotion:  true,
		ColTransactions: true,
	}
	numericColumns = map[Column]bool{
		ColStoreNbr:     true,
		ColSales:        true,
		ColOnPromotion:  true,
		ColTransactions: true,
		ColYear:         true,
		ColMonth:        true,
		ColWeek:         true,
	}
)

// ValidColumn reports whether c belongs to the schema.
func ValidColumn(c Column) bool {
	for _, col := range Columns {
		if col == c {
			return true
		}
	}
	return false
}

// IsMeasure reports whether c can be summed or averaged.
func IsMeasure(c Column) bool { return measureColumns[c] }

// IsNumeric reports whether values of c order numerically.
func IsNumeric(c Column) bool { return numericColumns[c] }

// WeekdayOrder is the Monday-first order used for day_of_week.
var WeekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Record is one row of the sales table.
//
// Date is null when the source value could not be parsed.
// Transactions is null when the source left it empty.
type Record struct {
	Date         sql.NullTime    `json:"date"`
	StoreNbr     int             `json:"store_nbr"`
	Family       string          `json:"family"`
	Sales        decimal.Decimal `json:"sales"`
	OnPromotion  int64           `json:"onpromotion"`
	Transactions sql.NullInt64   `json:"transactions"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	StoreType    string          `json:"store_type"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Week         int             `json:"week"`
	DayOfWeek    string          `json:"day_of_week"`
}

// Dimension returns the grouping key of column c for this record.
// The second result is false when the value is null.
func (r Record) Dimension(c Column) (string, bool) {
	switch c {
	case ColDate:
		if !r.Date.Valid {
			return "", false
		}
		return r.Date.Time.Format("2006-01-02"), true
	case ColStoreNbr:
		return strconv.Itoa(r.StoreNbr), true
	case ColFamily:
		return r.Family, r.Family != ""
	case ColSales:
		return r.Sales.String(), true
	case ColOnPromotion:
		return strconv.FormatInt(r.OnPromotion, 10), true
	case ColTransactions:
		if !r.Transactions.Valid {
			return "", false
		}
		return strconv.FormatInt(r.Transactions.Int64, 10), true
	case ColCity:
		return r.City, r.City != ""
	case ColState:
		return r.State, r.State != ""
	case ColStoreType:
		return r.StoreType, r.StoreType != ""
	case ColYear:
		return strconv.Itoa(r.Year), true
	case ColMonth:
		return strconv.Itoa(r.Month), true
	case ColWeek:
		return strconv.Itoa(r.Week), true
	case ColDayOfWeek:
		return r.DayOfWeek, r.DayOfWeek != ""
	}
	return "", false
}

// Measure returns the numeric value of column c.
// The second result is false when the value is null or c is not a measure.
func (r Record) Measure(c Column) (decimal.Decimal, bool) {
	switch c {
	case ColSales:
		return r.Sales, true
	case ColOnPromotion:
		return decimal.NewFromInt(r.OnPromotion), true
	case ColTransactions:
		if !r.Transactions.Valid {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(r.Transactions.Int64), true
	}
	return decimal.Zero, false
}

// Validate checks the invariants a source must uphold for every row.
func (r Record) Validate() error {
	if r.Sales.IsNegative() {
		return fmt.Errorf("sales must be >= 0, got %s", r.Sales)
	}
	if r.OnPromotion < 0 {
		return fmt.Errorf("onpromotion must be >= 0, got %d", r.OnPromotion)
	}
	if r.Transactions.Valid && r.Transactions.Int64 < 0 {
		return fmt.Errorf("transactions must be >= 0, got %d", r.Transactions.Int64)
	}
	return nil
}
