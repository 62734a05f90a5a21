package sales

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayouts are the accepted date formats, tried in order.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// FromValues builds a record from raw source values keyed by column.
// CSV sources pass strings; SQL sources pass whatever the driver scanned.
//
// An unparseable date becomes null and the row is kept. A malformed numeric
// value is an error: there is no partial-row degradation for measures.
func FromValues(values map[Column]interface{}) (Record, error) {
	var (
		r   Record
		err error
	)

	r.Date = ParseDate(values[ColDate])

	if r.StoreNbr, err = requiredInt(values, ColStoreNbr); err != nil {
		return Record{}, err
	}
	r.Family = Text(values[ColFamily])

	sales, ok, err := DecimalValue(values[ColSales])
	if err != nil {
		return Record{}, fmt.Errorf("column %s: %w", ColSales, err)
	}
	if !ok {
		return Record{}, fmt.Errorf("column %s: value is empty", ColSales)
	}
	r.Sales = sales

	promo, err := requiredInt(values, ColOnPromotion)
	if err != nil {
		return Record{}, err
	}
	r.OnPromotion = int64(promo)

	tx, ok, err := IntValue(values[ColTransactions])
	if err != nil {
		return Record{}, fmt.Errorf("column %s: %w", ColTransactions, err)
	}
	r.Transactions = sql.NullInt64{Int64: tx, Valid: ok}

	r.City = Text(values[ColCity])
	r.State = Text(values[ColState])
	r.StoreType = Text(values[ColStoreType])

	if r.Year, err = requiredInt(values, ColYear); err != nil {
		return Record{}, err
	}
	if r.Month, err = requiredInt(values, ColMonth); err != nil {
		return Record{}, err
	}
	if r.Week, err = requiredInt(values, ColWeek); err != nil {
		return Record{}, err
	}
	r.DayOfWeek = Text(values[ColDayOfWeek])

	return r, r.Validate()
}

func requiredInt(values map[Column]interface{}, c Column) (int, error) {
	v, ok, err := IntValue(values[c])
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", c, err)
	}
	if !ok {
		return 0, fmt.Errorf("column %s: value is empty", c)
	}
	return int(v), nil
}

// DecimalValue converts a raw value to a decimal.
// ok is false when the value is nil or an empty string.
func DecimalValue(v interface{}) (d decimal.Decimal, ok bool, err error) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, false, nil
	case decimal.Decimal:
		return val, true, nil
	case float64:
		return decimal.NewFromFloat(val), true, nil
	case float32:
		return decimal.NewFromFloat32(val), true, nil
	case int:
		return decimal.NewFromInt(int64(val)), true, nil
	case int64:
		return decimal.NewFromInt(val), true, nil
	case int32:
		return decimal.NewFromInt(int64(val)), true, nil
	case []byte:
		return DecimalValue(string(val))
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return decimal.Zero, false, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("malformed number %q", val)
		}
		return d, true, nil
	}
	return decimal.Zero, false, fmt.Errorf("unsupported numeric type %T", v)
}

// IntValue converts a raw value to an integer. Whole-number decimals such as
// "12.0" are accepted since exported CSVs often float-format integer columns.
func IntValue(v interface{}) (n int64, ok bool, err error) {
	d, ok, err := DecimalValue(v)
	if err != nil || !ok {
		return 0, ok, err
	}
	if !d.IsInteger() {
		return 0, false, fmt.Errorf("expected an integer, got %s", d)
	}
	return d.IntPart(), true, nil
}

// Text converts a raw value to a trimmed string. nil becomes "".
func Text(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// ParseDate coerces a raw value to a date. Anything it cannot read is null.
func ParseDate(v interface{}) sql.NullTime {
	switch val := v.(type) {
	case time.Time:
		return sql.NullTime{Time: val, Valid: !val.IsZero()}
	case sql.NullTime:
		return val
	}

	s := Text(v)
	if s == "" {
		return sql.NullTime{}
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: t, Valid: true}
		}
	}
	return sql.NullTime{}
}
