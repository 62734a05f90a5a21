package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/salesboard/salesboard/internal/core/sales"
)

// ParseCSV reads a CSV stream with a header row into records.
//
// Columns are matched by header name; extra columns are ignored and a missing
// schema column fails with ErrMissingColumn. Rows that cannot be converted fail
// with ErrMalformed. Read errors from r are returned unwrapped so callers can
// tell transport failures from bad data.
func ParseCSV(r io.Reader) ([]sales.Record, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input, no header row", ErrMalformed)
	}
	if err != nil {
		return nil, csvError(err)
	}

	positions := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := positions[h]; !dup {
			positions[h] = i
		}
	}

	index := make([]int, len(sales.Columns))
	for i, col := range sales.Columns {
		pos, ok := positions[string(col)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
		index[i] = pos
	}

	var records []sales.Record
	values := make(map[sales.Column]interface{}, len(sales.Columns))
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line++

		for i, col := range sales.Columns {
			values[col] = row[index[i]]
		}
		rec, err := sales.FromValues(values)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func csvError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return err
}
