package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned when a workbook would be empty.
var ErrNoSheets = errors.New("workbook needs at least one sheet")

// Sheet is one worksheet: a header row followed by data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// Write renders sheets as an xlsx workbook into w. The first sheet is active.
func Write(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return ErrNoSheets
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("adding sheet %q: %w", s.Name, err)
		}

		header := make([]interface{}, len(s.Header))
		for j, h := range s.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
			return fmt.Errorf("writing header of %q: %w", s.Name, err)
		}

		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			row := row
			if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
				return fmt.Errorf("writing row %d of %q: %w", r+1, s.Name, err)
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
