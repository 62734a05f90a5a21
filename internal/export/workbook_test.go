package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWrite(t *testing.T) {
	sheets := []Sheet{
		{
			Name:   "Overview",
			Header: []string{"metric", "value"},
			Rows: [][]interface{}{
				{"stores", 54},
				{"families", 33},
			},
		},
		{
			Name:   "Top families",
			Header: []string{"family", "sales"},
			Rows: [][]interface{}{
				{"GROCERY I", "343462734.5"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sheets))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Overview", "Top families"}, f.GetSheetList())

	rows, err := f.GetRows("Overview")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"metric", "value"}, {"stores", "54"}, {"families", "33"}}, rows)

	v, err := f.GetCellValue("Top families", "A2")
	require.NoError(t, err)
	require.Equal(t, "GROCERY I", v)
}

func TestWrite_NoSheets(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, Write(&buf, nil), ErrNoSheets)
}

func TestWrite_InvalidSheetName(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []Sheet{{Name: "bad/name", Header: []string{"a"}}})
	require.Error(t, err)
}
