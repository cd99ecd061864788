package export

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// writeXLSX emits a single-sheet workbook. Cells keep their native types so
// numeric columns stay numeric in the spreadsheet; empty cells are skipped
// rather than written as empty strings.
func writeXLSX(w io.Writer, header []string, rows [][]cell) error {
	f := excelize.NewFile()
	defer f.Close()

	headerRow := make([]any, len(header))
	for i, name := range header {
		headerRow[i] = name
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return err
	}

	for ri, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, ri+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for ci, c := range row {
			if c.set {
				values[ci] = c.typed
			}
		}
		if err := f.SetSheetRow(sheetName, start, &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
