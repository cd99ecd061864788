package loader

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dbsyncr/dbsyncr/pkg/errors"
)

// readXLSX reads the first sheet of a workbook into a header plus raw string
// rows. Trailing empty cells are not stored in the sheet, so short rows are
// padded to the header width; rows wider than the header are structural
// failures.
func readXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.NewMalformedInputError("xlsx", "opening workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.NewMalformedInputError("xlsx", "workbook has no sheets", nil)
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, errors.NewMalformedInputError("xlsx", "reading sheet "+sheets[0], err)
	}
	if len(all) == 0 {
		return nil, nil, errors.NewMalformedInputError("xlsx", "empty sheet: no header row", nil)
	}

	header := all[0]
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	rows := make([][]string, 0, len(all)-1)
	for ri, row := range all[1:] {
		if len(row) > len(header) {
			return nil, nil, &errors.MalformedInputError{
				Format:  "xlsx",
				Row:     ri + 2,
				Column:  len(header) + 1,
				Message: "row has more cells than the header",
			}
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}
