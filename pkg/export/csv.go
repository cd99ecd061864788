package export

import (
	"encoding/csv"
	"io"
)

// writeCSV emits the header and rows through encoding/csv, which handles
// quoting and escaping.
func writeCSV(w io.Writer, header []string, rows [][]cell) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, c := range row {
			record[i] = c.str
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
