// Package export renders datasets and reconciled record sets to CSV and
// XLSX. Output is always valid in the target grammar: missing values and
// non-finite numbers become empty cells, never a literal token like "NaN".
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/dbsyncr/dbsyncr/pkg/dataset"
	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/loader"
	"github.com/dbsyncr/dbsyncr/pkg/logging"
	"github.com/dbsyncr/dbsyncr/pkg/mappings"
	"github.com/dbsyncr/dbsyncr/pkg/reconcile"
)

// matchStatusColumn is the trailing column appended to combined exports.
const matchStatusColumn = "match_status"

// Export writes a dataset in the given format, header row first, records in
// dataset order.
func Export(w io.Writer, ds *dataset.Dataset, format loader.Format) error {
	if ds == nil {
		return errors.ErrInvalidInput
	}

	header := ds.FieldNames()
	rows, err := datasetRows(ds, header)
	if err != nil {
		return err
	}

	if err := write(w, format, header, rows); err != nil {
		return err
	}

	logging.Debug().Str("format", string(format)).Int("records", ds.Len()).Msg("Dataset exported")
	return nil
}

// ExportCombined writes reconciled records: the identity field first, data
// pair fields in the mapping's declared order (all keyed by Source A names),
// and match_status as the trailing column.
func ExportCombined(w io.Writer, recs []reconcile.CombinedRecord, m mappings.Mapping, format loader.Format) error {
	identity, ok := m.Identity()
	if !ok {
		return errors.NewInvalidMappingError("exactly one identity pair required")
	}

	header := []string{identity.SourceA}
	for _, pair := range m.DataPairs() {
		header = append(header, pair.SourceA)
	}
	header = append(header, matchStatusColumn)

	rows := make([][]cell, 0, len(recs))
	for i, rec := range recs {
		row := make([]cell, 0, len(header))
		for _, field := range header[:len(header)-1] {
			v, _ := rec.Merged.Value(field)
			c, err := renderCell(v)
			if err != nil {
				return errors.NewNonSerializableValueError(field, i+1, v)
			}
			row = append(row, c)
		}
		row = append(row, cell{str: string(rec.Status), set: true})
		rows = append(rows, row)
	}

	if err := write(w, format, header, rows); err != nil {
		return err
	}

	logging.Debug().Str("format", string(format)).Int("records", len(recs)).Msg("Combined records exported")
	return nil
}

// cell is one rendered output cell. CSV consumes str; XLSX prefers the typed
// value so numbers and booleans survive as native cell types. An unset cell
// is written empty.
type cell struct {
	str   string
	typed any
	set   bool
}

func datasetRows(ds *dataset.Dataset, header []string) ([][]cell, error) {
	rows := make([][]cell, 0, ds.Len())
	for i, rec := range ds.Records() {
		row := make([]cell, 0, len(header))
		for _, field := range header {
			v, _ := rec.Value(field)
			c, err := renderCell(v)
			if err != nil {
				return nil, errors.NewNonSerializableValueError(field, i+1, v)
			}
			row = append(row, c)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// renderCell maps a value to its output cell. Missing and non-finite
// numbers render empty.
func renderCell(v dataset.Value) (cell, error) {
	switch v.Kind() {
	case dataset.KindMissing:
		return cell{}, nil
	case dataset.KindString:
		return cell{str: v.StringVal(), typed: v.StringVal(), set: true}, nil
	case dataset.KindNumber:
		n := v.NumberVal()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return cell{}, nil
		}
		return cell{str: v.Format(), typed: n, set: true}, nil
	case dataset.KindBool:
		return cell{str: v.Format(), typed: v.BoolVal(), set: true}, nil
	default:
		return cell{}, fmt.Errorf("unknown value kind %d", v.Kind())
	}
}

// write dispatches to the format-specific writer.
func write(w io.Writer, format loader.Format, header []string, rows [][]cell) error {
	switch format {
	case loader.FormatCSV:
		return writeCSV(w, header, rows)
	case loader.FormatXLSX:
		return writeXLSX(w, header, rows)
	default:
		return errors.NewMalformedInputError(string(format), "unsupported export format", nil)
	}
}
