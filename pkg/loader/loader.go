// Package loader parses raw tabular byte streams into typed, schema-agnostic
// datasets. It supports delimited text (CSV) and spreadsheet (XLSX) input,
// infers the narrowest scalar kind per column, and turns empty cells into the
// explicit missing marker. The loader knows nothing about field mappings.
package loader

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/dbsyncr/dbsyncr/pkg/dataset"
	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/logging"
)

// Format identifies a supported tabular encoding.
type Format string

const (
	// FormatCSV is comma-delimited UTF-8 text. A leading BOM is tolerated,
	// as is UTF-16 input carrying a BOM.
	FormatCSV Format = "csv"
	// FormatXLSX is an Office Open XML workbook; the first sheet is read.
	FormatXLSX Format = "xlsx"
)

// DetectFormat resolves a Format from a file name's suffix. ok is false for
// unsupported suffixes.
func DetectFormat(filename string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, true
	case ".xlsx", ".xlsm", ".xls":
		return FormatXLSX, true
	default:
		return "", false
	}
}

// Load parses a byte stream in the given format into a Dataset.
//
// The header row defines field names; duplicate headers are rejected with a
// DuplicateFieldError. Structural failures (unreadable encoding, ragged rows,
// corrupt workbook) return a MalformedInputError with row/column context when
// available. A dataset with zero data rows is valid.
func Load(r io.Reader, format Format) (*dataset.Dataset, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)

	switch format {
	case FormatCSV:
		header, rows, err = readCSV(r)
	case FormatXLSX:
		header, rows, err = readXLSX(r)
	default:
		return nil, errors.NewMalformedInputError(string(format), "unsupported input format", nil)
	}
	if err != nil {
		return nil, err
	}

	if err := checkHeader(header, format); err != nil {
		return nil, err
	}

	ds := buildDataset(header, rows)
	logging.Debug().
		Str("format", string(format)).
		Int("fields", len(header)).
		Int("records", ds.Len()).
		Msg("Dataset loaded")
	return ds, nil
}

// checkHeader rejects empty and duplicated field names.
func checkHeader(header []string, format Format) error {
	if len(header) == 0 {
		return errors.NewMalformedInputError(string(format), "no header row found", nil)
	}

	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if name == "" {
			return &errors.MalformedInputError{
				Format:  string(format),
				Row:     1,
				Column:  i + 1,
				Message: "empty field name in header",
			}
		}
		if seen[name] {
			return errors.NewDuplicateFieldError(name, i+1)
		}
		seen[name] = true
	}
	return nil
}

// buildDataset infers the column kinds and converts raw cells into records.
func buildDataset(header []string, rows [][]string) *dataset.Dataset {
	kinds := inferKinds(header, rows)

	fields := make([]dataset.Field, len(header))
	for i, name := range header {
		fields[i] = dataset.Field{Name: name, Kind: kinds[i]}
	}

	records := make([]dataset.Record, len(rows))
	for ri, row := range rows {
		values := make(map[string]dataset.Value, len(header))
		for ci, name := range header {
			values[name] = coerce(row[ci], kinds[ci])
		}
		records[ri] = dataset.NewRecord(header, values)
	}

	return dataset.New(fields, records)
}
