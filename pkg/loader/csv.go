package loader

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dbsyncr/dbsyncr/pkg/errors"
)

// readCSV reads a delimited text stream into a header plus raw string rows.
// Ragged rows are a structural failure, not a recoverable anomaly: the
// resulting dataset could not share a common field set.
func readCSV(r io.Reader) ([]string, [][]string, error) {
	// UTF-8 assumed; a BOM (UTF-8 or UTF-16) switches the decoder.
	decoder := unicode.UTF8.NewDecoder()
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(decoder)))
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, nil, errors.NewMalformedInputError("csv", "empty input: no header row", nil)
		}
		return nil, nil, csvError(err)
	}

	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, csvError(err)
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// csvError converts an encoding/csv error into a MalformedInputError,
// carrying the parser's line/column position when it reports one.
func csvError(err error) error {
	var parseErr *csv.ParseError
	if stderrors.As(err, &parseErr) {
		return &errors.MalformedInputError{
			Format:  "csv",
			Row:     parseErr.Line,
			Column:  parseErr.Column,
			Message: parseErr.Err.Error(),
			Err:     err,
		}
	}
	return errors.NewMalformedInputError("csv", err.Error(), err)
}
