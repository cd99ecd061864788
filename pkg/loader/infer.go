package loader

import (
	"strconv"
	"strings"

	"github.com/dbsyncr/dbsyncr/pkg/dataset"
)

// boolTokens are the recognized textual boolean forms, keyed lowercase.
var boolTokens = map[string]bool{
	"true":  true,
	"false": false,
	"yes":   true,
	"no":    false,
	"y":     true,
	"n":     false,
	"1":     true,
	"0":     false,
}

// inferKinds infers the narrowest scalar kind per column. Precedence:
// numeric if every non-empty cell parses as a number, else bool if the
// column is binary-valued over the recognized tokens, else string. A column
// with no non-empty cells stays string. "1"/"0" columns therefore infer as
// numeric, not bool.
func inferKinds(header []string, rows [][]string) []dataset.Kind {
	kinds := make([]dataset.Kind, len(header))

	for ci := range header {
		allNumeric := true
		allBool := true
		nonEmpty := 0

		for _, row := range rows {
			cell := strings.TrimSpace(row[ci])
			if cell == "" {
				continue
			}
			nonEmpty++

			if allNumeric {
				if _, err := strconv.ParseFloat(cell, 64); err != nil {
					allNumeric = false
				}
			}
			if allBool {
				if _, ok := boolTokens[strings.ToLower(cell)]; !ok {
					allBool = false
				}
			}
			if !allNumeric && !allBool {
				break
			}
		}

		switch {
		case nonEmpty == 0:
			kinds[ci] = dataset.KindString
		case allNumeric:
			kinds[ci] = dataset.KindNumber
		case allBool:
			kinds[ci] = dataset.KindBool
		default:
			kinds[ci] = dataset.KindString
		}
	}

	return kinds
}

// coerce converts one raw cell into a Value of the column's inferred kind.
// Empty cells become the missing marker, never the literal empty string.
func coerce(cell string, kind dataset.Kind) dataset.Value {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return dataset.Missing()
	}

	switch kind {
	case dataset.KindNumber:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			// Inference guarantees this parses; fall back to text if not.
			return dataset.String(cell)
		}
		return dataset.Number(f)
	case dataset.KindBool:
		return dataset.Bool(boolTokens[strings.ToLower(trimmed)])
	default:
		return dataset.String(cell)
	}
}
