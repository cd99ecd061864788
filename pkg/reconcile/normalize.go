package reconcile

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dbsyncr/dbsyncr/pkg/dataset"
)

var foldCaser = cases.Fold()

// NormalizeKey canonicalizes a linking-key value for comparison: whitespace
// is trimmed, strings are case-folded, and numeric-looking values collapse
// to one canonical numeric form so "5", 5, and 5.0 compare equal. Missing
// keys normalize to the empty string.
func NormalizeKey(v dataset.Value) string {
	switch v.Kind() {
	case dataset.KindMissing:
		return ""
	case dataset.KindNumber:
		return strconv.FormatFloat(v.NumberVal(), 'g', -1, 64)
	case dataset.KindBool:
		return strconv.FormatBool(v.BoolVal())
	default:
		s := strings.TrimSpace(v.StringVal())
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return foldCaser.String(s)
	}
}
