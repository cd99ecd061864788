package reconcile

import (
	"fmt"
	"time"

	"github.com/dbsyncr/dbsyncr/pkg/dataset"
)

// MatchStatus classifies a combined record as joined or one-sided.
type MatchStatus string

const (
	// Matched means the linking key is present and equal (after
	// normalization) in both sources.
	Matched MatchStatus = "matched"
	// LeftOnly means the key appears only in Source A.
	LeftOnly MatchStatus = "left_only"
	// RightOnly means the key appears only in Source B.
	RightOnly MatchStatus = "right_only"
)

// CombinedRecord is one row of the reconciled view. SourceA/SourceB are nil
// on the side where the key is absent. Merged presents the single logical
// record produced by applying the mapping's data pairs, keyed by Source A
// field names.
type CombinedRecord struct {
	Status  MatchStatus     `json:"matchStatus"`
	Key     string          `json:"key"`
	SourceA *dataset.Record `json:"sourceAFields,omitempty"`
	SourceB *dataset.Record `json:"sourceBFields,omitempty"`
	Merged  dataset.Record  `json:"mergedFields"`
}

// WarningKind identifies a class of non-fatal reconciliation anomaly.
type WarningKind string

// WarningDuplicateKey records a key occurring more than once within one
// side. Joining keeps the first occurrence; later rows are skipped.
const WarningDuplicateKey WarningKind = "duplicate_key"

// Warning is a non-fatal anomaly attached to a run's result metadata.
type Warning struct {
	Kind WarningKind `json:"kind"`
	Slot string      `json:"slot"` // "A" or "B"
	Key  string      `json:"key"`  // normalized key
	Row  int         `json:"row"`  // 1-based data row of the skipped occurrence
}

// String renders the warning for logs and reports.
func (w Warning) String() string {
	return fmt.Sprintf("%s: slot %s key %q at row %d (first occurrence kept)", w.Kind, w.Slot, w.Key, w.Row)
}

// Stats summarizes one reconciliation run.
type Stats struct {
	Matched     int           `json:"matched"`
	LeftOnly    int           `json:"leftOnly"`
	RightOnly   int           `json:"rightOnly"`
	DuplicatesA int           `json:"duplicatesA"`
	DuplicatesB int           `json:"duplicatesB"`
	StartTime   time.Time     `json:"startTime"`
	Duration    time.Duration `json:"duration"`
}

// Result is the outcome of a reconciliation run: the full combined record
// set plus warnings and statistics. Data-level anomalies land in Warnings;
// only structural errors abort a run entirely.
type Result struct {
	Records  []CombinedRecord `json:"records"`
	Warnings []Warning        `json:"warnings,omitempty"`
	Stats    Stats            `json:"stats"`
}

// HasWarnings reports whether any non-fatal anomalies were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Summary returns a one-line human-readable digest of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d matched, %d left-only, %d right-only, %d warnings",
		r.Stats.Matched, r.Stats.LeftOnly, r.Stats.RightOnly, len(r.Warnings))
}
