// Package reconcile joins two loaded datasets via a field mapping and builds
// the combined record set with an explicit match status per record.
//
// The engine is deterministic: combined records are emitted Matched first in
// Source A row order, then LeftOnly in Source A row order, then RightOnly in
// Source B row order, independent of index internals. Duplicate keys within
// one side keep the first occurrence and degrade into warnings; only a
// missing linking field aborts a run.
package reconcile

import (
	"time"

	"github.com/dbsyncr/dbsyncr/pkg/dataset"
	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/logging"
	"github.com/dbsyncr/dbsyncr/pkg/mappings"
)

// sideIndex holds one side's records indexed by normalized key, first
// occurrence wins, with key order preserved.
type sideIndex struct {
	byKey map[string]dataset.Record
	order []string
}

// Reconcile joins datasets A and B using the mapping's identity pair and
// computes merged fields per data pair. It returns a MissingKeyFieldError if
// either dataset lacks the linking field; the caller must then leave any
// prior combined dataset untouched.
func Reconcile(a, b *dataset.Dataset, m mappings.Mapping) (*Result, error) {
	start := time.Now()

	identity, ok := m.Identity()
	if !ok {
		return nil, errors.NewInvalidMappingError("exactly one identity pair required")
	}
	if !a.HasField(identity.SourceA) {
		return nil, errors.NewMissingKeyFieldError("A", identity.SourceA)
	}
	if !b.HasField(identity.SourceB) {
		return nil, errors.NewMissingKeyFieldError("B", identity.SourceB)
	}

	result := &Result{Stats: Stats{StartTime: start}}

	idxA := buildIndex(a, identity.SourceA, "A", result)
	idxB := buildIndex(b, identity.SourceB, "B", result)

	// Matched in A row order.
	for _, key := range idxA.order {
		recA := idxA.byKey[key]
		if recB, both := idxB.byKey[key]; both {
			result.Records = append(result.Records, combine(Matched, key, &recA, &recB, m))
			result.Stats.Matched++
		}
	}

	// LeftOnly in A row order.
	for _, key := range idxA.order {
		recA := idxA.byKey[key]
		if _, both := idxB.byKey[key]; !both {
			result.Records = append(result.Records, combine(LeftOnly, key, &recA, nil, m))
			result.Stats.LeftOnly++
		}
	}

	// RightOnly in B row order.
	for _, key := range idxB.order {
		recB := idxB.byKey[key]
		if _, both := idxA.byKey[key]; !both {
			result.Records = append(result.Records, combine(RightOnly, key, nil, &recB, m))
			result.Stats.RightOnly++
		}
	}

	result.Stats.Duration = time.Since(start)

	logging.Debug().
		Int("matched", result.Stats.Matched).
		Int("left_only", result.Stats.LeftOnly).
		Int("right_only", result.Stats.RightOnly).
		Int("warnings", len(result.Warnings)).
		Dur("duration", result.Stats.Duration).
		Msg("Reconciliation complete")
	for _, w := range result.Warnings {
		logging.Warn().Str("slot", w.Slot).Str("key", w.Key).Int("row", w.Row).Msg("Duplicate linking key")
	}

	return result, nil
}

// buildIndex indexes one side by normalized key, recording duplicates as
// warnings on the result. First occurrence wins.
func buildIndex(ds *dataset.Dataset, keyField, slot string, result *Result) sideIndex {
	idx := sideIndex{byKey: make(map[string]dataset.Record, ds.Len())}

	for i, rec := range ds.Records() {
		raw, _ := rec.Value(keyField)
		key := NormalizeKey(raw)

		if _, dup := idx.byKey[key]; dup {
			result.Warnings = append(result.Warnings, Warning{
				Kind: WarningDuplicateKey,
				Slot: slot,
				Key:  key,
				Row:  i + 1,
			})
			if slot == "A" {
				result.Stats.DuplicatesA++
			} else {
				result.Stats.DuplicatesB++
			}
			continue
		}

		idx.byKey[key] = rec
		idx.order = append(idx.order, key)
	}

	return idx
}

// combine builds one CombinedRecord, computing merged fields per data pair:
// A's value if present and not missing, else B's, else the missing marker.
// A-wins precedence is a named policy of the engine, not an accident.
func combine(status MatchStatus, key string, recA, recB *dataset.Record, m mappings.Mapping) CombinedRecord {
	identity, _ := m.Identity()

	fields := make([]string, 0, len(m.Pairs))
	values := make(map[string]dataset.Value, len(m.Pairs))

	fields = append(fields, identity.SourceA)
	values[identity.SourceA] = mergeValue(recA, identity.SourceA, recB, identity.SourceB)

	for _, pair := range m.DataPairs() {
		fields = append(fields, pair.SourceA)
		values[pair.SourceA] = mergeValue(recA, pair.SourceA, recB, pair.SourceB)
	}

	return CombinedRecord{
		Status:  status,
		Key:     key,
		SourceA: recA,
		SourceB: recB,
		Merged:  dataset.NewRecord(fields, values),
	}
}

// mergeValue resolves one merged field: A wins when present and not missing,
// B fills A's gaps, otherwise missing.
func mergeValue(recA *dataset.Record, fieldA string, recB *dataset.Record, fieldB string) dataset.Value {
	if recA != nil {
		if v, ok := recA.Value(fieldA); ok && !v.IsMissing() {
			return v
		}
	}
	if recB != nil {
		if v, ok := recB.Value(fieldB); ok && !v.IsMissing() {
			return v
		}
	}
	return dataset.Missing()
}
