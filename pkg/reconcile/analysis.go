package reconcile

import (
	"sort"
	"time"

	"github.com/dbsyncr/dbsyncr/pkg/dataset"
	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/mappings"
)

// Analysis reports how well the two sources line up on the linking key
// without building combined records. Key lists hold distinct normalized
// keys, sorted for stable output.
type Analysis struct {
	TotalA    int       `json:"totalA"`
	TotalB    int       `json:"totalB"`
	Matched   int       `json:"matched"`
	OnlyA     int       `json:"onlyA"`
	OnlyB     int       `json:"onlyB"`
	MatchRate float64   `json:"matchRate"` // percent of distinct keys present in both
	OnlyAKeys []string  `json:"onlyAKeys"`
	OnlyBKeys []string  `json:"onlyBKeys"`
	Timestamp time.Time `json:"timestamp"`
}

// Analyze computes the unmatched-items analysis for two datasets under the
// given mapping. Totals count distinct normalized keys per side.
func Analyze(a, b *dataset.Dataset, m mappings.Mapping) (*Analysis, error) {
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

	keysA := keySet(a, identity.SourceA)
	keysB := keySet(b, identity.SourceB)

	analysis := &Analysis{
		TotalA:    len(keysA),
		TotalB:    len(keysB),
		OnlyAKeys: []string{},
		OnlyBKeys: []string{},
		Timestamp: time.Now(),
	}

	for k := range keysA {
		if keysB[k] {
			analysis.Matched++
		} else {
			analysis.OnlyAKeys = append(analysis.OnlyAKeys, k)
		}
	}
	for k := range keysB {
		if !keysA[k] {
			analysis.OnlyBKeys = append(analysis.OnlyBKeys, k)
		}
	}

	sort.Strings(analysis.OnlyAKeys)
	sort.Strings(analysis.OnlyBKeys)
	analysis.OnlyA = len(analysis.OnlyAKeys)
	analysis.OnlyB = len(analysis.OnlyBKeys)

	totalDistinct := analysis.Matched + analysis.OnlyA + analysis.OnlyB
	if totalDistinct > 0 {
		analysis.MatchRate = float64(analysis.Matched) / float64(totalDistinct) * 100
	}

	return analysis, nil
}

// keySet collects the distinct normalized keys of one side.
func keySet(ds *dataset.Dataset, keyField string) map[string]bool {
	set := make(map[string]bool, ds.Len())
	for _, rec := range ds.Records() {
		raw, _ := rec.Value(keyField)
		set[NormalizeKey(raw)] = true
	}
	return set
}
