package dbsyncr_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsyncr/dbsyncr"
	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/loader"
	"github.com/dbsyncr/dbsyncr/pkg/mappings"
)

const mappingDoc = `
names:
  sourceA: Warehouse
  sourceB: Storefront
mappings:
  - sourceA: SKU
    sourceB: Product Code
    role: identity
  - sourceA: Price
    sourceB: Unit Price
    role: data
`

const (
	csvA = "SKU,Price\nX1,10\nX2,20\n"
	csvB = "Product Code,Unit Price\nX1,12\nX3,30\n"
)

func newSession(t *testing.T, opts ...dbsyncr.Option) dbsyncr.Syncr {
	t.Helper()

	opts = append([]dbsyncr.Option{dbsyncr.WithMappingDocument([]byte(mappingDoc))}, opts...)
	sx, err := dbsyncr.New(opts...)
	require.NoError(t, err)
	return sx
}

func loadBoth(t *testing.T, sx dbsyncr.Syncr) {
	t.Helper()

	_, err := sx.LoadInto(dbsyncr.SlotA, strings.NewReader(csvA), loader.FormatCSV)
	require.NoError(t, err)
	res, err := sx.LoadInto(dbsyncr.SlotB, strings.NewReader(csvB), loader.FormatCSV)
	require.NoError(t, err)
	require.True(t, res.Cascaded)
}

func TestNewRejectsInvalidMapping(t *testing.T) {
	_, err := dbsyncr.New(dbsyncr.WithMapping(mappings.Mapping{
		Pairs: []mappings.Pair{{SourceA: "A", SourceB: "B", Role: mappings.RoleData}},
	}))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidMapping(err))
}

func TestLoadReconcileExport(t *testing.T) {
	sx := newSession(t)
	loadBoth(t, sx)

	combined, err := sx.Combined()
	require.NoError(t, err)
	assert.Equal(t, 1, combined.Stats.Matched)
	assert.Equal(t, 1, combined.Stats.LeftOnly)
	assert.Equal(t, 1, combined.Stats.RightOnly)

	var buf bytes.Buffer
	require.NoError(t, sx.Export(dbsyncr.SlotCombined, &buf, loader.FormatCSV))
	assert.Equal(t, "SKU,Price,match_status\nX1,10,matched\nX2,20,left_only\nX3,30,right_only\n", buf.String())
}

func TestExportInputSlot(t *testing.T) {
	sx := newSession(t)
	loadBoth(t, sx)

	var buf bytes.Buffer
	require.NoError(t, sx.Export(dbsyncr.SlotA, &buf, loader.FormatCSV))
	assert.Equal(t, csvA, buf.String())
}

func TestExportBeforeLoad(t *testing.T) {
	sx := newSession(t)

	var buf bytes.Buffer
	err := sx.Export(dbsyncr.SlotCombined, &buf, loader.FormatCSV)
	assert.True(t, errors.IsNotLoaded(err))
	assert.Zero(t, buf.Len())
}

func TestSetMappingRebuilds(t *testing.T) {
	sx := newSession(t)
	loadBoth(t, sx)

	// Narrow the mapping to the identity pair only.
	err := sx.SetMapping(mappings.Mapping{
		Pairs: []mappings.Pair{{SourceA: "SKU", SourceB: "Product Code", Role: mappings.RoleIdentity}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sx.Export(dbsyncr.SlotCombined, &buf, loader.FormatCSV))
	assert.Equal(t, "SKU,match_status\nX1,matched\nX2,left_only\nX3,right_only\n", buf.String())
}

func TestSetMappingRejectedKeepsPrevious(t *testing.T) {
	sx := newSession(t)
	loadBoth(t, sx)

	err := sx.SetMapping(mappings.Mapping{})
	require.Error(t, err)

	m, err := sx.Mapping()
	require.NoError(t, err)
	assert.Len(t, m.Pairs, 2)

	_, err = sx.Combined()
	assert.NoError(t, err)
}

func TestMappingDisplayNames(t *testing.T) {
	sx := newSession(t)

	m, err := sx.Mapping()
	require.NoError(t, err)
	assert.Equal(t, "Warehouse", m.DisplayNameA())
	assert.Equal(t, "Storefront", m.DisplayNameB())
}

func TestAnalyze(t *testing.T) {
	sx := newSession(t)
	loadBoth(t, sx)

	analysis, err := sx.Analyze()
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.Matched)
	assert.Equal(t, []string{"x2"}, analysis.OnlyAKeys)
	assert.Equal(t, []string{"x3"}, analysis.OnlyBKeys)
}

func TestAnalyzeRequiresBothInputs(t *testing.T) {
	sx := newSession(t)

	_, err := sx.LoadInto(dbsyncr.SlotA, strings.NewReader(csvA), loader.FormatCSV)
	require.NoError(t, err)

	_, err = sx.Analyze()
	assert.True(t, errors.IsNotLoaded(err))
}

func TestSummary(t *testing.T) {
	sx := newSession(t)

	summary := sx.Summary()
	assert.False(t, summary.SourceA.Loaded)
	assert.True(t, summary.MappingConfigured)
	assert.Equal(t, 2, summary.MappingPairs)
	assert.False(t, summary.CombinedReady)

	loadBoth(t, sx)

	summary = sx.Summary()
	assert.True(t, summary.SourceA.Loaded)
	assert.Equal(t, 2, summary.SourceA.Records)
	assert.Equal(t, []string{"SKU", "Price"}, summary.SourceA.Fields)
	assert.True(t, summary.CombinedReady)
	assert.Equal(t, 3, summary.CombinedRecords)
}

func TestEvictExpired(t *testing.T) {
	sx := newSession(t, dbsyncr.WithTTL(-time.Second))
	loadBoth(t, sx)

	evicted := sx.EvictExpired()
	assert.Len(t, evicted, 3)

	_, err := sx.Combined()
	assert.True(t, errors.IsNotLoaded(err))
	_, err = sx.Dataset(dbsyncr.SlotA)
	assert.True(t, errors.IsNotLoaded(err))
}

func TestDefaultTTL(t *testing.T) {
	sx := newSession(t)
	assert.Equal(t, dbsyncr.DefaultTTL, sx.TTL())
}
