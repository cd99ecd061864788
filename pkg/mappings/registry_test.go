package mappings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/mappings"
)

func validMapping() mappings.Mapping {
	return mappings.Mapping{
		NameA: "Netsuite",
		NameB: "Shopify",
		Pairs: []mappings.Pair{
			{SourceA: "SKU", SourceB: "Product Code", Role: mappings.RoleIdentity},
			{SourceA: "Price", SourceB: "Unit Price", Role: mappings.RoleData},
		},
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	reg := mappings.NewRegistry()
	want := validMapping()

	require.NoError(t, reg.Set(want))
	got, err := reg.Get()
	require.NoError(t, err)
	assert.Equal(t, want.Pairs, got.Pairs)
	assert.Equal(t, want.NameA, got.NameA)
	assert.Equal(t, want.NameB, got.NameB)
}

func TestRegistryNotConfigured(t *testing.T) {
	reg := mappings.NewRegistry()
	_, err := reg.Get()
	assert.ErrorIs(t, err, errors.ErrMappingNotConfigured)
	assert.False(t, reg.Configured())
}

func TestRegistryRejectsAndRetainsPrevious(t *testing.T) {
	reg := mappings.NewRegistry()
	require.NoError(t, reg.Set(validMapping()))

	bad := mappings.Mapping{Pairs: []mappings.Pair{
		{SourceA: "SKU", SourceB: "Product Code", Role: mappings.RoleData},
	}}
	err := reg.Set(bad)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidMapping(err))

	got, err := reg.Get()
	require.NoError(t, err)
	assert.Equal(t, validMapping().Pairs, got.Pairs, "failed Set must retain previous mapping")
}

func TestMappingValidate(t *testing.T) {
	tests := []struct {
		name    string
		mapping mappings.Mapping
		rule    string
	}{
		{
			name:    "empty mapping",
			mapping: mappings.Mapping{},
			rule:    "at least one pair",
		},
		{
			name: "no identity pair",
			mapping: mappings.Mapping{Pairs: []mappings.Pair{
				{SourceA: "Price", SourceB: "Unit Price", Role: mappings.RoleData},
			}},
			rule: "exactly one identity",
		},
		{
			name: "two identity pairs",
			mapping: mappings.Mapping{Pairs: []mappings.Pair{
				{SourceA: "SKU", SourceB: "Code", Role: mappings.RoleIdentity},
				{SourceA: "UPC", SourceB: "Barcode", Role: mappings.RoleIdentity},
			}},
			rule: "exactly one identity",
		},
		{
			name: "empty field name",
			mapping: mappings.Mapping{Pairs: []mappings.Pair{
				{SourceA: "", SourceB: "Code", Role: mappings.RoleIdentity},
			}},
			rule: "non-empty",
		},
		{
			name: "duplicate on side A",
			mapping: mappings.Mapping{Pairs: []mappings.Pair{
				{SourceA: "SKU", SourceB: "Code", Role: mappings.RoleIdentity},
				{SourceA: "SKU", SourceB: "Alt Code", Role: mappings.RoleData},
			}},
			rule: "twice on side A",
		},
		{
			name: "duplicate on side B",
			mapping: mappings.Mapping{Pairs: []mappings.Pair{
				{SourceA: "SKU", SourceB: "Code", Role: mappings.RoleIdentity},
				{SourceA: "UPC", SourceB: "Code", Role: mappings.RoleData},
			}},
			rule: "twice on side B",
		},
		{
			name: "unknown role",
			mapping: mappings.Mapping{Pairs: []mappings.Pair{
				{SourceA: "SKU", SourceB: "Code", Role: mappings.Role("primary")},
			}},
			rule: "unknown role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mapping.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsInvalidMapping(err))
			assert.Contains(t, err.Error(), tt.rule)
		})
	}
}

func TestMappingAccessors(t *testing.T) {
	m := validMapping()

	id, ok := m.Identity()
	require.True(t, ok)
	assert.Equal(t, "SKU", id.SourceA)
	assert.Equal(t, "Product Code", id.SourceB)

	data := m.DataPairs()
	require.Len(t, data, 1)
	assert.Equal(t, "Price", data[0].SourceA)

	assert.Equal(t, "Netsuite", m.DisplayNameA())
	assert.Equal(t, "B", mappings.Mapping{}.DisplayNameB())
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := []byte(`names:
  sourceA: Netsuite
  sourceB: Shopify
mappings:
  - sourceA: SKU
    sourceB: Product Code
    role: identity
  - sourceA: Price
    sourceB: Unit Price
`)

	m, err := mappings.ParseDocument(doc)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, "Netsuite", m.NameA)
	require.Len(t, m.Pairs, 2)
	assert.Equal(t, mappings.RoleIdentity, m.Pairs[0].Role)
	assert.Equal(t, mappings.RoleData, m.Pairs[1].Role, "omitted role defaults to data")

	out, err := m.MarshalDocument()
	require.NoError(t, err)

	back, err := mappings.ParseDocument(out)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}

func TestParseDocumentMalformed(t *testing.T) {
	_, err := mappings.ParseDocument([]byte("mappings: [\n"))
	require.Error(t, err)
	assert.True(t, errors.IsMalformedInput(err))
}
