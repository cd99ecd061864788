package dataset_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsyncr/dbsyncr/pkg/dataset"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name    string
		value   dataset.Value
		kind    dataset.Kind
		missing bool
		text    string
	}{
		{"string", dataset.String("hello"), dataset.KindString, false, "hello"},
		{"number integral", dataset.Number(5), dataset.KindNumber, false, "5"},
		{"number fractional", dataset.Number(12.5), dataset.KindNumber, false, "12.5"},
		{"bool", dataset.Bool(true), dataset.KindBool, false, "true"},
		{"missing", dataset.Missing(), dataset.KindMissing, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.missing, tt.value.IsMissing())
			assert.Equal(t, tt.text, tt.value.Format())
		})
	}
}

func TestValueEqual(t *testing.T) {
	assert.True(t, dataset.Number(5).Equal(dataset.Number(5)))
	assert.False(t, dataset.Number(5).Equal(dataset.String("5")))
	assert.True(t, dataset.Missing().Equal(dataset.Missing()))
	assert.True(t, dataset.Number(math.NaN()).Equal(dataset.Number(math.NaN())))
	assert.False(t, dataset.Bool(true).Equal(dataset.Bool(false)))
}

func TestValueJSON(t *testing.T) {
	tests := []struct {
		name  string
		value dataset.Value
		want  string
	}{
		{"string", dataset.String("x"), `"x"`},
		{"number", dataset.Number(10), `10`},
		{"bool", dataset.Bool(false), `false`},
		{"missing", dataset.Missing(), `null`},
		{"nan", dataset.Number(math.NaN()), `null`},
		{"inf", dataset.Number(math.Inf(1)), `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRecordOrderAndJSON(t *testing.T) {
	rec := dataset.NewRecord(
		[]string{"SKU", "Price", "Active"},
		map[string]dataset.Value{
			"SKU":    dataset.String("X1"),
			"Active": dataset.Bool(true),
		},
	)

	assert.Equal(t, []string{"SKU", "Price", "Active"}, rec.Fields())

	v, ok := rec.Value("Price")
	require.True(t, ok)
	assert.True(t, v.IsMissing(), "unset field should hold the missing marker")

	_, ok = rec.Value("nope")
	assert.False(t, ok)

	got, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"SKU":"X1","Price":null,"Active":true}`, string(got))
}

func TestDataset(t *testing.T) {
	fields := []dataset.Field{
		{Name: "SKU", Kind: dataset.KindString},
		{Name: "Price", Kind: dataset.KindNumber},
	}
	rec := dataset.NewRecord([]string{"SKU", "Price"}, map[string]dataset.Value{
		"SKU":   dataset.String("X1"),
		"Price": dataset.Number(10),
	})

	ds := dataset.New(fields, []dataset.Record{rec})
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, []string{"SKU", "Price"}, ds.FieldNames())
	assert.True(t, ds.HasField("Price"))
	assert.False(t, ds.HasField("Cost"))

	empty := dataset.New(fields, nil)
	assert.Equal(t, 0, empty.Len(), "zero data rows is a valid dataset")
}
