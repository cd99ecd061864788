package dataset

import (
	"bytes"
	"encoding/json"
)

// Field describes one column of a dataset with its inferred scalar kind.
type Field struct {
	Name string `json:"name"`
	Kind Kind   `json:"-"`
}

// Record is an ordered mapping from field name to Value. Records are
// immutable once created by the loader; accessors return copies of any
// mutable internals.
type Record struct {
	fields []string
	values map[string]Value
}

// NewRecord builds a record over the given field order. Fields without an
// entry in values hold the missing marker.
func NewRecord(fields []string, values map[string]Value) Record {
	f := make([]string, len(fields))
	copy(f, fields)
	m := make(map[string]Value, len(fields))
	for _, name := range f {
		if v, ok := values[name]; ok {
			m[name] = v
		} else {
			m[name] = Missing()
		}
	}
	return Record{fields: f, values: m}
}

// Fields returns the record's field names in order.
func (r Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Value returns the value for the named field and whether the field exists.
func (r Record) Value(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// MarshalJSON renders the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is an ordered sequence of records sharing a common field set.
// The schema is inferred per load, not fixed across uploads. A dataset with
// zero data rows is valid.
type Dataset struct {
	fields  []Field
	records []Record
}

// New builds a dataset from a schema and records.
func New(fields []Field, records []Record) *Dataset {
	f := make([]Field, len(fields))
	copy(f, fields)
	r := make([]Record, len(records))
	copy(r, records)
	return &Dataset{fields: f, records: r}
}

// Fields returns the inferred schema in column order.
func (d *Dataset) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// FieldNames returns the column names in order.
func (d *Dataset) FieldNames() []string {
	out := make([]string, len(d.fields))
	for i, f := range d.fields {
		out[i] = f.Name
	}
	return out
}

// HasField reports whether the dataset's schema contains the named column.
func (d *Dataset) HasField(name string) bool {
	for _, f := range d.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Records returns the data rows in load order.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.records)
}
