// Package dataset defines the schema-agnostic tabular data model shared by
// the loader, reconciliation engine, store, and export engine. A Dataset is
// an ordered sequence of immutable Records over a per-load inferred schema.
package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	// KindMissing is the explicit "no value" marker, distinct from the
	// empty string, zero, and false.
	KindMissing Kind = iota
	// KindString holds arbitrary text.
	KindString
	// KindNumber holds a float64.
	KindNumber
	// KindBool holds a boolean.
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged scalar: string, number, bool, or missing.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Missing returns the missing-value marker.
func Missing() Value {
	return Value{kind: KindMissing}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the scalar type of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsMissing reports whether the value is the missing marker.
func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// StringVal returns the held string. Zero value for other kinds.
func (v Value) StringVal() string {
	return v.str
}

// NumberVal returns the held number. Zero value for other kinds.
func (v Value) NumberVal() float64 {
	return v.num
}

// BoolVal returns the held bool. Zero value for other kinds.
func (v Value) BoolVal() bool {
	return v.b
}

// Format renders the value as text. Missing renders as the empty string;
// numbers use the shortest representation that round-trips (strconv 'g' with
// precision -1), so integral numbers render without a trailing ".0".
func (v Value) Format() string {
	switch v.kind {
	case KindMissing:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Equal reports whether two values hold the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindMissing:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		if math.IsNaN(v.num) && math.IsNaN(other.num) {
			return true
		}
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	default:
		return false
	}
}

// MarshalJSON renders missing as null and other kinds as native JSON
// scalars. Non-finite numbers marshal as null since JSON has no NaN/Inf.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}
