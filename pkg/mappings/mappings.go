// Package mappings holds the validated correspondence between Source A and
// Source B field names. A Mapping is an ordered list of field pairs, exactly
// one of which carries the identity role and designates the linking key; all
// other pairs carry the data role and drive merged-field computation.
package mappings

import (
	"strings"

	"github.com/dbsyncr/dbsyncr/pkg/errors"
)

// Role annotates a field pair's semantic function.
type Role string

const (
	// RoleIdentity marks the single linking key pair.
	RoleIdentity Role = "identity"
	// RoleData marks all other pairs.
	RoleData Role = "data"
)

// Pair is one correspondence between a Source A field and a Source B field.
type Pair struct {
	SourceA string `yaml:"sourceA" json:"sourceA"`
	SourceB string `yaml:"sourceB" json:"sourceB"`
	Role    Role   `yaml:"role" json:"role"`
}

// Mapping is an ordered list of field pairs plus optional display names for
// the two sources. Mappings are replaced whole, never mutated in place.
type Mapping struct {
	Pairs []Pair
	// NameA and NameB are display names for the sources, used in export
	// headers and CLI output. Empty means the defaults "A" and "B".
	NameA string
	NameB string
}

// DisplayNameA returns the Source A display name, defaulting to "A".
func (m Mapping) DisplayNameA() string {
	if m.NameA != "" {
		return m.NameA
	}
	return "A"
}

// DisplayNameB returns the Source B display name, defaulting to "B".
func (m Mapping) DisplayNameB() string {
	if m.NameB != "" {
		return m.NameB
	}
	return "B"
}

// Identity returns the linking key pair. ok is false when the mapping holds
// no identity pair (an invalid mapping that never passed validation).
func (m Mapping) Identity() (Pair, bool) {
	for _, p := range m.Pairs {
		if p.Role == RoleIdentity {
			return p, true
		}
	}
	return Pair{}, false
}

// DataPairs returns the non-identity pairs in declared order.
func (m Mapping) DataPairs() []Pair {
	out := make([]Pair, 0, len(m.Pairs))
	for _, p := range m.Pairs {
		if p.Role == RoleData {
			out = append(out, p)
		}
	}
	return out
}

// clone returns a deep copy so registry reads never alias caller slices.
func (m Mapping) clone() Mapping {
	pairs := make([]Pair, len(m.Pairs))
	copy(pairs, m.Pairs)
	return Mapping{Pairs: pairs, NameA: m.NameA, NameB: m.NameB}
}

// Validate checks the mapping invariants: exactly one identity pair,
// non-empty field names, and no field name mapped twice on either side.
// Returns an InvalidMappingError naming the violated rule.
func (m Mapping) Validate() error {
	if len(m.Pairs) == 0 {
		return errors.NewInvalidMappingError("mapping must contain at least one pair")
	}

	identities := 0
	seenA := make(map[string]bool, len(m.Pairs))
	seenB := make(map[string]bool, len(m.Pairs))

	for _, p := range m.Pairs {
		a := strings.TrimSpace(p.SourceA)
		b := strings.TrimSpace(p.SourceB)
		if a == "" || b == "" {
			return errors.NewInvalidMappingError("field names must be non-empty")
		}

		switch p.Role {
		case RoleIdentity:
			identities++
		case RoleData:
		default:
			return errors.NewInvalidMappingError("unknown role "+string(p.Role), a, b)
		}

		if seenA[a] {
			return errors.NewInvalidMappingError("field mapped twice on side A", a)
		}
		if seenB[b] {
			return errors.NewInvalidMappingError("field mapped twice on side B", b)
		}
		seenA[a] = true
		seenB[b] = true
	}

	if identities != 1 {
		return errors.NewInvalidMappingError("exactly one identity pair required")
	}
	return nil
}
