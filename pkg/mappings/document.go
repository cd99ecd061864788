package mappings

import (
	"github.com/goccy/go-yaml"

	"github.com/dbsyncr/dbsyncr/pkg/errors"
)

// document is the YAML form of a mapping configuration:
//
//	names:
//	  sourceA: Netsuite
//	  sourceB: Shopify
//	mappings:
//	  - sourceA: SKU
//	    sourceB: Product Code
//	    role: identity
//	  - sourceA: Price
//	    sourceB: Unit Price
//	    role: data
//
// The role field defaults to data when omitted.
type document struct {
	Names struct {
		SourceA string `yaml:"sourceA"`
		SourceB string `yaml:"sourceB"`
	} `yaml:"names"`
	Mappings []Pair `yaml:"mappings"`
}

// ParseDocument decodes a YAML mapping document. Structural YAML failures
// return a MalformedInputError; mapping invariants are checked by
// Registry.Set, not here.
func ParseDocument(data []byte) (Mapping, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Mapping{}, errors.NewMalformedInputError("yaml", "decoding mapping document", err)
	}

	pairs := make([]Pair, len(doc.Mappings))
	for i, p := range doc.Mappings {
		if p.Role == "" {
			p.Role = RoleData
		}
		pairs[i] = p
	}

	return Mapping{
		Pairs: pairs,
		NameA: doc.Names.SourceA,
		NameB: doc.Names.SourceB,
	}, nil
}

// MarshalDocument encodes the mapping back to its YAML document form.
func (m Mapping) MarshalDocument() ([]byte, error) {
	var doc document
	doc.Names.SourceA = m.NameA
	doc.Names.SourceB = m.NameB
	doc.Mappings = make([]Pair, len(m.Pairs))
	copy(doc.Mappings, m.Pairs)
	return yaml.Marshal(doc)
}
