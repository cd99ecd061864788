package mappings

import (
	"sync"

	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/logging"
)

// Registry holds the current field mapping. Reads return a copy; the held
// mapping is only ever replaced whole by a successful Set, so a failed Set
// never leaves a partial update behind.
type Registry struct {
	mu      sync.RWMutex
	mapping *Mapping
}

// NewRegistry creates an empty registry. Get fails with
// ErrMappingNotConfigured until the first successful Set.
func NewRegistry() *Registry {
	return &Registry{}
}

// Set validates and installs a new mapping. On validation failure the
// previous mapping is retained unchanged.
func (r *Registry) Set(m Mapping) error {
	if err := m.Validate(); err != nil {
		logging.Warn().Err(err).Msg("Rejected field mapping update")
		return err
	}

	installed := m.clone()

	r.mu.Lock()
	r.mapping = &installed
	r.mu.Unlock()

	logging.Debug().Int("pairs", len(installed.Pairs)).Msg("Field mapping updated")
	return nil
}

// Get returns a copy of the current mapping, or ErrMappingNotConfigured if
// none was ever set.
func (r *Registry) Get() (Mapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.mapping == nil {
		return Mapping{}, errors.ErrMappingNotConfigured
	}
	return r.mapping.clone(), nil
}

// Configured reports whether a mapping has been set.
func (r *Registry) Configured() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mapping != nil
}
