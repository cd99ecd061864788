// Package store holds the last-loaded A, B, and combined datasets with a
// bounded lifetime. It owns no parsing or join logic; its one significant
// rule is that a put cascades into a combined rebuild whenever both inputs
// exist, and eviction of either input invalidates the combined result.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dbsyncr/dbsyncr/pkg/dataset"
	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/logging"
	"github.com/dbsyncr/dbsyncr/pkg/mappings"
	"github.com/dbsyncr/dbsyncr/pkg/reconcile"
)

// Slot identifies one of the store's dataset positions.
type Slot string

const (
	// SlotA is the Source A input position.
	SlotA Slot = "A"
	// SlotB is the Source B input position.
	SlotB Slot = "B"
	// SlotCombined is the derived reconciled view. It is read-only:
	// combined data is always rebuilt from A, B, and the mapping.
	SlotCombined Slot = "combined"
)

// entry is one held input dataset with its write metadata.
type entry struct {
	ds        *dataset.Dataset
	writtenAt time.Time
	uploadID  uuid.UUID
}

// combinedEntry is the held reconciliation result with its write time.
type combinedEntry struct {
	result    *reconcile.Result
	writtenAt time.Time
}

// Meta describes a held dataset without exposing its contents.
type Meta struct {
	Records   int       `json:"records"`
	WrittenAt time.Time `json:"writtenAt"`
	UploadID  uuid.UUID `json:"uploadId"`
}

// PutResult reports what a put did, making the cascade auditable instead of
// an implicit side effect.
type PutResult struct {
	UploadID uuid.UUID           `json:"uploadId"`
	Cascaded bool                `json:"cascaded"`
	Warnings []reconcile.Warning `json:"warnings,omitempty"`
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source, used by eviction tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// Store is the temporary holder for the (A, B, combined) triple. One RWMutex
// spans the whole triple: writers (put, evict) hold it exclusively for the
// duration of the mutation plus any cascaded rebuild, so readers see either
// the pre-update or the fully-updated state, never a torn intermediate.
type Store struct {
	mu       sync.RWMutex
	registry *mappings.Registry
	clock    func() time.Time

	a        *entry
	b        *entry
	combined *combinedEntry
}

// New creates an empty store bound to the given mapping registry.
func New(registry *mappings.Registry, opts ...Option) *Store {
	s := &Store{
		registry: registry,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put overwrites an input slot and synchronously rebuilds the combined
// result when both inputs are present and a mapping is configured.
// Concurrent puts to the same slot are not queued or merged: the later put
// to complete wins.
//
// A structural reconcile failure (missing linking field) is returned, but
// the new dataset still replaces its slot and the prior combined result is
// left untouched.
func (s *Store) Put(slot Slot, ds *dataset.Dataset) (PutResult, error) {
	if slot != SlotA && slot != SlotB {
		return PutResult{}, fmt.Errorf("%w: put accepts slots A and B, got %q", errors.ErrInvalidInput, slot)
	}
	if ds == nil {
		return PutResult{}, errors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{ds: ds, writtenAt: s.clock(), uploadID: uuid.New()}
	if slot == SlotA {
		s.a = e
	} else {
		s.b = e
	}

	logging.Info().
		Str("slot", string(slot)).
		Str("upload_id", e.uploadID.String()).
		Int("records", ds.Len()).
		Msg("Dataset stored")

	result := PutResult{UploadID: e.uploadID}
	cascaded, warnings, err := s.rebuildLocked()
	result.Cascaded = cascaded
	result.Warnings = warnings
	return result, err
}

// Rebuild re-derives the combined result from the current inputs and
// mapping. Called after a mapping change; a no-op when either input is
// absent or no mapping is configured.
func (s *Store) Rebuild() (PutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cascaded, warnings, err := s.rebuildLocked()
	return PutResult{Cascaded: cascaded, Warnings: warnings}, err
}

// rebuildLocked runs the cascade under the already-held write lock. The
// combined result is swapped atomically on success and left untouched on a
// structural failure, so a bad mapping never wipes good results.
func (s *Store) rebuildLocked() (bool, []reconcile.Warning, error) {
	if s.a == nil || s.b == nil || !s.registry.Configured() {
		return false, nil, nil
	}

	m, err := s.registry.Get()
	if err != nil {
		return false, nil, err
	}

	result, err := reconcile.Reconcile(s.a.ds, s.b.ds, m)
	if err != nil {
		return false, nil, err
	}

	s.combined = &combinedEntry{result: result, writtenAt: s.clock()}
	return true, result.Warnings, nil
}

// Dataset returns the held dataset for an input slot, or ErrNotLoaded.
func (s *Store) Dataset(slot Slot) (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.entryLocked(slot)
	if err != nil {
		return nil, err
	}
	return e.ds, nil
}

// Combined returns the current reconciliation result, or ErrNotLoaded when
// no combined data exists (one or both inputs absent, or not yet rebuilt).
func (s *Store) Combined() (*reconcile.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.combined == nil {
		return nil, errors.ErrNotLoaded
	}
	return s.combined.result, nil
}

// Meta returns write metadata for an input slot, or ErrNotLoaded.
func (s *Store) Meta(slot Slot) (Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.entryLocked(slot)
	if err != nil {
		return Meta{}, err
	}
	return Meta{Records: e.ds.Len(), WrittenAt: e.writtenAt, UploadID: e.uploadID}, nil
}

func (s *Store) entryLocked(slot Slot) (*entry, error) {
	switch slot {
	case SlotA:
		if s.a == nil {
			return nil, errors.ErrNotLoaded
		}
		return s.a, nil
	case SlotB:
		if s.b == nil {
			return nil, errors.ErrNotLoaded
		}
		return s.b, nil
	default:
		return nil, errors.ErrNotLoaded
	}
}

// Invalidate drops the combined result. Input slots are untouched.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.combined = nil
	s.mu.Unlock()
}

// EvictExpired removes any slot whose last write is older than ttl and
// returns the evicted slots. Combined data's validity is derivative of both
// inputs: evicting A or B clears the combined result too, and it must never
// outlive them. The triggering mechanism (timer, cron) lives with the
// caller; this is policy only.
func (s *Store) EvictExpired(ttl time.Duration) []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	var evicted []Slot

	if s.a != nil && now.Sub(s.a.writtenAt) > ttl {
		s.a = nil
		evicted = append(evicted, SlotA)
	}
	if s.b != nil && now.Sub(s.b.writtenAt) > ttl {
		s.b = nil
		evicted = append(evicted, SlotB)
	}

	inputEvicted := len(evicted) > 0
	if s.combined != nil && (inputEvicted || now.Sub(s.combined.writtenAt) > ttl) {
		s.combined = nil
		evicted = append(evicted, SlotCombined)
	}

	if len(evicted) > 0 {
		slots := make([]string, len(evicted))
		for i, sl := range evicted {
			slots[i] = string(sl)
		}
		logging.Info().Strs("slots", slots).Dur("ttl", ttl).Msg("Evicted expired datasets")
	}

	return evicted
}
