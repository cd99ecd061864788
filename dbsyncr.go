// Package dbsyncr reconciles two heterogeneous tabular sources through a
// configurable field mapping. It loads CSV or XLSX data into two slots,
// joins them on a normalized linking key, and holds the combined result in
// a temporary store until it is exported or expires.
//
// Example usage:
//
//	sx, err := dbsyncr.New(
//	    dbsyncr.WithMappingDocument(doc),
//	    dbsyncr.WithTTL(30 * time.Minute),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := sx.LoadInto(dbsyncr.SlotA, fileA, loader.FormatCSV); err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := sx.LoadInto(dbsyncr.SlotB, fileB, loader.FormatXLSX); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Both slots are loaded, so the combined view already exists.
//	if err := sx.Export(dbsyncr.SlotCombined, out, loader.FormatCSV); err != nil {
//	    log.Fatal(err)
//	}
package dbsyncr

import (
	"io"
	"time"

	"github.com/dbsyncr/dbsyncr/pkg/dataset"
	"github.com/dbsyncr/dbsyncr/pkg/errors"
	"github.com/dbsyncr/dbsyncr/pkg/export"
	"github.com/dbsyncr/dbsyncr/pkg/loader"
	"github.com/dbsyncr/dbsyncr/pkg/logging"
	"github.com/dbsyncr/dbsyncr/pkg/mappings"
	"github.com/dbsyncr/dbsyncr/pkg/reconcile"
	"github.com/dbsyncr/dbsyncr/pkg/store"
)

// Slot aliases re-exported so callers work with one package.
const (
	SlotA        = store.SlotA
	SlotB        = store.SlotB
	SlotCombined = store.SlotCombined
)

// Compile-time interface check to ensure proper implementation.
var _ Syncr = (*syncr)(nil)

// Syncr is one reconciliation session: a mapping, two input datasets, and
// the combined view derived from them.
type Syncr interface {

	// SetMapping validates and installs a mapping, then rebuilds the
	// combined view if both inputs are loaded. A rejected mapping leaves
	// the previous one in effect.
	SetMapping(m mappings.Mapping) error

	// Mapping returns the current mapping or ErrMappingNotConfigured.
	Mapping() (mappings.Mapping, error)

	// LoadInto parses r in the given format and stores the dataset in an
	// input slot, cascading into a combined rebuild when possible.
	LoadInto(slot store.Slot, r io.Reader, format loader.Format) (store.PutResult, error)

	// Put stores an already-built dataset in an input slot.
	Put(slot store.Slot, ds *dataset.Dataset) (store.PutResult, error)

	// Dataset returns the held dataset for an input slot or ErrNotLoaded.
	Dataset(slot store.Slot) (*dataset.Dataset, error)

	// Combined returns the current reconciliation result or ErrNotLoaded.
	Combined() (*reconcile.Result, error)

	// Export writes a slot in the given format. SlotCombined exports the
	// merged view with the trailing match_status column.
	Export(slot store.Slot, w io.Writer, format loader.Format) error

	// Analyze reports how the loaded inputs line up on the linking key.
	Analyze() (*reconcile.Analysis, error)

	// Summary describes the session state without exposing record data.
	Summary() Summary

	// EvictExpired removes slots older than the session TTL.
	EvictExpired() []store.Slot

	// TTL returns the session's eviction horizon.
	TTL() time.Duration
}

// SlotSummary describes one input slot for the session summary.
type SlotSummary struct {
	Loaded    bool      `json:"loaded"`
	Records   int       `json:"records"`
	Fields    []string  `json:"fields,omitempty"`
	WrittenAt time.Time `json:"writtenAt,omitzero"`
}

// Summary is a point-in-time description of the session.
type Summary struct {
	SourceA           SlotSummary `json:"sourceA"`
	SourceB           SlotSummary `json:"sourceB"`
	MappingConfigured bool        `json:"mappingConfigured"`
	MappingPairs      int         `json:"mappingPairs"`
	CombinedReady     bool        `json:"combinedReady"`
	CombinedRecords   int         `json:"combinedRecords"`
}

// syncr is the internal implementation of the Syncr interface.
type syncr struct {
	options  *config
	registry *mappings.Registry
	store    *store.Store
}

// New creates a session with the given options. A mapping supplied through
// options is validated here, so a bad mapping fails construction instead of
// the first put.
func New(opts ...Option) (Syncr, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.logger != nil {
		logging.SetDefault(*cfg.logger)
	}

	registry := mappings.NewRegistry()
	if cfg.mapping != nil {
		if err := registry.Set(*cfg.mapping); err != nil {
			return nil, err
		}
	}

	return &syncr{
		options:  cfg,
		registry: registry,
		store:    store.New(registry),
	}, nil
}

func (s *syncr) SetMapping(m mappings.Mapping) error {
	if err := s.registry.Set(m); err != nil {
		return err
	}
	s.store.Invalidate()
	_, err := s.store.Rebuild()
	return err
}

func (s *syncr) Mapping() (mappings.Mapping, error) {
	return s.registry.Get()
}

func (s *syncr) LoadInto(slot store.Slot, r io.Reader, format loader.Format) (store.PutResult, error) {
	ds, err := loader.Load(r, format)
	if err != nil {
		return store.PutResult{}, err
	}
	return s.store.Put(slot, ds)
}

func (s *syncr) Put(slot store.Slot, ds *dataset.Dataset) (store.PutResult, error) {
	return s.store.Put(slot, ds)
}

func (s *syncr) Dataset(slot store.Slot) (*dataset.Dataset, error) {
	return s.store.Dataset(slot)
}

func (s *syncr) Combined() (*reconcile.Result, error) {
	return s.store.Combined()
}

func (s *syncr) Export(slot store.Slot, w io.Writer, format loader.Format) error {
	if slot == SlotCombined {
		result, err := s.store.Combined()
		if err != nil {
			return err
		}
		m, err := s.registry.Get()
		if err != nil {
			return err
		}
		return export.ExportCombined(w, result.Records, m, format)
	}

	ds, err := s.store.Dataset(slot)
	if err != nil {
		return err
	}
	return export.Export(w, ds, format)
}

func (s *syncr) Analyze() (*reconcile.Analysis, error) {
	m, err := s.registry.Get()
	if err != nil {
		return nil, err
	}
	a, err := s.store.Dataset(SlotA)
	if err != nil {
		return nil, err
	}
	b, err := s.store.Dataset(SlotB)
	if err != nil {
		return nil, err
	}
	return reconcile.Analyze(a, b, m)
}

func (s *syncr) Summary() Summary {
	summary := Summary{
		SourceA: s.slotSummary(SlotA),
		SourceB: s.slotSummary(SlotB),
	}

	if m, err := s.registry.Get(); err == nil {
		summary.MappingConfigured = true
		summary.MappingPairs = len(m.Pairs)
	}
	if result, err := s.store.Combined(); err == nil {
		summary.CombinedReady = true
		summary.CombinedRecords = len(result.Records)
	}

	return summary
}

func (s *syncr) slotSummary(slot store.Slot) SlotSummary {
	ds, err := s.store.Dataset(slot)
	if err != nil {
		return SlotSummary{}
	}
	meta, err := s.store.Meta(slot)
	if err != nil {
		return SlotSummary{}
	}
	return SlotSummary{
		Loaded:    true,
		Records:   ds.Len(),
		Fields:    ds.FieldNames(),
		WrittenAt: meta.WrittenAt,
	}
}

func (s *syncr) EvictExpired() []store.Slot {
	return s.store.EvictExpired(s.options.ttl)
}

// TTL returns the session's eviction horizon.
func (s *syncr) TTL() time.Duration {
	return s.options.ttl
}

// ErrNotLoaded is re-exported for callers that only import the root package.
var ErrNotLoaded = errors.ErrNotLoaded
