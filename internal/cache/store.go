// Package cache holds one snapshot of query results per distinct signature
// and serializes every mutation of an entry behind a per-entry lock, so two
// optimistic patches on the same signature always compose in call order.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"merchops/internal/domain"
)

// PatchFunc transforms entry data. It must be pure: the input slice is a
// private copy and the returned slice becomes the new entry data.
type PatchFunc func([]domain.Record) []domain.Record

// Entry is the read view of one cached collection.
type Entry struct {
	Data     []domain.Record
	PageInfo domain.PageInfo
	Stale    bool
	Version  uint64
}

// Snapshot is the last known good state captured before an optimistic
// patch, written back verbatim on rollback.
type Snapshot struct {
	Data     []domain.Record
	PageInfo domain.PageInfo
	Stale    bool
}

type entry struct {
	mu       sync.Mutex
	data     []domain.Record
	pageInfo domain.PageInfo
	stale    bool
	version  uint64
}

// Store maps signatures to entries. Capacity-bounded: signatures no view
// has observed recently are evicted LRU-first.
type Store struct {
	mu      sync.Mutex
	entries *lru.Cache[Signature, *entry]
}

func New(capacity int) (*Store, error) {
	if capacity < 1 {
		capacity = 1
	}
	c, err := lru.New[Signature, *entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{entries: c}, nil
}

func (s *Store) lookup(sig Signature) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Get(sig)
}

func (s *Store) getOrCreate(sig Signature) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries.Get(sig); ok {
		return e
	}
	e := &entry{}
	s.entries.Add(sig, e)
	return e
}

// Read returns a copy of the entry at sig, if one exists.
func (s *Store) Read(sig Signature) (Entry, bool) {
	e, ok := s.lookup(sig)
	if !ok {
		return Entry{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return Entry{
		Data:     cloneRecords(e.data),
		PageInfo: e.pageInfo,
		Stale:    e.stale,
		Version:  e.version,
	}, true
}

// Version returns the entry's current version, zero when absent. Every
// Write, Patch and Restore bumps it; a fetch that started before the bump
// must discard its result.
func (s *Store) Version(sig Signature) uint64 {
	e, ok := s.lookup(sig)
	if !ok {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// Write replaces the entry wholesale, clearing staleness.
func (s *Store) Write(sig Signature, data []domain.Record, pi domain.PageInfo) {
	e := s.getOrCreate(sig)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = dedupe(cloneRecords(data))
	e.pageInfo = pi
	e.stale = false
	e.version++
}

// WriteIfVersion performs Write only when the entry's version still equals
// version. It reports whether the write happened; a false return means a
// patch or another write landed since the caller observed the entry.
func (s *Store) WriteIfVersion(sig Signature, version uint64, data []domain.Record, pi domain.PageInfo) bool {
	e := s.getOrCreate(sig)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.version != version {
		return false
	}
	e.data = dedupe(cloneRecords(data))
	e.pageInfo = pi
	e.stale = false
	e.version++
	return true
}

// Patch applies fn to the entry data and returns the pre-patch snapshot.
// An absent entry is created empty first, so optimistic creates work on
// pages that were never fetched.
func (s *Store) Patch(sig Signature, fn PatchFunc) Snapshot {
	e := s.getOrCreate(sig)
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := Snapshot{
		Data:     cloneRecords(e.data),
		PageInfo: e.pageInfo,
		Stale:    e.stale,
	}
	e.data = dedupe(fn(cloneRecords(e.data)))
	e.version++
	return prev
}

// Restore writes a snapshot back verbatim: a full rollback, not a merge.
// The staleness flag rolls back too, so an invalidation that was pending
// before the patch still triggers a refetch.
func (s *Store) Restore(sig Signature, snap Snapshot) {
	e := s.getOrCreate(sig)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = cloneRecords(snap.Data)
	e.pageInfo = snap.PageInfo
	e.stale = snap.Stale
	e.version++
}

// Invalidate marks the entry stale so the next observer refetches. The data
// stays in place until then to avoid a blank view in the meantime.
func (s *Store) Invalidate(sig Signature) {
	e, ok := s.lookup(sig)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stale = true
}

// InvalidateResource marks every entry of the resource stale and returns
// how many entries were touched.
func (s *Store) InvalidateResource(resource string) int {
	s.mu.Lock()
	keys := s.entries.Keys()
	s.mu.Unlock()

	n := 0
	for _, sig := range keys {
		if sig.Resource != resource {
			continue
		}
		s.Invalidate(sig)
		n++
	}
	return n
}

// cloneRecords copies the slice and each record's Attrs map, so a patch
// editing attributes in place cannot reach the rollback snapshot.
func cloneRecords(in []domain.Record) []domain.Record {
	if in == nil {
		return nil
	}
	out := make([]domain.Record, len(in))
	copy(out, in)
	for i := range out {
		if len(out[i].Attrs) == 0 {
			continue
		}
		attrs := make(map[string]string, len(out[i].Attrs))
		for k, v := range out[i].Attrs {
			attrs[k] = v
		}
		out[i].Attrs = attrs
	}
	return out
}

// dedupe drops later duplicates of the same identifier, preserving order.
// An entry never holds two records with the same ID.
func dedupe(in []domain.Record) []domain.Record {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, r := range in {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
