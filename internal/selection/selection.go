// Package selection tracks which records of one collection view are chosen
// for a bulk action. A Set is owned by the view that built it and handed to
// the bulk coordinator explicitly; there is no ambient shared selection.
package selection

import (
	"sort"
	"sync"

	"merchops/internal/domain"
)

type Set struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func New() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// Toggle flips membership of id and reports whether it is now selected.
// Provisional identifiers are never admitted: a bulk action against them
// would target a server identifier that does not exist yet.
func (s *Set) Toggle(id string) bool {
	if domain.IsProvisionalID(id) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// SelectAll adds every non-provisional id. Membership survives pagination:
// ids stay selected while other pages are displayed.
func (s *Set) SelectAll(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if domain.IsProvisionalID(id) {
			continue
		}
		s.ids[id] = struct{}{}
	}
}

// Remove drops the given ids, used when a bulk action consumed them.
func (s *Set) Remove(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.ids, id)
	}
}

func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

func (s *Set) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *Set) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the members sorted, so batches are deterministic.
func (s *Set) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
