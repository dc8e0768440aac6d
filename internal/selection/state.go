// Package selection tracks which tasks are selected for bulk actions and which
// main tasks are expanded. It holds ids only and never task data.
package selection

import (
	"sort"
	"sync"
)

type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// IDs returns the members in lexical order.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// State is safe for concurrent use.
type State struct {
	mu       sync.Mutex
	selected Set
	expanded Set
}

func New() *State {
	return &State{selected: Set{}, expanded: Set{}}
}

// ToggleSelect flips id's membership and reports whether it is now selected.
func (s *State) ToggleSelect(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toggle(s.selected, id)
}

// SelectAll replaces the selection with exactly ids.
func (s *State) SelectAll(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = NewSet(ids...)
}

func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = Set{}
}

func (s *State) Selected() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected.clone()
}

// ToggleExpand flips id's membership and reports whether it is now expanded.
func (s *State) ToggleExpand(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toggle(s.expanded, id)
}

func (s *State) Expanded() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded.clone()
}

// Forget drops ids from both sets. Unknown ids are ignored.
func (s *State) Forget(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.selected, id)
		delete(s.expanded, id)
	}
}

// Prune drops every id for which keep returns false from both sets.
func (s *State) Prune(keep func(id string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.selected {
		if !keep(id) {
			delete(s.selected, id)
		}
	}
	for id := range s.expanded {
		if !keep(id) {
			delete(s.expanded, id)
		}
	}
}

func toggle(set Set, id string) bool {
	if _, ok := set[id]; ok {
		delete(set, id)
		return false
	}
	set[id] = struct{}{}
	return true
}
