// Package inflight tracks mutations that are waiting for the store so the
// control that issued them stays disabled until they resolve.
package inflight

import (
	"errors"
	"sort"
	"sync"
)

var ErrPending = errors.New("mutation already pending")

type State string

const (
	Idle    State = "idle"
	Pending State = "pending"
	Applied State = "applied"
	Failed  State = "failed"
)

type key struct {
	owner string
	name  string
}

type Registry struct {
	mu      sync.Mutex
	pending map[key]string
	last    map[key]State
}

func NewRegistry() *Registry {
	return &Registry{
		pending: make(map[key]string),
		last:    make(map[key]State),
	}
}

// Flight is one acquired set of keys. Finish must be called exactly once.
type Flight struct {
	r     *Registry
	owner string
	names []string
	once  sync.Once
}

// Acquire marks every name as pending for owner, or none of them if any is
// already pending.
func (r *Registry) Acquire(owner, operation string, names ...string) (*Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if _, busy := r.pending[key{owner, name}]; busy {
			return nil, ErrPending
		}
	}
	for _, name := range names {
		r.pending[key{owner, name}] = operation
	}

	return &Flight{r: r, owner: owner, names: names}, nil
}

// Finish releases the keys and records Applied or Failed depending on err.
func (f *Flight) Finish(err error) {
	f.once.Do(func() {
		outcome := Applied
		if err != nil {
			outcome = Failed
		}

		f.r.mu.Lock()
		defer f.r.mu.Unlock()
		for _, name := range f.names {
			k := key{f.owner, name}
			delete(f.r.pending, k)
			f.r.last[k] = outcome
		}
	})
}

// State returns Pending while a flight holds name, otherwise the outcome of
// the last flight, or Idle.
func (r *Registry) State(owner, name string) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{owner, name}
	if _, busy := r.pending[k]; busy {
		return Pending
	}
	if s, ok := r.last[k]; ok {
		return s
	}
	return Idle
}

// Pending lists the names currently held for owner.
func (r *Registry) Pending(owner string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for k := range r.pending {
		if k.owner == owner {
			out = append(out, k.name)
		}
	}
	sort.Strings(out)
	return out
}

// Forget drops the recorded outcome for names, e.g. after the task is gone.
func (r *Registry) Forget(owner string, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		delete(r.last, key{owner, name})
	}
}
