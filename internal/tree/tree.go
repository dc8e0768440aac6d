// Package tree holds the owner's tasks in memory and exposes them as a
// two-level hierarchy of main tasks and subtasks.
package tree

import (
	"context"
	"sync"

	apperrors "task-board.com/task-board/internal/errors"
	model "task-board.com/task-board/pkg/models"
)

// Source is the read side of the task store.
type Source interface {
	ListTasks(ctx context.Context, ownerID string) ([]model.Task, error)
}

// Tree is safe for concurrent use. Readers take a Snapshot.
type Tree struct {
	mu     sync.RWMutex
	tasks  []model.Task
	snap   *Snapshot
	loaded bool
}

func New(tasks ...model.Task) *Tree {
	t := &Tree{}
	if len(tasks) > 0 {
		t.Replace(tasks)
	}
	return t
}

// Load fetches the owner's tasks and replaces the collection. On failure the
// previous collection is kept and a *LoadError is returned.
func (t *Tree) Load(ctx context.Context, src Source, ownerID string) error {
	if ownerID == "" {
		return &apperrors.LoadError{Cause: apperrors.ErrAuthRequired}
	}

	tasks, err := src.ListTasks(ctx, ownerID)
	if err != nil {
		return &apperrors.LoadError{Cause: err}
	}

	t.Replace(tasks)
	return nil
}

func (t *Tree) Replace(tasks []model.Task) {
	next := make([]model.Task, len(tasks))
	for i, task := range tasks {
		next[i] = task.Clone()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.tasks = next
	t.snap = nil
	t.loaded = true
}

// Loaded reports whether the collection was ever populated.
func (t *Tree) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}

func (t *Tree) Snapshot() Snapshot {
	t.mu.RLock()
	if t.snap != nil {
		s := *t.snap
		t.mu.RUnlock()
		return s
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap == nil {
		s := newSnapshot(t.tasks)
		t.snap = &s
	}
	return *t.snap
}

func (t *Tree) MainTasks() []model.Task {
	return t.Snapshot().MainTasks()
}

func (t *Tree) SubtasksOf(parentID string) []model.Task {
	return t.Snapshot().SubtasksOf(parentID)
}

func (t *Tree) Get(id string) (model.Task, bool) {
	return t.Snapshot().Get(id)
}

func (t *Tree) Has(id string) bool {
	return t.Snapshot().Has(id)
}

func (t *Tree) Summary(today string) Summary {
	return t.Snapshot().Summary(today)
}

// Apply performs an in-place local mutation and returns how many entries it
// touched. The stored slice is replaced, never edited, so snapshots handed
// out earlier stay valid.
func (t *Tree) Apply(c Change) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		next    []model.Task
		touched int
	)

	switch c.Op {
	case OpInsert:
		next = make([]model.Task, len(t.tasks), len(t.tasks)+len(c.Tasks))
		copy(next, t.tasks)
		for _, task := range c.Tasks {
			next = insertOrdered(next, task.Clone())
			touched++
		}

	case OpPatch:
		ids := idSet(c.IDs)
		next = make([]model.Task, len(t.tasks))
		for i, task := range t.tasks {
			if _, ok := ids[task.ID]; ok {
				task = task.Clone()
				c.Patch.Apply(&task)
				touched++
			}
			next[i] = task
		}

	case OpRemove:
		ids := idSet(c.IDs)
		next = make([]model.Task, 0, len(t.tasks))
		for _, task := range t.tasks {
			if _, ok := ids[task.ID]; ok {
				touched++
				continue
			}
			next = append(next, task)
		}

	default:
		return 0
	}

	t.tasks = next
	t.snap = nil
	return touched
}

// insertOrdered places task where the load ordering would put it: pending
// before completed, newest first within each group.
func insertOrdered(tasks []model.Task, task model.Task) []model.Task {
	pos := len(tasks)
	for i, existing := range tasks {
		if before(task, existing) {
			pos = i
			break
		}
	}

	tasks = append(tasks, model.Task{})
	copy(tasks[pos+1:], tasks[pos:])
	tasks[pos] = task
	return tasks
}

func before(a, b model.Task) bool {
	if a.IsCompleted != b.IsCompleted {
		return !a.IsCompleted
	}
	return !a.CreatedAt.Before(b.CreatedAt)
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
