package tree

import (
	model "task-board.com/task-board/pkg/models"
)

type placement int

const (
	// root: no parent, a self reference, or a parent that is not loaded.
	placementRoot placement = iota
	// child: the parent is loaded and is itself a root.
	placementChild
	// flattened: the parent is loaded but nested, or part of a cycle. Shown
	// as a main task so the board never renders a third level.
	placementFlattened
)

// Snapshot is an immutable view of the collection at one point in time.
type Snapshot struct {
	tasks     []model.Task
	index     map[string]int
	placement []placement
}

func newSnapshot(tasks []model.Task) Snapshot {
	s := Snapshot{
		tasks:     tasks,
		index:     make(map[string]int, len(tasks)),
		placement: make([]placement, len(tasks)),
	}
	for i, t := range tasks {
		s.index[t.ID] = i
	}

	roots := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if !t.IsSubtask() {
			roots[t.ID] = true
			continue
		}
		if _, ok := s.index[*t.ParentTaskID]; !ok {
			roots[t.ID] = true
			continue
		}
		s.placement[i] = placementFlattened
	}
	for i, t := range tasks {
		if s.placement[i] == placementFlattened && roots[*t.ParentTaskID] {
			s.placement[i] = placementChild
		}
	}

	return s
}

func (s Snapshot) Len() int {
	return len(s.tasks)
}

// All returns every task in stored order.
func (s Snapshot) All() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s Snapshot) Get(id string) (model.Task, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

func (s Snapshot) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// MainTasks returns, in stored order, the tasks rendered at the top level:
// unparented tasks plus orphans and anything nested too deeply.
func (s Snapshot) MainTasks() []model.Task {
	var out []model.Task
	for i, t := range s.tasks {
		if s.placement[i] != placementChild {
			out = append(out, t.Clone())
		}
	}
	return out
}

// SubtasksOf returns, in stored order, the tasks whose parent is parentID.
// Orphans of a parent that is no longer loaded are still returned.
func (s Snapshot) SubtasksOf(parentID string) []model.Task {
	var out []model.Task
	for i, t := range s.tasks {
		if t.ID == parentID || t.ParentTaskID == nil || *t.ParentTaskID != parentID {
			continue
		}
		if s.placement[i] == placementFlattened {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

func (s Snapshot) HasSubtasks(id string) bool {
	for i, t := range s.tasks {
		if s.placement[i] == placementChild && *t.ParentTaskID == id && t.ID != id {
			return true
		}
	}
	return false
}

// IsMain reports whether id is loaded and rendered at the top level.
func (s Snapshot) IsMain(id string) bool {
	i, ok := s.index[id]
	return ok && s.placement[i] != placementChild
}

// Detached reports whether id is a main task that nevertheless carries a
// parent reference (an orphan or a flattened deep subtask).
func (s Snapshot) Detached(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	return s.placement[i] != placementChild && s.tasks[i].IsSubtask()
}

// Expandable reports whether id is a main task with at least one subtask.
func (s Snapshot) Expandable(id string) bool {
	return s.IsMain(id) && s.HasSubtasks(id)
}
