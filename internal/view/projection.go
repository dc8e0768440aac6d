// Package view turns the task tree plus selection and expansion state into
// the ordered rows the presentation layer renders.
package view

import (
	"fmt"
	"strings"

	"task-board.com/task-board/internal/selection"
	"task-board.com/task-board/internal/tree"
	model "task-board.com/task-board/pkg/models"
)

type RowKind string

const (
	RowMain    RowKind = "task"
	RowSubtask RowKind = "subtask"
)

type Row struct {
	Kind     RowKind    `json:"kind"`
	Task     model.Task `json:"task"`
	Selected bool       `json:"selected"`

	// Main rows only.
	SubtaskCount      int  `json:"subtask_count,omitempty"`
	CompletedSubtasks int  `json:"completed_subtasks,omitempty"`
	Expandable        bool `json:"expandable,omitempty"`
	Expanded          bool `json:"expanded,omitempty"`
	Detached          bool `json:"detached,omitempty"`

	// Subtask rows only.
	ParentID string `json:"parent_id,omitempty"`
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

func (f Filter) keep(t model.Task) bool {
	switch f {
	case FilterPending:
		return !t.IsCompleted
	case FilterCompleted:
		return t.IsCompleted
	default:
		return true
	}
}

// Project lists every main task in tree order, each immediately followed by
// its subtasks when it is expanded.
func Project(snap tree.Snapshot, selected, expanded selection.Set) []Row {
	return ProjectFiltered(snap, selected, expanded, FilterAll)
}

// ProjectFiltered is Project restricted to main tasks matching f. Subtasks of
// a visible expanded main task are always listed.
func ProjectFiltered(snap tree.Snapshot, selected, expanded selection.Set, f Filter) []Row {
	rows := make([]Row, 0, snap.Len())

	for _, main := range snap.MainTasks() {
		if !f.keep(main) {
			continue
		}

		subtasks := snap.SubtasksOf(main.ID)
		row := Row{
			Kind:         RowMain,
			Task:         main,
			Selected:     selected.Has(main.ID),
			SubtaskCount: len(subtasks),
			Expandable:   len(subtasks) > 0,
			Detached:     snap.Detached(main.ID),
		}
		for _, sub := range subtasks {
			if sub.IsCompleted {
				row.CompletedSubtasks++
			}
		}
		row.Expanded = row.Expandable && expanded.Has(main.ID)
		rows = append(rows, row)

		if !row.Expanded {
			continue
		}
		for _, sub := range subtasks {
			rows = append(rows, Row{
				Kind:     RowSubtask,
				Task:     sub,
				Selected: selected.Has(sub.ID),
				ParentID: main.ID,
			})
		}
	}

	return rows
}

// Group splits main rows, with their subtask rows attached, into pending and
// completed sections.
func Group(rows []Row) (pending, completed []Row) {
	var current *[]Row
	for _, row := range rows {
		if row.Kind == RowMain {
			if row.Task.IsCompleted {
				current = &completed
			} else {
				current = &pending
			}
		}
		if current != nil {
			*current = append(*current, row)
		}
	}
	return pending, completed
}
