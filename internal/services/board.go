package services

import (
	"context"
	"time"

	apperrors "task-board.com/task-board/internal/errors"
	"task-board.com/task-board/internal/tree"
	"task-board.com/task-board/internal/view"
	model "task-board.com/task-board/pkg/models"
)

// ensureLoaded loads the owner's board the first time it is needed.
func (s *TaskService) ensureLoaded(ctx context.Context, ownerID string) (*board, error) {
	if ownerID == "" {
		return nil, apperrors.ErrAuthRequired
	}

	b := s.board(ownerID)
	if !b.tree.Loaded() {
		if err := s.Load(ctx, ownerID); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s *TaskService) View(ctx context.Context, ownerID string, filter view.Filter) (Board, error) {
	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return Board{}, err
	}

	snap := b.tree.Snapshot()
	selected := b.state.Selected()
	rows := view.ProjectFiltered(snap, selected, b.state.Expanded(), filter)
	if rows == nil {
		rows = []view.Row{}
	}
	pending := s.flights.Pending(ownerID)
	if pending == nil {
		pending = []string{}
	}

	return Board{
		Rows:     rows,
		Summary:  snap.Summary(s.Today()),
		Selected: selected.IDs(),
		Pending:  pending,
	}, nil
}

func (s *TaskService) Summary(ctx context.Context, ownerID string) (tree.Summary, error) {
	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return tree.Summary{}, err
	}
	return b.tree.Summary(s.Today()), nil
}

// ToggleSelect flips id's selection and reports whether it is now selected.
func (s *TaskService) ToggleSelect(ctx context.Context, ownerID, id string) (bool, error) {
	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if id == "" {
		return false, apperrors.ErrTaskIDRequired
	}
	if !b.tree.Has(id) {
		return false, apperrors.ErrTaskNotFound
	}
	return b.state.ToggleSelect(id), nil
}

// SelectAll replaces the selection with exactly ids, or with every loaded
// task when ids is empty. It returns the size of the new selection.
func (s *TaskService) SelectAll(ctx context.Context, ownerID string, ids []string) (int, error) {
	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	snap := b.tree.Snapshot()
	if len(ids) == 0 {
		for _, task := range snap.All() {
			ids = append(ids, task.ID)
		}
	} else if ids, err = knownIDs(snap, ids); err != nil {
		return 0, err
	}

	b.state.SelectAll(ids)
	return len(ids), nil
}

func (s *TaskService) ClearSelection(ctx context.Context, ownerID string) error {
	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return err
	}
	b.state.ClearSelection()
	return nil
}

// ToggleExpand flips the expansion of a main task that has subtasks and
// reports whether it is now expanded.
func (s *TaskService) ToggleExpand(ctx context.Context, ownerID, id string) (bool, error) {
	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if id == "" {
		return false, apperrors.ErrTaskIDRequired
	}

	snap := b.tree.Snapshot()
	if !snap.Has(id) {
		return false, apperrors.ErrTaskNotFound
	}
	if !snap.Expandable(id) {
		return false, apperrors.Invalid("id", "only main tasks with subtasks can be expanded")
	}
	return b.state.ToggleExpand(id), nil
}

// WithClock replaces the clock used to decide what "today" is.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// Today is the current date as YYYY-MM-DD.
func (s *TaskService) Today() string {
	return model.FormatDate(s.now())
}
