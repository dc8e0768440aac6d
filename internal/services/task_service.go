package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "task-board.com/task-board/internal/errors"
	"task-board.com/task-board/internal/inflight"
	"task-board.com/task-board/internal/notify"
	"task-board.com/task-board/internal/selection"
	"task-board.com/task-board/internal/store"
	"task-board.com/task-board/internal/tree"
	"task-board.com/task-board/internal/view"
	model "task-board.com/task-board/pkg/models"
)

const operationLoad = "load"

// TaskService is the only component that talks to the task store. It keeps
// one board (tree plus selection state) per owner and applies a mutation to
// the board only after the store confirmed it.
type TaskService struct {
	store    store.TaskStore
	notifier notify.Notifier
	flights  *inflight.Registry
	logger   *logrus.Logger
	now      func() time.Time

	mu     sync.Mutex
	boards map[string]*board
}

type board struct {
	tree  *tree.Tree
	state *selection.State
}

type CreateInput struct {
	Title        string
	Description  *string
	DueDate      *string
	ParentTaskID *string
}

type UpdateInput struct {
	Title       string
	Description *string
	DueDate     *string
}

// Board is everything the presentation layer needs to draw one owner's tasks.
type Board struct {
	Rows     []view.Row   `json:"rows"`
	Summary  tree.Summary `json:"summary"`
	Selected []string     `json:"selected"`
	Pending  []string     `json:"pending"`
}

func NewTaskService(taskStore store.TaskStore, notifier notify.Notifier, logger *logrus.Logger) *TaskService {
	if notifier == nil {
		notifier = notify.Multi{}
	}
	return &TaskService{
		store:    taskStore,
		notifier: notifier,
		flights:  inflight.NewRegistry(),
		logger:   logger,
		now:      time.Now,
		boards:   make(map[string]*board),
	}
}

func (s *TaskService) board(ownerID string) *board {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[ownerID]
	if !ok {
		b = &board{tree: tree.New(), state: selection.New()}
		s.boards[ownerID] = b
	}
	return b
}

// Load replaces the owner's board with the store's current tasks. On failure
// the previous tasks stay visible.
func (s *TaskService) Load(ctx context.Context, ownerID string) error {
	b := s.board(ownerID)

	if err := b.tree.Load(ctx, s.store, ownerID); err != nil {
		s.fail(ctx, ownerID, operationLoad, "could not load tasks", logrus.Fields{}, err)
		return err
	}

	b.state.Prune(b.tree.Has)
	s.logger.WithField("owner", ownerID).Debug("tasks loaded")
	return nil
}

func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateInput) (model.Task, error) {
	if ownerID == "" {
		return model.Task{}, apperrors.ErrAuthRequired
	}

	title, err := validTitle(in.Title)
	if err != nil {
		return model.Task{}, err
	}
	if in.DueDate == nil || strings.TrimSpace(*in.DueDate) == "" {
		return model.Task{}, apperrors.Invalid("due_date", "due date is required")
	}
	dueDate, err := validDate(in.DueDate)
	if err != nil {
		return model.Task{}, err
	}

	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return model.Task{}, err
	}
	control := "create"
	var parentID *string
	if in.ParentTaskID != nil && strings.TrimSpace(*in.ParentTaskID) != "" {
		id := strings.TrimSpace(*in.ParentTaskID)
		snap := b.tree.Snapshot()
		if !snap.Has(id) {
			return model.Task{}, apperrors.ErrTaskNotFound
		}
		if !snap.IsMain(id) || snap.Detached(id) {
			return model.Task{}, apperrors.Invalid("parent_task_id", "subtasks cannot have subtasks")
		}
		parentID = &id
		control = "create:" + id
	}

	flight, err := s.flights.Acquire(ownerID, string(apperrors.KindCreate), control)
	if err != nil {
		return model.Task{}, apperrors.ErrMutationPending
	}

	task, err := s.store.CreateTask(ctx, model.NewTask{
		OwnerID:      ownerID,
		Title:        title,
		Description:  model.OptionalText(in.Description),
		DueDate:      dueDate,
		ParentTaskID: parentID,
	})
	flight.Finish(err)
	if err != nil {
		return model.Task{}, s.mutationFailed(ctx, ownerID, apperrors.KindCreate, 1, "could not create the task", err)
	}

	b.tree.Apply(tree.Insert(task))
	s.succeed(ctx, ownerID, string(apperrors.KindCreate), "task created")
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, ownerID, id string, in UpdateInput) (model.Task, error) {
	if ownerID == "" {
		return model.Task{}, apperrors.ErrAuthRequired
	}
	if id == "" {
		return model.Task{}, apperrors.ErrTaskIDRequired
	}

	title, err := validTitle(in.Title)
	if err != nil {
		return model.Task{}, err
	}
	dueDate, err := validDate(in.DueDate)
	if err != nil {
		return model.Task{}, err
	}

	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return model.Task{}, err
	}
	if !b.tree.Has(id) {
		return model.Task{}, apperrors.ErrTaskNotFound
	}

	patch := model.TaskPatch{Details: &model.TaskDetails{
		Title:       title,
		Description: model.OptionalText(in.Description),
		DueDate:     dueDate,
	}}

	if err := s.mutateOne(ctx, ownerID, id, apperrors.KindUpdate, patch); err != nil {
		return model.Task{}, err
	}

	s.succeed(ctx, ownerID, string(apperrors.KindUpdate), "task updated")
	task, _ := b.tree.Get(id)
	return task, nil
}

// ToggleComplete sets the task's completion to the opposite of current.
func (s *TaskService) ToggleComplete(ctx context.Context, ownerID, id string, current bool) (model.Task, error) {
	if ownerID == "" {
		return model.Task{}, apperrors.ErrAuthRequired
	}
	if id == "" {
		return model.Task{}, apperrors.ErrTaskIDRequired
	}

	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return model.Task{}, err
	}
	if !b.tree.Has(id) {
		return model.Task{}, apperrors.ErrTaskNotFound
	}

	if err := s.mutateOne(ctx, ownerID, id, apperrors.KindToggleComplete, model.CompletedPatch(!current)); err != nil {
		return model.Task{}, err
	}

	message := "task completed"
	if current {
		message = "task marked as pending"
	}
	s.succeed(ctx, ownerID, string(apperrors.KindToggleComplete), message)
	task, _ := b.tree.Get(id)
	return task, nil
}

// Delete removes one task. Its subtasks are kept and show up as detached
// main tasks.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return apperrors.ErrAuthRequired
	}
	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return err
	}
	if !b.tree.Has(id) {
		return apperrors.ErrTaskNotFound
	}

	flight, err := s.flights.Acquire(ownerID, string(apperrors.KindDelete), id)
	if err != nil {
		return apperrors.ErrMutationPending
	}

	err = s.store.DeleteTask(ctx, ownerID, id)
	flight.Finish(err)
	if err != nil {
		return s.mutationFailed(ctx, ownerID, apperrors.KindDelete, 1, "could not delete the task", err)
	}

	b.tree.Apply(tree.Remove(id))
	b.state.Forget(id)
	b.state.Prune(b.tree.Has)
	s.flights.Forget(ownerID, id)

	s.succeed(ctx, ownerID, string(apperrors.KindDelete), "task deleted")
	return nil
}

// BulkComplete marks every id completed in one store call. It returns the
// number of tasks completed; an empty ids is a no-op.
func (s *TaskService) BulkComplete(ctx context.Context, ownerID string, ids []string) (int, error) {
	if ownerID == "" {
		return 0, apperrors.ErrAuthRequired
	}
	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	ids, err = knownIDs(b.tree.Snapshot(), ids)
	if err != nil || len(ids) == 0 {
		return 0, err
	}

	flight, err := s.flights.Acquire(ownerID, string(apperrors.KindBulkComplete), ids...)
	if err != nil {
		return 0, apperrors.ErrMutationPending
	}

	patch := model.CompletedPatch(true)
	err = s.store.UpdateTasks(ctx, ownerID, ids, patch)
	flight.Finish(err)
	if err != nil {
		return 0, s.mutationFailed(ctx, ownerID, apperrors.KindBulkComplete, len(ids), "could not complete the selected tasks", err)
	}

	b.tree.Apply(tree.Patch(patch, ids...))
	b.state.ClearSelection()

	s.succeed(ctx, ownerID, string(apperrors.KindBulkComplete), fmt.Sprintf("%d tasks completed", len(ids)))
	return len(ids), nil
}

// BulkDelete deletes every id in one store call and returns how many were
// removed; an empty ids is a no-op.
func (s *TaskService) BulkDelete(ctx context.Context, ownerID string, ids []string) (int, error) {
	if ownerID == "" {
		return 0, apperrors.ErrAuthRequired
	}
	b, err := s.ensureLoaded(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	ids, err = knownIDs(b.tree.Snapshot(), ids)
	if err != nil || len(ids) == 0 {
		return 0, err
	}

	flight, err := s.flights.Acquire(ownerID, string(apperrors.KindBulkDelete), ids...)
	if err != nil {
		return 0, apperrors.ErrMutationPending
	}

	err = s.store.DeleteTasks(ctx, ownerID, ids)
	flight.Finish(err)
	if err != nil {
		return 0, s.mutationFailed(ctx, ownerID, apperrors.KindBulkDelete, len(ids), "could not delete the selected tasks", err)
	}

	b.tree.Apply(tree.Remove(ids...))
	b.state.ClearSelection()
	b.state.Prune(b.tree.Has)
	s.flights.Forget(ownerID, ids...)

	s.succeed(ctx, ownerID, string(apperrors.KindBulkDelete), fmt.Sprintf("%d tasks deleted", len(ids)))
	return len(ids), nil
}

// CompleteSelected runs BulkComplete over the owner's current selection.
func (s *TaskService) CompleteSelected(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, apperrors.ErrAuthRequired
	}
	return s.BulkComplete(ctx, ownerID, s.board(ownerID).state.Selected().IDs())
}

// DeleteSelected runs BulkDelete over the owner's current selection.
func (s *TaskService) DeleteSelected(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, apperrors.ErrAuthRequired
	}
	return s.BulkDelete(ctx, ownerID, s.board(ownerID).state.Selected().IDs())
}

func (s *TaskService) mutateOne(ctx context.Context, ownerID, id string, kind apperrors.MutationKind, patch model.TaskPatch) error {
	flight, err := s.flights.Acquire(ownerID, string(kind), id)
	if err != nil {
		return apperrors.ErrMutationPending
	}

	err = s.store.UpdateTask(ctx, ownerID, id, patch)
	flight.Finish(err)
	if err != nil {
		return s.mutationFailed(ctx, ownerID, kind, 1, "could not "+describe(kind)+" the task", err)
	}

	s.board(ownerID).tree.Apply(tree.Patch(patch, id))
	return nil
}

func (s *TaskService) mutationFailed(ctx context.Context, ownerID string, kind apperrors.MutationKind, count int, message string, cause error) error {
	s.fail(ctx, ownerID, string(kind), message, logrus.Fields{"count": count}, cause)
	return &apperrors.MutationError{Kind: kind, Count: count, Cause: cause}
}

func (s *TaskService) fail(ctx context.Context, ownerID, operation, message string, fields logrus.Fields, cause error) {
	s.logger.WithFields(fields).WithFields(logrus.Fields{
		"owner":     ownerID,
		"operation": operation,
	}).WithError(cause).Warn(message)

	s.notifier.Notify(ctx, notify.Event{
		OwnerID:   ownerID,
		Kind:      notify.KindError,
		Operation: operation,
		Message:   message,
		At:        s.now(),
	})
}

func (s *TaskService) succeed(ctx context.Context, ownerID, operation, message string) {
	s.logger.WithFields(logrus.Fields{
		"owner":     ownerID,
		"operation": operation,
	}).Debug(message)

	s.notifier.Notify(ctx, notify.Event{
		OwnerID:   ownerID,
		Kind:      notify.KindSuccess,
		Operation: operation,
		Message:   message,
		At:        s.now(),
	})
}

func describe(kind apperrors.MutationKind) string {
	switch kind {
	case apperrors.KindToggleComplete:
		return "change completion of"
	default:
		return string(kind)
	}
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.Invalid("title", "title is required")
	}
	return title, nil
}

func validDate(date *string) (*string, error) {
	if date == nil || strings.TrimSpace(*date) == "" {
		return nil, nil
	}
	parsed, err := model.ParseDate(*date)
	if err != nil {
		return nil, apperrors.Invalid("due_date", "due date must be YYYY-MM-DD")
	}
	return &parsed, nil
}

// knownIDs de-duplicates ids and fails if any of them is not loaded.
func knownIDs(snap tree.Snapshot, ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		if !snap.Has(id) {
			return nil, fmt.Errorf("task %q: %w", id, apperrors.ErrTaskNotFound)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
