// Package store defines the contract between the task board and the durable
// record store. Every call is scoped to one owner.
package store

import (
	"context"

	model "task-board.com/task-board/pkg/models"
)

type TaskStore interface {
	// ListTasks returns the owner's tasks, pending first, newest first within
	// each group.
	ListTasks(ctx context.Context, ownerID string) ([]model.Task, error)

	// CreateTask inserts a pending task and returns it with its assigned ID
	// and CreatedAt.
	CreateTask(ctx context.Context, in model.NewTask) (model.Task, error)

	UpdateTask(ctx context.Context, ownerID, id string, patch model.TaskPatch) error

	DeleteTask(ctx context.Context, ownerID, id string) error

	// UpdateTasks and DeleteTasks touch every id or none of them.
	UpdateTasks(ctx context.Context, ownerID string, ids []string, patch model.TaskPatch) error

	DeleteTasks(ctx context.Context, ownerID string, ids []string) error
}
