package dto

import (
	"task-board.com/task-board/internal/notify"
	"task-board.com/task-board/internal/tree"
	model "task-board.com/task-board/pkg/models"
)

type CreateTaskRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	DueDate      *string `json:"due_date"`
	ParentTaskID *string `json:"parent_task_id"`
}

// UpdateTaskRequest replaces the editable fields. A missing description or
// due date clears it.
type UpdateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

// ToggleCompleteRequest carries the completion state the client saw.
type ToggleCompleteRequest struct {
	IsCompleted bool `json:"is_completed"`
}

type IDsRequest struct {
	IDs []string `json:"ids"`
}

type TaskResponse struct {
	Task model.Task `json:"task"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type ToggleResponse struct {
	ID string `json:"id"`
	On bool   `json:"on"`
}

type SummaryResponse struct {
	Today   string       `json:"today"`
	Summary tree.Summary `json:"summary"`
}

type NotificationsResponse struct {
	Count  int            `json:"count"`
	Events []notify.Event `json:"events"`
}
