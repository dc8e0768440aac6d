package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "task-board.com/task-board/internal/data_models"
	model "task-board.com/task-board/pkg/models"
)

// ValidateCreateTaskRequest rejects a create whose due date lies before today.
func ValidateCreateTaskRequest(r *dto.CreateTaskRequest, today string) error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.DueDate == nil || strings.TrimSpace(*r.DueDate) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date is required")
	}

	due, err := model.ParseDate(*r.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date must be YYYY-MM-DD")
	}
	// Both sides are YYYY-MM-DD, so string order is date order.
	if due < today {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date must not be in the past")
	}
	return nil
}
