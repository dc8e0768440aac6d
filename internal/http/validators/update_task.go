package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "task-board.com/task-board/internal/data_models"
	model "task-board.com/task-board/pkg/models"
)

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.DueDate != nil && strings.TrimSpace(*r.DueDate) != "" {
		if _, err := model.ParseDate(*r.DueDate); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		}
	}
	return nil
}
