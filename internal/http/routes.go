package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "task-board.com/task-board/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	api := e.Group("", middleware.RequireOwner())

	api.GET("/tasks", h.ViewTasks)
	api.POST("/tasks", h.CreateTask)
	api.POST("/tasks/load", h.LoadTasks)
	api.POST("/tasks/bulk/complete", h.BulkComplete)
	api.POST("/tasks/bulk/delete", h.BulkDelete)
	api.PATCH("/tasks/:id", h.UpdateTask)
	api.DELETE("/tasks/:id", h.DeleteTask)
	api.POST("/tasks/:id/toggle", h.ToggleComplete)

	api.POST("/selection", h.SelectAll)
	api.DELETE("/selection", h.ClearSelection)
	api.POST("/selection/:id/toggle", h.ToggleSelect)
	api.POST("/expansion/:id/toggle", h.ToggleExpand)

	api.GET("/summary", h.Summary)
	api.GET("/notifications", h.Notifications)
}
