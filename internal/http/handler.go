package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	dto "task-board.com/task-board/internal/data_models"
	apperrors "task-board.com/task-board/internal/errors"
	middleware "task-board.com/task-board/internal/http/middlewares"
	"task-board.com/task-board/internal/http/validators"
	"task-board.com/task-board/internal/notify"
	"task-board.com/task-board/internal/services"
	"task-board.com/task-board/internal/view"
)

type Handler struct {
	taskService *services.TaskService
	feed        *notify.Feed
	logger      *logrus.Logger
}

func NewHandler(taskService *services.TaskService, feed *notify.Feed, logger *logrus.Logger) *Handler {
	return &Handler{
		taskService: taskService,
		feed:        feed,
		logger:      logger,
	}
}

// fail turns a service error into the HTTP error the client sees.
func (h *Handler) fail(c echo.Context, err error) error {
	code := apperrors.StatusCode(err)
	if code >= http.StatusInternalServerError && code != http.StatusBadGateway {
		h.logger.WithError(err).WithField("path", c.Path()).Error("request failed")
		return echo.NewHTTPError(code, "internal server error")
	}
	return echo.NewHTTPError(code, err.Error())
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(apperrors.ErrInvalidJSON.StatusCode, apperrors.ErrInvalidJSON.Message)
	}
	return nil
}

func (h *Handler) ViewTasks(c echo.Context) error {
	filter, err := view.ParseFilter(c.QueryParam("filter"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	board, err := h.taskService.View(c.Request().Context(), middleware.Owner(c), filter)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, board)
}

func (h *Handler) LoadTasks(c echo.Context) error {
	owner := middleware.Owner(c)
	if err := h.taskService.Load(c.Request().Context(), owner); err != nil {
		return h.fail(c, err)
	}

	board, err := h.taskService.View(c.Request().Context(), owner, view.FilterAll)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, board)
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCreateTaskRequest(&req, h.taskService.Today()); err != nil {
		return err
	}

	task, err := h.taskService.Create(c.Request().Context(), middleware.Owner(c), services.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ParentTaskID: req.ParentTaskID,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, dto.TaskResponse{Task: task})
}

func (h *Handler) UpdateTask(c echo.Context) error {
	var req dto.UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.Update(c.Request().Context(), middleware.Owner(c), c.Param("id"), services.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, dto.TaskResponse{Task: task})
}

func (h *Handler) ToggleComplete(c echo.Context) error {
	var req dto.ToggleCompleteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.ToggleComplete(c.Request().Context(), middleware.Owner(c), c.Param("id"), req.IsCompleted)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, dto.TaskResponse{Task: task})
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.taskService.Delete(c.Request().Context(), middleware.Owner(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkComplete completes the given ids, or the current selection when the
// body carries none.
func (h *Handler) BulkComplete(c echo.Context) error {
	var req dto.IDsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, owner := c.Request().Context(), middleware.Owner(c)
	var (
		n   int
		err error
	)
	if len(req.IDs) == 0 {
		n, err = h.taskService.CompleteSelected(ctx, owner)
	} else {
		n, err = h.taskService.BulkComplete(ctx, owner, req.IDs)
	}
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (h *Handler) BulkDelete(c echo.Context) error {
	var req dto.IDsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, owner := c.Request().Context(), middleware.Owner(c)
	var (
		n   int
		err error
	)
	if len(req.IDs) == 0 {
		n, err = h.taskService.DeleteSelected(ctx, owner)
	} else {
		n, err = h.taskService.BulkDelete(ctx, owner, req.IDs)
	}
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (h *Handler) ToggleSelect(c echo.Context) error {
	id := c.Param("id")
	selected, err := h.taskService.ToggleSelect(c.Request().Context(), middleware.Owner(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToggleResponse{ID: id, On: selected})
}

func (h *Handler) SelectAll(c echo.Context) error {
	var req dto.IDsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	n, err := h.taskService.SelectAll(c.Request().Context(), middleware.Owner(c), req.IDs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (h *Handler) ClearSelection(c echo.Context) error {
	if err := h.taskService.ClearSelection(c.Request().Context(), middleware.Owner(c)); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ToggleExpand(c echo.Context) error {
	id := c.Param("id")
	expanded, err := h.taskService.ToggleExpand(c.Request().Context(), middleware.Owner(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToggleResponse{ID: id, On: expanded})
}

func (h *Handler) Summary(c echo.Context) error {
	summary, err := h.taskService.Summary(c.Request().Context(), middleware.Owner(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.SummaryResponse{Today: h.taskService.Today(), Summary: summary})
}

func (h *Handler) Notifications(c echo.Context) error {
	events := h.feed.Drain(middleware.Owner(c))
	if events == nil {
		events = []notify.Event{}
	}
	return c.JSON(http.StatusOK, dto.NotificationsResponse{Count: len(events), Events: events})
}
