package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "task-board.com/task-board/internal/errors"
)

const (
	OwnerHeader = "X-Owner-ID"
	ownerKey    = "owner"
)

// RequireOwner rejects requests without an owner id. The id is set by the
// authenticating proxy in front of this service.
func RequireOwner() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			owner := strings.TrimSpace(c.Request().Header.Get(OwnerHeader))
			if owner == "" {
				return echo.NewHTTPError(apperrors.ErrAuthRequired.StatusCode, apperrors.ErrAuthRequired.Message)
			}
			c.Set(ownerKey, owner)
			return next(c)
		}
	}
}

func Owner(c echo.Context) string {
	owner, _ := c.Get(ownerKey).(string)
	return owner
}
