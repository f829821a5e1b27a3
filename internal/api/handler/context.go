package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtplatform/auth-service/internal/api/middleware"
	"github.com/dtplatform/auth-service/internal/core/domain"
)

// ctxCaller extracts the identity resolved by the authorizer middleware and
// fast-fails if the handler was somehow reached without it.
func ctxCaller(c echo.Context) (*domain.User, []string, error) {
	user, _ := c.Get(middleware.ContextUserKey).(*domain.User)
	if user == nil {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	roles, _ := c.Get(middleware.ContextRolesKey).([]string)
	return user, roles, nil
}
