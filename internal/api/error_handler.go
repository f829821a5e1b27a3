package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dtplatform/auth-service/internal/api/middleware"
	"github.com/dtplatform/auth-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Advertises the bearer challenge and neutral identity headers on 401s.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			h := c.Response().Header()
			h.Set(echo.HeaderWWWAuthenticate, "Bearer")
			if h.Get(middleware.HeaderAuthUserID) == "" {
				h.Set(middleware.HeaderAuthUserID, domain.ZeroHexID)
			}
			h.Set(middleware.HeaderAuthRoles, "")
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, authorizer 401/403).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Uniqueness conflicts name the conflicting field.
	var exists *domain.AlreadyExistsError
	if errors.As(err, &exists) {
		return http.StatusBadRequest, exists.Error()
	}
	var validation domain.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, validation.Error()
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoleNotFound),
		errors.Is(err, domain.ErrAssignmentNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrAdminUserProtected),
		errors.Is(err, domain.ErrAdminRoleProtected),
		errors.Is(err, domain.ErrAdminRoleRequired),
		errors.Is(err, domain.ErrReservedName),
		errors.Is(err, domain.ErrRoleInUse),
		errors.Is(err, domain.ErrNoChanges):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
