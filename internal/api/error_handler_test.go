package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dtplatform/auth-service/internal/api/middleware"
	"github.com/dtplatform/auth-service/internal/core/domain"
)

func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return resp.Error
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"role not found", domain.ErrRoleNotFound, http.StatusNotFound},
		{"assignment not found", domain.ErrAssignmentNotFound, http.StatusNotFound},
		{"admin user protected", domain.ErrAdminUserProtected, http.StatusBadRequest},
		{"admin role protected", domain.ErrAdminRoleProtected, http.StatusBadRequest},
		{"admin role required", domain.ErrAdminRoleRequired, http.StatusBadRequest},
		{"reserved name", domain.ErrReservedName, http.StatusBadRequest},
		{"role in use", domain.ErrRoleInUse, http.StatusBadRequest},
		{"no changes", domain.ErrNoChanges, http.StatusBadRequest},
		{"duplicate", &domain.AlreadyExistsError{Field: "user_name"}, http.StatusBadRequest},
		{"validation", domain.ValidationError("invalid user id"), http.StatusBadRequest},
		{"echo error", echo.NewHTTPError(http.StatusForbidden, "insufficient permissions"), http.StatusForbidden},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := handleError(t, tc.err)
		if rec.Code != tc.code {
			t.Errorf("%s: status %d, want %d", tc.name, rec.Code, tc.code)
		}
	}
}

func TestHTTPErrorHandler_UnauthorizedHeaders(t *testing.T) {
	rec := handleError(t, domain.ErrInvalidCredentials)

	if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != "Bearer" {
		t.Fatalf("WWW-Authenticate %q, want Bearer", got)
	}
	if got := rec.Header().Get(middleware.HeaderAuthUserID); got != domain.ZeroHexID {
		t.Fatalf("%s %q, want zero sentinel", middleware.HeaderAuthUserID, got)
	}
	// The roles header must be present and empty, not merely absent.
	if vals := rec.Header().Values(middleware.HeaderAuthRoles); len(vals) != 1 || vals[0] != "" {
		t.Fatalf("%s values %v, want one empty value", middleware.HeaderAuthRoles, vals)
	}
	if got := decodeError(t, rec); got != "incorrect username or password" {
		t.Fatalf("error message %q", got)
	}
}

func TestHTTPErrorHandler_DuplicateNamesField(t *testing.T) {
	rec := handleError(t, &domain.AlreadyExistsError{Field: "user_name"})
	if got := decodeError(t, rec); got != "user_name already exists" {
		t.Fatalf("error message %q", got)
	}
}

func TestHTTPErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	rec := handleError(t, errors.New("pq: connection refused"))
	if got := decodeError(t, rec); got != "internal server error" {
		t.Fatalf("internal detail leaked: %q", got)
	}
}
