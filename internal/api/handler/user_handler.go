package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtplatform/auth-service/internal/api/metrics"
	"github.com/dtplatform/auth-service/internal/core/domain"
	"github.com/dtplatform/auth-service/internal/core/ports"
)

// UserHandler serves the admin-only user management endpoints.
type UserHandler struct {
	adminService ports.AdminService
}

func NewUserHandler(adminService ports.AdminService) *UserHandler {
	return &UserHandler{adminService: adminService}
}

// List returns all users with their current roles.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userInfoResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	infos, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserInfoResponses(infos))
}

// Search looks a user up by exact username.
//
// @Summary      Find a user by exact username
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username_query  query     string  true  "Exact username"
// @Success      200  {object}  userInfoResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	info, err := h.adminService.SearchUser(c.Request().Context(), c.QueryParam("username_query"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserInfoResponse(*info))
}

// Create registers a new user with no roles.
//
// @Summary      Create a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        user_name  query     string  true  "Username"
// @Param        password   query     string  true  "Password"
// @Success      201  {object}  userInfoResponse
// @Failure      400  {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	user, err := h.adminService.CreateUser(c.Request().Context(), c.QueryParam("user_name"), c.QueryParam("password"))
	if err != nil {
		metrics.AdminOpsTotal.WithLabelValues("create_user", "failure").Inc()
		return err
	}
	metrics.AdminOpsTotal.WithLabelValues("create_user", "success").Inc()
	return c.JSON(http.StatusCreated, userInfoResponse{
		UserID:   domain.HexID(user.ID),
		UserName: user.Name,
		Roles:    []string{},
	})
}

// Delete removes a user and its role assignments.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{user_id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := domain.ParseID(c.Param("user_id"))
	if err != nil {
		return domain.ValidationError("invalid user id")
	}
	if err := h.adminService.DeleteUser(c.Request().Context(), id); err != nil {
		metrics.AdminOpsTotal.WithLabelValues("delete_user", "failure").Inc()
		return err
	}
	metrics.AdminOpsTotal.WithLabelValues("delete_user", "success").Inc()
	return c.NoContent(http.StatusNoContent)
}

func toUserInfoResponse(info ports.UserInfo) userInfoResponse {
	roles := info.Roles
	if roles == nil {
		roles = []string{}
	}
	return userInfoResponse{
		UserID:   domain.HexID(info.ID),
		UserName: info.Name,
		Roles:    roles,
	}
}

func toUserInfoResponses(infos []ports.UserInfo) []userInfoResponse {
	out := make([]userInfoResponse, len(infos))
	for i, info := range infos {
		out[i] = toUserInfoResponse(info)
	}
	return out
}
