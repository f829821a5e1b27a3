package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtplatform/auth-service/internal/api/metrics"
	"github.com/dtplatform/auth-service/internal/core/domain"
	"github.com/dtplatform/auth-service/internal/core/ports"
)

// RoleHandler serves the admin-only role management endpoints.
type RoleHandler struct {
	adminService ports.AdminService
}

func NewRoleHandler(adminService ports.AdminService) *RoleHandler {
	return &RoleHandler{adminService: adminService}
}

type roleResponse struct {
	RoleID   string `json:"role_id"`
	RoleName string `json:"role_name"`
}

// List returns all roles.
//
// @Summary      List all roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   roleResponse
// @Failure      403  {object}  errorResponse
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.adminService.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]roleResponse, len(roles))
	for i, r := range roles {
		out[i] = roleResponse{RoleID: domain.HexID(r.ID), RoleName: r.Name}
	}
	return c.JSON(http.StatusOK, out)
}

// Members returns the users currently holding a role.
//
// @Summary      List members of a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        role_name  path  string  true  "Role name"
// @Success      200  {array}   userInfoResponse
// @Failure      404  {object}  errorResponse
// @Router       /roles/{role_name}/users [get]
func (h *RoleHandler) Members(c echo.Context) error {
	members, err := h.adminService.RoleMembers(c.Request().Context(), c.Param("role_name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserInfoResponses(members))
}

// Create adds a new role.
//
// @Summary      Create a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        role_name  path  string  true  "Role name"
// @Success      201  {object}  roleResponse
// @Failure      400  {object}  errorResponse
// @Router       /roles/{role_name} [post]
func (h *RoleHandler) Create(c echo.Context) error {
	role, err := h.adminService.CreateRole(c.Request().Context(), c.Param("role_name"))
	if err != nil {
		metrics.AdminOpsTotal.WithLabelValues("create_role", "failure").Inc()
		return err
	}
	metrics.AdminOpsTotal.WithLabelValues("create_role", "success").Inc()
	return c.JSON(http.StatusCreated, roleResponse{RoleID: domain.HexID(role.ID), RoleName: role.Name})
}

// Delete removes a role that has no members.
//
// @Summary      Delete a role
// @Tags         roles
// @Security     BearerAuth
// @Param        role_name  path  string  true  "Role name"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /roles/{role_name} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	if err := h.adminService.DeleteRole(c.Request().Context(), c.Param("role_name")); err != nil {
		metrics.AdminOpsTotal.WithLabelValues("delete_role", "failure").Inc()
		return err
	}
	metrics.AdminOpsTotal.WithLabelValues("delete_role", "success").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Assign grants a role to a user; re-assigning an already-held role is a
// no-op.
//
// @Summary      Assign a role to a user
// @Tags         roles
// @Security     BearerAuth
// @Param        user_id    path  string  true  "User id"
// @Param        role_name  path  string  true  "Role name"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /users/{user_id}/roles/{role_name} [post]
func (h *RoleHandler) Assign(c echo.Context) error {
	userID, err := domain.ParseID(c.Param("user_id"))
	if err != nil {
		return domain.ValidationError("invalid user id")
	}
	if err := h.adminService.AssignRole(c.Request().Context(), userID, c.Param("role_name")); err != nil {
		metrics.AdminOpsTotal.WithLabelValues("assign_role", "failure").Inc()
		return err
	}
	metrics.AdminOpsTotal.WithLabelValues("assign_role", "success").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Remove revokes a role from a user; revoking a role the user does not hold
// is a 404.
//
// @Summary      Remove a role from a user
// @Tags         roles
// @Security     BearerAuth
// @Param        user_id    path  string  true  "User id"
// @Param        role_name  path  string  true  "Role name"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{user_id}/roles/{role_name} [delete]
func (h *RoleHandler) Remove(c echo.Context) error {
	userID, err := domain.ParseID(c.Param("user_id"))
	if err != nil {
		return domain.ValidationError("invalid user id")
	}
	if err := h.adminService.RemoveRole(c.Request().Context(), userID, c.Param("role_name")); err != nil {
		metrics.AdminOpsTotal.WithLabelValues("remove_role", "failure").Inc()
		return err
	}
	metrics.AdminOpsTotal.WithLabelValues("remove_role", "success").Inc()
	return c.NoContent(http.StatusNoContent)
}
