package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtplatform/auth-service/internal/api/metrics"
	"github.com/dtplatform/auth-service/internal/core/domain"
	"github.com/dtplatform/auth-service/internal/core/ports"
)

// AuthHandler serves the token endpoint and the caller's own profile.
type AuthHandler struct {
	authService  ports.AuthService
	adminService ports.AdminService
}

func NewAuthHandler(authService ports.AuthService, adminService ports.AdminService) *AuthHandler {
	return &AuthHandler{authService: authService, adminService: adminService}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userInfoResponse struct {
	UserID   string   `json:"user_id"`
	UserName string   `json:"user_name"`
	Roles    []string `json:"roles"`
}

type updateMeRequest struct {
	NewUsername     *string `json:"new_username" validate:"omitempty,printascii"`
	CurrentPassword string  `json:"current_password" validate:"required"`
	NewPassword     *string `json:"new_password" validate:"omitempty,printascii"`
}

// Login authenticates a user and issues a bearer token.
//
// @Summary      Obtain an access token
// @Tags         token
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Router       /token [post]
func (h *AuthHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	token, err := h.authService.Login(c.Request().Context(), username, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the calling user's identity and current roles.
//
// @Summary      Get current user info
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userInfoResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, roles, err := ctxCaller(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userInfoResponse{
		UserID:   domain.HexID(user.ID),
		UserName: user.Name,
		Roles:    roles,
	})
}

// UpdateMe changes the calling user's username and/or password after
// re-verifying the current password.
//
// @Summary      Update own credentials
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateMeRequest  true  "Credential changes"
// @Success      200   {object}  userInfoResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/me [patch]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	caller, roles, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.adminService.UpdateOwnInfo(c.Request().Context(), caller.ID, ports.ChangeOwnInfo{
		NewUsername:     req.NewUsername,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userInfoResponse{
		UserID:   domain.HexID(updated.ID),
		UserName: updated.Name,
		Roles:    roles,
	})
}
