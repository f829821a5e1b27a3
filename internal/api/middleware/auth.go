package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dtplatform/auth-service/internal/api/metrics"
	"github.com/dtplatform/auth-service/internal/core/domain"
	"github.com/dtplatform/auth-service/internal/core/ports"
)

// Response headers stamped by the authorizer. On success they carry the
// resolved identity; on any auth failure the user id is the all-zero
// sentinel and the roles header is empty.
const (
	HeaderAuthUserID = "X-Auth-User-ID"
	HeaderAuthRoles  = "X-Auth-Roles"
)

// Context keys under which the authorizer stores the resolved caller.
const (
	ContextUserKey  = "auth_user"
	ContextRolesKey = "auth_roles"
)

// Authorizer builds per-route access-control middleware. Role membership is
// resolved from storage on every request, never from the token, so role
// changes take effect on the next request.
type Authorizer struct {
	codec ports.TokenCodec
	repo  ports.IdentityRepository
}

func NewAuthorizer(codec ports.TokenCodec, repo ports.IdentityRepository) *Authorizer {
	return &Authorizer{codec: codec, repo: repo}
}

// Require returns middleware that admits callers holding at least one of the
// given roles. With no arguments it only requires authentication. A caller
// holding the reserved admin role is always admitted.
func (a *Authorizer) Require(roles ...string) echo.MiddlewareFunc {
	required := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		required[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
				return unauthorized(c, "missing bearer token")
			}

			userID, err := a.codec.Decode(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenValidationsTotal.WithLabelValues("expired").Inc()
					return unauthorized(c, "token has expired")
				}
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return unauthorized(c, "invalid token")
			}

			ctx := c.Request().Context()
			user, found, err := a.repo.FindUserByID(ctx, userID)
			if err != nil {
				return err
			}
			if !found {
				// A token naming a deleted user is inert, not an error.
				metrics.TokenValidationsTotal.WithLabelValues("unknown_user").Inc()
				return unauthorized(c, "user not found")
			}
			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()

			callerRoles, err := a.repo.RoleNamesForUser(ctx, user.ID)
			if err != nil {
				return err
			}

			if !authorize(required, callerRoles) {
				metrics.AuthzDecisionsTotal.WithLabelValues("deny").Inc()
				failureHeaders(c)
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			metrics.AuthzDecisionsTotal.WithLabelValues("permit").Inc()

			c.Response().Header().Set(HeaderAuthUserID, domain.HexID(user.ID))
			c.Response().Header().Set(HeaderAuthRoles, strings.Join(callerRoles, ","))
			c.Set(ContextUserKey, user)
			c.Set(ContextRolesKey, callerRoles)
			return next(c)
		}
	}
}

// authorize is the pure access decision: the admin role is a superuser
// override, an empty requirement means authentication only, otherwise the
// caller needs at least one required role.
func authorize(required map[string]struct{}, callerRoles []string) bool {
	for _, r := range callerRoles {
		if r == domain.AdminName {
			return true
		}
	}
	if len(required) == 0 {
		return true
	}
	for _, r := range callerRoles {
		if _, ok := required[r]; ok {
			return true
		}
	}
	return false
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// failureHeaders advertises the bearer challenge and the neutral identity
// markers so failed requests leak nothing about the caller.
func failureHeaders(c echo.Context) {
	h := c.Response().Header()
	h.Set(echo.HeaderWWWAuthenticate, "Bearer")
	h.Set(HeaderAuthUserID, domain.ZeroHexID)
	h.Set(HeaderAuthRoles, "")
}

func unauthorized(c echo.Context, msg string) error {
	failureHeaders(c)
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
