package middleware

import (
	"context"
	"errors"
	"net/http"

	"clinicalfresh/internal/common"
	"clinicalfresh/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type RBACMiddleware struct {
	rbacService services.RBACService
}

func NewRBACMiddleware(rbacService services.RBACService) *RBACMiddleware {
	return &RBACMiddleware{
		rbacService: rbacService,
	}
}

// RequirePermission resolves the caller's role once per request, stores it
// in the context and checks it against permission.
func (m *RBACMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			role, ok := common.GetRoleFromContext(ctx)
			if !ok {
				var err error
				role, err = m.rbacService.GetUserRole(ctx, userID)
				if errors.Is(err, services.ErrNotFound) {
					return echo.NewHTTPError(http.StatusForbidden, "Profile not found")
				}
				if err != nil {
					log.Error().Err(err).Str("usuario_id", userID.String()).Msg("role lookup failed")
					return echo.NewHTTPError(http.StatusInternalServerError, "Error checking permission")
				}
				ctx = context.WithValue(ctx, common.RoleKey, role)
				c.SetRequest(c.Request().WithContext(ctx))
			}

			if !services.CanRolePerform(role, permission) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}
