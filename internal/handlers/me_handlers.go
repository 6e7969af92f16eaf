package handlers

import (
	"net/http"

	"clinicalfresh/internal/common"
	"clinicalfresh/internal/services"

	"github.com/labstack/echo/v4"
)

// MeHandlers describes the authenticated caller.
type MeHandlers struct {
	rbacSvc services.RBACService
}

func NewMeHandlers(rbacSvc services.RBACService) *MeHandlers {
	return &MeHandlers{rbacSvc: rbacSvc}
}

func (h *MeHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, err := h.rbacSvc.GetUserRole(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	perms, err := h.rbacSvc.GetUserPermissions(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"usuario_id": userID,
		"rol":        role,
		"permisos":   perms,
	})
}
