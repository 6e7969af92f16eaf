package handlers

import (
	"net/http"

	"clinicalfresh/internal/common"
	"clinicalfresh/internal/services"

	"github.com/labstack/echo/v4"
)

// NotificationHandlers serves the caller's in-app notifications.
type NotificationHandlers struct {
	notificationSvc services.NotificationService
}

func NewNotificationHandlers(notificationSvc services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{
		notificationSvc: notificationSvc,
	}
}

func (h *NotificationHandlers) ListUnread(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	notifications, err := h.notificationSvc.Unread(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, notifications)
}

func (h *NotificationHandlers) UnreadCount(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	n, err := h.notificationSvc.UnreadCount(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"sin_leer": n})
}

func (h *NotificationHandlers) MarkRead(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notificationSvc.MarkRead(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandlers) MarkAllRead(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	n, err := h.notificationSvc.MarkAllRead(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"marcadas": n})
}
