package handlers

import (
	"net/http"
	"time"

	"clinicalfresh/internal/models"
	"clinicalfresh/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditLogsHandlers handles audit log queries
type AuditLogsHandlers struct {
	auditLogsService services.AuditLogsService
}

func NewAuditLogsHandlers(auditLogsService services.AuditLogsService) *AuditLogsHandlers {
	return &AuditLogsHandlers{
		auditLogsService: auditLogsService,
	}
}

func parseTimeParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
}

// ListAuditLogs filters by tabla, registro_id, accion, usuario_id and the
// desde/hasta window (last 30 days when unset).
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	filters := &models.AuditLogFilters{Limit: queryInt(c, "limit", 0)}
	if tabla := c.QueryParam("tabla"); tabla != "" {
		filters.Tabla = &tabla
	}
	if registroID := c.QueryParam("registro_id"); registroID != "" {
		filters.RegistroID = &registroID
	}
	if accion := c.QueryParam("accion"); accion != "" {
		filters.Accion = &accion
	}
	if raw := c.QueryParam("usuario_id"); raw != "" {
		uid, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid usuario_id")
		}
		filters.UsuarioID = &uid
	}
	var err error
	if filters.Desde, err = parseTimeParam(c, "desde"); err != nil {
		return err
	}
	if filters.Hasta, err = parseTimeParam(c, "hasta"); err != nil {
		return err
	}

	logs, err := h.auditLogsService.ListAuditLogs(c.Request().Context(), filters)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, logs)
}

func (h *AuditLogsHandlers) GetEntityHistory(c echo.Context) error {
	logs, err := h.auditLogsService.GetEntityHistory(c.Request().Context(), c.Param("tabla"), c.Param("registroId"))
	if err != nil {
		return respondError(c, err)
	}
	return list(c, logs)
}

func (h *AuditLogsHandlers) GetAuditStats(c echo.Context) error {
	stats, err := h.auditLogsService.GetAuditStats(c.Request().Context(), queryInt(c, "dias", services.DefaultAuditStatsDays))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
