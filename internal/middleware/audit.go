package middleware

import (
	"net/http"
	"strings"
	"time"

	"clinicalfresh/internal/common"
	"clinicalfresh/internal/models"
	"clinicalfresh/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Sensitivity levels of AuditRequest.
const (
	SensitivityLow    = "low"
	SensitivityMedium = "medium"
	SensitivityHigh   = "high"
)

const (
	httpRequestsTable          = "http_requests"
	httpRequestsSensitiveTable = "http_requests_sensitive"
)

var (
	skipPrefixes     = []string{"/health", "/swagger", "/favicon", "/robots.txt"}
	sensitiveHeaders = map[string]bool{
		"authorization":       true,
		"cookie":              true,
		"x-api-key":           true,
		"x-auth-token":        true,
		"proxy-authorization": true,
	}
)

// AuditMiddleware records HTTP requests in the audit log.
type AuditMiddleware struct {
	auditService services.AuditLogsService
}

func NewAuditMiddleware(auditService services.AuditLogsService) *AuditMiddleware {
	return &AuditMiddleware{
		auditService: auditService,
	}
}

// AuditRequest logs requests after they are handled. Low sensitivity logs
// writes and failures only; medium adds reads and query params; high adds
// sanitized headers and uses a separate table. Audit failures never fail
// the request.
func (m *AuditMiddleware) AuditRequest(sensitivity string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			path := c.Path()
			if skipPath(path) {
				return err
			}
			if sensitivity != SensitivityHigh && sensitivity != SensitivityMedium && !isWrite(method) && err == nil {
				return err
			}

			data := models.JSONB{
				"method":     method,
				"path":       path,
				"status":     c.Response().Status,
				"user_agent": c.Request().UserAgent(),
				"ip":         c.RealIP(),
				"timestamp":  time.Now().Format(time.RFC3339),
			}
			if err != nil {
				data["error"] = err.Error()
			}

			table := httpRequestsTable
			switch sensitivity {
			case SensitivityHigh:
				table = httpRequestsSensitiveTable
				data["query_params"] = c.QueryParams()
				data["headers"] = sanitizeHeaders(c.Request().Header)
			case SensitivityMedium:
				data["query_params"] = c.QueryParams()
			}

			ctx := c.Request().Context()
			action := method + " " + path
			if auditErr := m.auditService.LogActivity(ctx, table, c.Request().URL.Path, action, common.UserIDPtrFromContext(ctx), nil, data); auditErr != nil {
				log.Warn().Err(auditErr).Str("path", path).Msg("failed to log audit activity")
			}
			return err
		}
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func skipPath(path string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func sanitizeHeaders(headers http.Header) map[string]any {
	sanitized := make(map[string]any, len(headers))
	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			sanitized[key] = "[REDACTED]"
			continue
		}
		sanitized[key] = values
	}
	return sanitized
}
