package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return SendValidationErrors(c, details)
}

// SendValidationErrors sends a validation error response with one entry per field
func SendValidationErrors(c echo.Context, details map[string]string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendConflictError sends a conflict error response
func SendConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// SendTooManyRequestsError sends a rate limit error response
func SendTooManyRequestsError(c echo.Context, message string) error {
	return c.JSON(http.StatusTooManyRequests, CreateErrorResponse("RATE_LIMITED", message, nil))
}

// ValidateUUID parses a required UUID parameter
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID", fieldName)
	}
	return id, nil
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// UserIDPtrFromContext returns the user ID as an optional audit actor
func UserIDPtrFromContext(ctx context.Context) *uuid.UUID {
	if userID, ok := GetUserIDFromContext(ctx); ok {
		return &userID
	}
	return nil
}

// GetRoleFromContext extracts the resolved role name from the request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// Limits applied to list and search inputs.
const (
	MaxSearchLength = 100
	DefaultPageSize = 50
	MaxPageSize     = 200
	MaxOffset       = 100000
	MaxDateRange    = 366 * 24 * time.Hour
)

// SanitizeSearchQuery drops LIKE wildcards and keeps at most
// MaxSearchLength characters.
func SanitizeSearchQuery(query string) string {
	query = strings.NewReplacer("%", "", "_", "").Replace(query)
	query = strings.TrimSpace(query)
	if r := []rune(query); len(r) > MaxSearchLength {
		query = strings.TrimSpace(string(r[:MaxSearchLength]))
	}
	return query
}

// ValidatePaginationParams clamps limit to 1..MaxPageSize and rejects
// offsets beyond MaxOffset.
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if offset > MaxOffset {
		return 0, 0, fmt.Errorf("offset no puede superar %d", MaxOffset)
	}
	return limit, offset, nil
}

func ValidateDateRange(desde, hasta time.Time) error {
	if hasta.Before(desde) {
		return fmt.Errorf("la fecha final es anterior a la inicial")
	}
	if hasta.Sub(desde) > MaxDateRange {
		return fmt.Errorf("el rango de fechas no puede superar un año")
	}
	return nil
}
