package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinicalfresh/internal/common"
	"clinicalfresh/internal/models"
	"clinicalfresh/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AuditLogsService interface {
	// Create audit log entry
	LogActivity(ctx context.Context, tabla, registroID, accion string, usuarioID *uuid.UUID, before, after models.JSONB) error

	// Query audit logs
	ListAuditLogs(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
	GetEntityHistory(ctx context.Context, tabla, registroID string) ([]*models.AuditLog, error)
	GetAuditStats(ctx context.Context, days int) (*models.AuditStats, error)

	// Helper methods for common audit scenarios; the actor is read from ctx
	LogEntityCreate(ctx context.Context, tabla, registroID string, after any)
	LogEntityUpdate(ctx context.Context, tabla, registroID string, before, after any)
	LogEntitySoftDelete(ctx context.Context, tabla, registroID string, before any)
	LogEntityDelete(ctx context.Context, tabla, registroID string, before any)
}

// DefaultAuditStatsDays is the window of GetAuditStats when days is not positive.
const DefaultAuditStatsDays = 30

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogsRepository
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogsRepository) AuditLogsService {
	return &auditLogsService{
		auditLogsRepo: auditLogsRepo,
	}
}

// LogActivity creates a new audit log entry with validation
func (s *auditLogsService) LogActivity(ctx context.Context, tabla, registroID, accion string, usuarioID *uuid.UUID, before, after models.JSONB) error {
	if tabla == "" {
		return errors.New("tabla is required")
	}
	if accion == "" {
		return errors.New("accion is required")
	}

	auditLog := &models.AuditLog{
		ID:              uuid.New(),
		Tabla:           tabla,
		RegistroID:      registroID,
		Accion:          accion,
		DatosAnteriores: before,
		DatosNuevos:     after,
		UsuarioID:       usuarioID,
	}

	return s.auditLogsRepo.Create(ctx, auditLog)
}

func (s *auditLogsService) ListAuditLogs(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}
	if filters.Limit <= 0 || filters.Limit > 1000 {
		filters.Limit = repositories.DefaultAuditLimit
	}
	if filters.Desde != nil && filters.Hasta != nil {
		if err := common.ValidateDateRange(*filters.Desde, *filters.Hasta); err != nil {
			return nil, err
		}
	}
	return s.auditLogsRepo.List(ctx, filters)
}

func (s *auditLogsService) GetEntityHistory(ctx context.Context, tabla, registroID string) ([]*models.AuditLog, error) {
	return s.auditLogsRepo.GetByTableAndRecord(ctx, tabla, registroID)
}

func (s *auditLogsService) GetAuditStats(ctx context.Context, days int) (*models.AuditStats, error) {
	if days <= 0 {
		days = DefaultAuditStatsDays
	}
	if days > 365 {
		return nil, errors.New("date range cannot exceed 1 year for summary queries")
	}

	stats, err := s.auditLogsRepo.GetSummary(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	stats.Dias = days
	return stats, nil
}

func (s *auditLogsService) LogEntityCreate(ctx context.Context, tabla, registroID string, after any) {
	s.logEntity(ctx, tabla, registroID, models.ActionInsert, nil, after)
}

func (s *auditLogsService) LogEntityUpdate(ctx context.Context, tabla, registroID string, before, after any) {
	s.logEntity(ctx, tabla, registroID, models.ActionUpdate, before, after)
}

func (s *auditLogsService) LogEntitySoftDelete(ctx context.Context, tabla, registroID string, before any) {
	s.logEntity(ctx, tabla, registroID, models.ActionSoftDelete, before, nil)
}

func (s *auditLogsService) LogEntityDelete(ctx context.Context, tabla, registroID string, before any) {
	s.logEntity(ctx, tabla, registroID, models.ActionDelete, before, nil)
}

// logEntity never fails the caller's write; audit failures are logged.
func (s *auditLogsService) logEntity(ctx context.Context, tabla, registroID, accion string, before, after any) {
	beforeJSON, err := toJSONB(before)
	if err == nil {
		var afterJSON models.JSONB
		afterJSON, err = toJSONB(after)
		if err == nil {
			err = s.LogActivity(ctx, tabla, registroID, accion, common.UserIDPtrFromContext(ctx), beforeJSON, afterJSON)
		}
	}
	if err != nil {
		log.Warn().Err(err).Str("tabla", tabla).Str("registro_id", registroID).Str("accion", accion).
			Msg("failed to write audit log")
	}
}

func toJSONB(v any) (models.JSONB, error) {
	if v == nil {
		return nil, nil
	}
	if m, ok := v.(models.JSONB); ok {
		return m, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal audit payload: %w", err)
	}
	var out models.JSONB
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("audit payload is not an object: %w", err)
	}
	return out, nil
}
