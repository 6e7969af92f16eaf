package services

import (
	"context"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockAuditLogsService records entity audit calls made by other services.
type mockAuditLogsService struct {
	mock.Mock
}

func (m *mockAuditLogsService) LogActivity(ctx context.Context, tabla, registroID, accion string, usuarioID *uuid.UUID, before, after models.JSONB) error {
	return m.Called(ctx, tabla, registroID, accion, usuarioID, before, after).Error(0)
}

func (m *mockAuditLogsService) ListAuditLogs(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *mockAuditLogsService) GetEntityHistory(ctx context.Context, tabla, registroID string) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tabla, registroID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *mockAuditLogsService) GetAuditStats(ctx context.Context, days int) (*models.AuditStats, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditStats), args.Error(1)
}

func (m *mockAuditLogsService) LogEntityCreate(ctx context.Context, tabla, registroID string, after any) {
	m.Called(ctx, tabla, registroID, after)
}

func (m *mockAuditLogsService) LogEntityUpdate(ctx context.Context, tabla, registroID string, before, after any) {
	m.Called(ctx, tabla, registroID, before, after)
}

func (m *mockAuditLogsService) LogEntitySoftDelete(ctx context.Context, tabla, registroID string, before any) {
	m.Called(ctx, tabla, registroID, before)
}

func (m *mockAuditLogsService) LogEntityDelete(ctx context.Context, tabla, registroID string, before any) {
	m.Called(ctx, tabla, registroID, before)
}
