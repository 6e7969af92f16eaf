package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Defaults of an audit search.
const (
	DefaultAuditWindow = 30 * 24 * time.Hour
	DefaultAuditLimit  = 100
)

type AuditLogsRepository interface {
	// Create a new audit log entry
	Create(ctx context.Context, auditLog *models.AuditLog) error

	// History of one record, newest first
	GetByTableAndRecord(ctx context.Context, tabla, registroID string) ([]*models.AuditLog, error)

	// List audit logs with filtering options
	List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)

	// Get audit summary since a point in time
	GetSummary(ctx context.Context, since time.Time) (*models.AuditStats, error)
}

type auditLogsRepo struct {
	db DB
}

func NewAuditLogsRepo(db DB) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

const auditColumns = `id, tabla, registro_id, accion, datos_anteriores, datos_nuevos, usuario_id, created_at`

func marshalJSONB(v models.JSONB) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func scanAuditLog(row pgx.Row) (*models.AuditLog, error) {
	auditLog := &models.AuditLog{}
	var oldBytes, newBytes []byte
	if err := row.Scan(&auditLog.ID, &auditLog.Tabla, &auditLog.RegistroID, &auditLog.Accion, &oldBytes, &newBytes,
		&auditLog.UsuarioID, &auditLog.CreatedAt); err != nil {
		return nil, err
	}

	if len(oldBytes) > 0 {
		if err := json.Unmarshal(oldBytes, &auditLog.DatosAnteriores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal datos_anteriores: %w", err)
		}
	}
	if len(newBytes) > 0 {
		if err := json.Unmarshal(newBytes, &auditLog.DatosNuevos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal datos_nuevos: %w", err)
		}
	}
	return auditLog, nil
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	auditLog.CreatedAt = time.Now()
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}

	oldBytes, err := marshalJSONB(auditLog.DatosAnteriores)
	if err != nil {
		return fmt.Errorf("failed to marshal datos_anteriores: %w", err)
	}
	newBytes, err := marshalJSONB(auditLog.DatosNuevos)
	if err != nil {
		return fmt.Errorf("failed to marshal datos_nuevos: %w", err)
	}

	query := `
		INSERT INTO auditoria (id, tabla, registro_id, accion, datos_anteriores, datos_nuevos, usuario_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query, auditLog.ID, auditLog.Tabla, auditLog.RegistroID, auditLog.Accion, oldBytes,
		newBytes, auditLog.UsuarioID, auditLog.CreatedAt)
	return err
}

func (r *auditLogsRepo) GetByTableAndRecord(ctx context.Context, tabla, registroID string) ([]*models.AuditLog, error) {
	query := `SELECT ` + auditColumns + `
		FROM auditoria
		WHERE tabla = $1 AND registro_id = $2
		ORDER BY created_at DESC`
	return r.queryLogs(ctx, query, tabla, registroID)
}

// List applies the filters, defaulting to the last 30 days and 100 rows.
func (r *auditLogsRepo) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &models.AuditLogFilters{}
	}

	desde := time.Now().Add(-DefaultAuditWindow)
	if filters.Desde != nil {
		desde = *filters.Desde
	}

	query := `SELECT ` + auditColumns + `
		FROM auditoria
		WHERE created_at >= $1`
	args := []any{desde}

	if filters.Hasta != nil {
		args = append(args, *filters.Hasta)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if filters.Tabla != nil {
		args = append(args, *filters.Tabla)
		query += fmt.Sprintf(" AND tabla = $%d", len(args))
	}
	if filters.RegistroID != nil {
		args = append(args, *filters.RegistroID)
		query += fmt.Sprintf(" AND registro_id = $%d", len(args))
	}
	if filters.Accion != nil {
		args = append(args, *filters.Accion)
		query += fmt.Sprintf(" AND accion = $%d", len(args))
	}
	if filters.UsuarioID != nil {
		args = append(args, *filters.UsuarioID)
		query += fmt.Sprintf(" AND usuario_id = $%d", len(args))
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	return r.queryLogs(ctx, query, args...)
}

func (r *auditLogsRepo) queryLogs(ctx context.Context, query string, args ...any) ([]*models.AuditLog, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	auditLogs := []*models.AuditLog{}
	for rows.Next() {
		auditLog, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		auditLogs = append(auditLogs, auditLog)
	}
	return auditLogs, rows.Err()
}

func (r *auditLogsRepo) GetSummary(ctx context.Context, since time.Time) (*models.AuditStats, error) {
	summary := &models.AuditStats{
		PorTabla:  make(map[string]int),
		PorAccion: make(map[string]int),
		Desde:     since,
	}

	query := `SELECT COUNT(*), COUNT(DISTINCT usuario_id) FROM auditoria WHERE created_at >= $1`
	if err := r.db.QueryRow(ctx, query, since).Scan(&summary.Total, &summary.UsuariosUnico); err != nil {
		return nil, err
	}

	if err := r.groupCount(ctx, "tabla", since, summary.PorTabla); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, "accion", since, summary.PorAccion); err != nil {
		return nil, err
	}
	return summary, nil
}

// groupCount fills into with COUNT(*) grouped by column, a trusted identifier.
func (r *auditLogsRepo) groupCount(ctx context.Context, column string, since time.Time, into map[string]int) error {
	query := `SELECT ` + column + `, COUNT(*) FROM auditoria WHERE created_at >= $1 GROUP BY ` + column
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}
