package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	ListRecipientsByRoles(ctx context.Context, roles []string) ([]uuid.UUID, error)
}

type notificationRepo struct {
	db DB
}

func NewNotificationRepo(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Estado == "" {
		n.Estado = models.NotificationUnread
	}
	n.CreadoEn = time.Now()

	datos, err := marshalJSONB(n.Datos)
	if err != nil {
		return fmt.Errorf("failed to marshal datos: %w", err)
	}

	query := `
		INSERT INTO notificaciones (id, usuario_id, tipo, titulo, mensaje, estado, datos, creado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query, n.ID, n.UsuarioID, n.Tipo, n.Titulo, n.Mensaje, n.Estado, datos, n.CreadoEn)
	return err
}

func (r *notificationRepo) ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, usuario_id, tipo, titulo, mensaje, estado, datos, creado_en, leido_en
		FROM notificaciones
		WHERE usuario_id = $1 AND estado = $2
		ORDER BY creado_en DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, userID, models.NotificationUnread, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		var datos []byte
		if err := rows.Scan(&n.ID, &n.UsuarioID, &n.Tipo, &n.Titulo, &n.Mensaje, &n.Estado, &datos, &n.CreadoEn,
			&n.LeidoEn); err != nil {
			return nil, err
		}
		if len(datos) > 0 {
			if err := json.Unmarshal(datos, &n.Datos); err != nil {
				return nil, fmt.Errorf("failed to unmarshal datos: %w", err)
			}
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notificaciones WHERE usuario_id = $1 AND estado = $2`
	if err := r.db.QueryRow(ctx, query, userID, models.NotificationUnread).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead returns the owner of the notification so callers can drop cached counts.
func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	query := `
		UPDATE notificaciones SET estado = $1, leido_en = $2
		WHERE id = $3
		RETURNING usuario_id
	`
	if err := r.db.QueryRow(ctx, query, models.NotificationRead, time.Now(), id).Scan(&owner); err != nil {
		return uuid.Nil, notFound(err)
	}
	return owner, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		UPDATE notificaciones SET estado = $1, leido_en = $2
		WHERE usuario_id = $3 AND estado = $4
	`
	tag, err := r.db.Exec(ctx, query, models.NotificationRead, time.Now(), userID, models.NotificationUnread)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListRecipientsByRoles returns the active profiles holding any of roles.
func (r *notificationRepo) ListRecipientsByRoles(ctx context.Context, roles []string) ([]uuid.UUID, error) {
	query := `
		SELECT p.id
		FROM profiles p
		JOIN roles r ON r.id = p.rol_id
		WHERE p.estado = 'activo' AND r.nombre = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, roles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
