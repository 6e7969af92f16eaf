package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinicalfresh/internal/caching"
	"clinicalfresh/internal/models"
	"clinicalfresh/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	UnreadNotificationsLimit = 50
	unreadCountTTL           = 5 * time.Minute
)

// NotificationService handles in-app notifications
type NotificationService interface {
	Unread(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Create(ctx context.Context, n *models.Notification) error

	// NotifyRoles sends one notification to every active user holding any of
	// roles and returns how many were created.
	NotifyRoles(ctx context.Context, roles []string, tipo models.NotificationType, titulo, mensaje string, datos models.JSONB) (int, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	cache            caching.CacheService
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, cache caching.CacheService) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		cache:            cache,
	}
}

func (s *notificationService) Unread(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	return s.notificationRepo.ListUnread(ctx, userID, UnreadNotificationsLimit)
}

// UnreadCount is served from the cache when possible; cache failures fall
// through to the database.
func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count, found, err := s.cache.GetUnreadCount(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("usuario_id", userID.String()).Msg("unread count cache read failed")
	} else if found {
		return count, nil
	}

	count, err = s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.cache.SetUnreadCount(ctx, userID, count, unreadCountTTL); err != nil {
		log.Warn().Err(err).Str("usuario_id", userID.String()).Msg("unread count cache write failed")
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	owner, err := s.notificationRepo.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	s.invalidate(ctx, owner)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, userID)
	return n, nil
}

func (s *notificationService) Create(ctx context.Context, n *models.Notification) error {
	n.Titulo = strings.TrimSpace(n.Titulo)
	if n.UsuarioID == uuid.Nil {
		return errors.New("usuario_id is required")
	}
	if n.Titulo == "" {
		return errors.New("titulo is required")
	}
	if n.Tipo == "" {
		n.Tipo = models.NotificationTypeGeneral
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}
	s.invalidate(ctx, n.UsuarioID)
	return nil
}

func (s *notificationService) NotifyRoles(ctx context.Context, roles []string, tipo models.NotificationType, titulo, mensaje string, datos models.JSONB) (int, error) {
	recipients, err := s.notificationRepo.ListRecipientsByRoles(ctx, roles)
	if err != nil {
		return 0, fmt.Errorf("list recipients: %w", err)
	}

	sent := 0
	for _, userID := range recipients {
		n := &models.Notification{
			UsuarioID: userID,
			Tipo:      tipo,
			Titulo:    titulo,
			Mensaje:   mensaje,
			Datos:     datos,
		}
		if err := s.Create(ctx, n); err != nil {
			log.Warn().Err(err).Str("usuario_id", userID.String()).Str("tipo", string(tipo)).
				Msg("failed to create notification")
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *notificationService) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.DeleteUnreadCount(ctx, userID); err != nil {
		log.Warn().Err(err).Str("usuario_id", userID.String()).Msg("unread count cache invalidation failed")
	}
}
