package repositories

import (
	"context"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type profileRepo struct {
	db DB
}

func NewProfileRepo(db DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p := &models.Profile{}
	query := `
		SELECT p.id, p.nombre, p.email, p.estado, r.nombre, p.created_at
		FROM profiles p
		LEFT JOIN roles r ON r.id = p.rol_id
		WHERE p.id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Nombre, &p.Email, &p.Estado, &p.RolNombre, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}
