package services

import (
	"context"
	"sort"

	"clinicalfresh/internal/models"
	"clinicalfresh/internal/repositories"

	"github.com/google/uuid"
)

type RBACService interface {
	UserHasPermission(ctx context.Context, userID uuid.UUID, action string) (bool, error)
	GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error)
	GetUserRole(ctx context.Context, userID uuid.UUID) (string, error)
}

type rbacService struct {
	profileRepo repositories.ProfileRepository
}

func NewRBACService(profileRepo repositories.ProfileRepository) RBACService {
	return &rbacService{profileRepo: profileRepo}
}

// CanRolePerform reports whether role may perform action. Unknown actions
// are denied.
func CanRolePerform(role, action string) bool {
	if role == "" {
		return false
	}
	for _, allowed := range models.Permissions[action] {
		if allowed == role {
			return true
		}
	}
	return false
}

// GetUserRole returns an empty role for profiles that are inactive or have
// no role assigned.
func (s *rbacService) GetUserRole(ctx context.Context, userID uuid.UUID) (string, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile.Estado != "" && profile.Estado != "activo" {
		return "", nil
	}
	if profile.RolNombre == nil {
		return "", nil
	}
	return *profile.RolNombre, nil
}

func (s *rbacService) UserHasPermission(ctx context.Context, userID uuid.UUID, action string) (bool, error) {
	role, err := s.GetUserRole(ctx, userID)
	if err != nil {
		return false, err
	}
	return CanRolePerform(role, action), nil
}

func (s *rbacService) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	role, err := s.GetUserRole(ctx, userID)
	if err != nil {
		return nil, err
	}

	perms := []string{}
	for action := range models.Permissions {
		if CanRolePerform(role, action) {
			perms = append(perms, action)
		}
	}
	sort.Strings(perms)
	return perms, nil
}
