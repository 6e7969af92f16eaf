package services

import (
	"context"
	"testing"

	"clinicalfresh/internal/models"
	"clinicalfresh/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanRolePerform(t *testing.T) {
	assert.True(t, CanRolePerform(models.RoleJefePlanta, models.PermCrearSolicitud))
	assert.True(t, CanRolePerform(models.RoleAdministrador, models.PermVerTodo))
	assert.False(t, CanRolePerform(models.RoleAlmacenista, models.PermAprobarSolicitud))
	assert.False(t, CanRolePerform("", models.PermVerTodo))
	assert.False(t, CanRolePerform(models.RoleAdministrador, "accion_inexistente"))
}

func TestRBACService_UserHasPermission(t *testing.T) {
	repo := &testhelpers.MockProfileRepository{}
	svc := NewRBACService(repo)
	ctx := context.Background()
	userID := uuid.New()
	role := models.RoleAlmacenista
	repo.On("GetByID", ctx, userID).Return(&models.Profile{ID: userID, Estado: "activo", RolNombre: &role}, nil)

	ok, err := svc.UserHasPermission(ctx, userID, models.PermRegistrarFactura)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.UserHasPermission(ctx, userID, models.PermGestionarEmpleados)
	require.NoError(t, err)
	assert.False(t, ok)

	perms, err := svc.GetUserPermissions(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.PermAjustarStock, models.PermRegistrarFactura}, perms)
}

func TestRBACService_InactiveProfileHasNoRole(t *testing.T) {
	repo := &testhelpers.MockProfileRepository{}
	svc := NewRBACService(repo)
	ctx := context.Background()
	userID := uuid.New()
	role := models.RoleAdministrador
	repo.On("GetByID", ctx, userID).Return(&models.Profile{ID: userID, Estado: "inactivo", RolNombre: &role}, nil)

	ok, err := svc.UserHasPermission(ctx, userID, models.PermVerTodo)
	require.NoError(t, err)
	assert.False(t, ok)
}
