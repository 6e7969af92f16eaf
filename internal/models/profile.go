package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names as stored in roles.nombre.
const (
	RoleAdministrador   = "administrador"
	RoleJefePlanta      = "jefe de planta"
	RoleJefeCompras     = "jefe de compras"
	RoleAuxiliarCompras = "auxiliar de compras"
	RoleAlmacenista     = "almacenista"
	RoleTalentoHumano   = "talento humano"
	RoleNutricionista   = "nutricionista"
)

// Profile is the application profile of an authenticated user.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Nombre    string    `json:"nombre" db:"nombre"`
	Email     string    `json:"email" db:"email"`
	Estado    string    `json:"estado" db:"estado"`
	RolNombre *string   `json:"rol,omitempty" db:"rol_nombre"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
