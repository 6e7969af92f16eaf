package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records a change to a business table.
type AuditLog struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Tabla           string     `json:"tabla" db:"tabla"`
	RegistroID      string     `json:"registro_id" db:"registro_id"`
	Accion          string     `json:"accion" db:"accion"`
	DatosAnteriores JSONB      `json:"datos_anteriores" db:"datos_anteriores"`
	DatosNuevos     JSONB      `json:"datos_nuevos" db:"datos_nuevos"`
	UsuarioID       *uuid.UUID `json:"usuario_id" db:"usuario_id"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// Action constants for audit logs
const (
	ActionInsert     = "INSERT"
	ActionUpdate     = "UPDATE"
	ActionDelete     = "DELETE"
	ActionSoftDelete = "SOFT_DELETE"
)

// AuditLogFilters represents filters for querying audit logs
type AuditLogFilters struct {
	Tabla      *string    `json:"tabla" query:"tabla"`
	RegistroID *string    `json:"registro_id" query:"registro_id"`
	Accion     *string    `json:"accion" query:"accion"`
	UsuarioID  *uuid.UUID `json:"usuario_id" query:"usuario_id"`
	Desde      *time.Time `json:"desde" query:"desde"`
	Hasta      *time.Time `json:"hasta" query:"hasta"`
	Limit      int        `json:"limit" query:"limit"`
}

// AuditStats summarises audit activity over a window of days.
type AuditStats struct {
	Dias          int            `json:"dias"`
	Total         int            `json:"total"`
	PorTabla      map[string]int `json:"por_tabla"`
	PorAccion     map[string]int `json:"por_accion"`
	UsuariosUnico int            `json:"usuarios_unicos"`
	Desde         time.Time      `json:"desde"`
}
