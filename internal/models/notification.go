package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationState is the read state of a notification.
type NotificationState string

const (
	NotificationUnread NotificationState = "sin_leer"
	NotificationRead   NotificationState = "leido"
)

// NotificationType classifies what raised a notification.
type NotificationType string

const (
	NotificationTypeLowStock    NotificationType = "stock_bajo"
	NotificationTypeRecipeCost  NotificationType = "costo_receta"
	NotificationTypeEmployeeDoc NotificationType = "documento_empleado"
	NotificationTypeGeneral     NotificationType = "general"
)

// Notification is a row of notificaciones.
type Notification struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	UsuarioID uuid.UUID         `json:"usuario_id" db:"usuario_id"`
	Tipo      NotificationType  `json:"tipo" db:"tipo"`
	Titulo    string            `json:"titulo" db:"titulo"`
	Mensaje   string            `json:"mensaje" db:"mensaje"`
	Estado    NotificationState `json:"estado" db:"estado"`
	Datos     JSONB             `json:"datos,omitempty" db:"datos"`
	CreadoEn  time.Time         `json:"creado_en" db:"creado_en"`
	LeidoEn   *time.Time        `json:"leido_en,omitempty" db:"leido_en"`
}

// JSONB represents a PostgreSQL jsonb column.
type JSONB map[string]interface{}

// LowStockAlertData is the payload of a stock_bajo notification.
type LowStockAlertData struct {
	ProductoID  string  `json:"producto_id"`
	Codigo      string  `json:"codigo"`
	Nombre      string  `json:"nombre"`
	StockActual float64 `json:"stock_actual"`
	StockMinimo float64 `json:"stock_minimo"`
	UnidadStock string  `json:"unidad_stock"`
}

// JSONB returns the payload stored in datos.
func (d LowStockAlertData) JSONB() JSONB {
	return JSONB{
		"producto_id":  d.ProductoID,
		"codigo":       d.Codigo,
		"nombre":       d.Nombre,
		"stock_actual": d.StockActual,
		"stock_minimo": d.StockMinimo,
		"unidad_stock": d.UnidadStock,
	}
}
