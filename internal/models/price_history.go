package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceHistoryEntry is the unit price of a product observed on an invoice.
// Rows are written by the invoice flow and never updated.
type PriceHistoryEntry struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ProductoID     uuid.UUID  `json:"producto_id" db:"producto_id"`
	PresentacionID *uuid.UUID `json:"presentacion_id,omitempty" db:"presentacion_id"`
	FacturaID      uuid.UUID  `json:"factura_id" db:"factura_id"`
	NumeroFactura  *string    `json:"numero_factura,omitempty" db:"numero_factura"`
	FechaFactura   *time.Time `json:"fecha_factura,omitempty" db:"fecha_factura"`
	PrecioUnitario float64    `json:"precio_unitario" db:"precio_unitario"`
	Cantidad       float64    `json:"cantidad" db:"cantidad"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// AveragePrice is the result of the weighted average price procedure.
// Precio is nil when the window holds no history.
type AveragePrice struct {
	ProductoID uuid.UUID `json:"producto_id"`
	Meses      int       `json:"meses"`
	Desde      time.Time `json:"desde"`
	Precio     *float64  `json:"precio_promedio"`
}
