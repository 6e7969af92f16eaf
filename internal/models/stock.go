package models

import (
	"time"

	"github.com/google/uuid"
)

// StockOperation is how actualizar_stock applies a quantity.
type StockOperation string

const (
	StockIncrement StockOperation = "incrementar"
	StockDecrement StockOperation = "decrementar"
	StockSet       StockOperation = "establecer"
)

// Valid reports whether op is a known operation.
func (op StockOperation) Valid() bool {
	return op == StockIncrement || op == StockDecrement || op == StockSet
}

// StockMovement is a row of movimientos_inventario.
type StockMovement struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ProductoID     uuid.UUID  `json:"producto_id" db:"producto_id"`
	TipoMovimiento string     `json:"tipo_movimiento" db:"tipo_movimiento"`
	Cantidad       float64    `json:"cantidad" db:"cantidad"`
	StockAnterior  *float64   `json:"stock_anterior" db:"stock_anterior"`
	StockNuevo     *float64   `json:"stock_nuevo" db:"stock_nuevo"`
	FacturaID      *uuid.UUID `json:"factura_id,omitempty" db:"factura_id"`
	Observaciones  *string    `json:"observaciones,omitempty" db:"observaciones"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// StockAdjustment is one item of a batch stock update.
type StockAdjustment struct {
	ProductoID uuid.UUID      `json:"producto_id" validate:"required"`
	Cantidad   float64        `json:"cantidad" validate:"gte=0"`
	Operacion  StockOperation `json:"operacion" validate:"required,oneof=incrementar decrementar establecer"`
}

// StockAdjustmentResult reports the outcome of one batch item.
type StockAdjustmentResult struct {
	ProductoID uuid.UUID `json:"producto_id"`
	StockNuevo *float64  `json:"stock_nuevo,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Stock alert states of vista_stock_alertas.
const (
	StockStateCritical = "CRÍTICO"
	StockStateLow      = "BAJO"
	StockStateExcess   = "EXCESO"
	StockStateNormal   = "NORMAL"
)

// StockAlert is a row of vista_stock_alertas.
type StockAlert struct {
	ProductoID  uuid.UUID `json:"producto_id"`
	Codigo      string    `json:"codigo"`
	Nombre      string    `json:"nombre"`
	StockActual float64   `json:"stock_actual"`
	StockMinimo float64   `json:"stock_minimo"`
	StockMaximo float64   `json:"stock_maximo"`
	UnidadStock string    `json:"unidad_stock"`
	EstadoStock string    `json:"estado_stock"`
}

// BranchStockSummary aggregates stock-carrying nodes of a branch.
type BranchStockSummary struct {
	TipoRama        TipoRama `json:"tipo_rama"`
	Productos       int      `json:"productos"`
	ConStockBajo    int      `json:"con_stock_bajo"`
	ValorInventario float64  `json:"valor_inventario"`
}
