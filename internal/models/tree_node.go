package models

import (
	"time"

	"github.com/google/uuid"
)

// TipoRama is the branch a node of the raw-material tree belongs to.
type TipoRama string

const (
	TipoRamaProduccion TipoRama = "produccion"
	TipoRamaEntregable TipoRama = "entregable"
	TipoRamaDesechable TipoRama = "desechable"
)

// Valid reports whether t is one of the known branches.
func (t TipoRama) Valid() bool {
	switch t {
	case TipoRamaProduccion, TipoRamaEntregable, TipoRamaDesechable:
		return true
	}
	return false
}

// Tree levels. Level 5 carries stock, level 6 is the packaging a supplier sells.
const (
	NivelRaiz         = 1
	NivelGrupo        = 2
	NivelCategoria    = 3
	NivelSubcategoria = 4
	NivelProducto     = 5
	NivelPresentacion = 6
)

// TreeNode is a row of arbol_materia_prima.
type TreeNode struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Codigo          string     `json:"codigo" db:"codigo"`
	Nombre          string     `json:"nombre" db:"nombre"`
	Descripcion     *string    `json:"descripcion,omitempty" db:"descripcion"`
	ParentID        *uuid.UUID `json:"parent_id" db:"parent_id"`
	NivelActual     int        `json:"nivel_actual" db:"nivel_actual"`
	TipoRama        TipoRama   `json:"tipo_rama" db:"tipo_rama"`
	Activo          bool       `json:"activo" db:"activo"`
	ManejaStock     bool       `json:"maneja_stock" db:"maneja_stock"`
	StockActual     *float64   `json:"stock_actual,omitempty" db:"stock_actual"`
	StockMinimo     *float64   `json:"stock_minimo,omitempty" db:"stock_minimo"`
	StockMaximo     *float64   `json:"stock_maximo,omitempty" db:"stock_maximo"`
	UnidadStock     *string    `json:"unidad_stock,omitempty" db:"unidad_stock"`
	CostoPromedio   *float64   `json:"costo_promedio,omitempty" db:"costo_promedio"`
	ContenidoUnidad *float64   `json:"contenido_unidad,omitempty" db:"contenido_unidad"`
	UnidadContenido *string    `json:"unidad_contenido,omitempty" db:"unidad_contenido"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether a stock-carrying node is below its minimum.
func (n *TreeNode) IsLowStock() bool {
	if !n.ManejaStock || n.StockActual == nil || n.StockMinimo == nil {
		return false
	}
	return *n.StockActual < *n.StockMinimo
}

// TreeNodeFilters are the optional filters of a tree search.
type TreeNodeFilters struct {
	TipoRama    *TipoRama `json:"tipo_rama" query:"tipo_rama"`
	NivelActual *int      `json:"nivel_actual" query:"nivel_actual"`
	StockBajo   bool      `json:"stock_bajo" query:"stock_bajo"`
}

// ValidationResult is returned instead of an error when a write is rejected
// on its content.
type ValidationResult struct {
	Valido  bool     `json:"valido"`
	Errores []string `json:"errores"`
}

// NewValidationResult returns a result that is valid until an error is added.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{Valido: true, Errores: []string{}}
}

// Add records a failure.
func (v *ValidationResult) Add(msg string) {
	v.Valido = false
	v.Errores = append(v.Errores, msg)
}

// Merge appends the failures of other.
func (v *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for _, e := range other.Errores {
		v.Add(e)
	}
}

// BranchCount is the number of active nodes in a branch.
type BranchCount struct {
	TipoRama TipoRama `json:"tipo_rama"`
	Total    int      `json:"total"`
}

// StockInfo is the stock view of a level-5 node.
type StockInfo struct {
	ID            uuid.UUID `json:"id"`
	Codigo        string    `json:"codigo"`
	Nombre        string    `json:"nombre"`
	StockActual   float64   `json:"stock_actual"`
	StockMinimo   float64   `json:"stock_minimo"`
	StockMaximo   float64   `json:"stock_maximo"`
	UnidadStock   string    `json:"unidad_stock"`
	CostoPromedio float64   `json:"costo_promedio"`
}

// PresentationWithProduct joins a level-6 node with its stock-carrying parent.
type PresentationWithProduct struct {
	Presentacion TreeNode `json:"presentacion"`
	Producto     TreeNode `json:"producto"`
}
