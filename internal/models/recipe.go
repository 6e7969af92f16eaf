package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipe tree levels.
const (
	NivelConector       = 1
	NivelRecetaEstandar = 2
	NivelRecetaLocal    = 3
)

// Recipe is a row of arbol_recetas.
type Recipe struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Codigo       string     `json:"codigo" db:"codigo"`
	Nombre       string     `json:"nombre" db:"nombre"`
	Descripcion  *string    `json:"descripcion,omitempty" db:"descripcion"`
	ParentID     *uuid.UUID `json:"parent_id" db:"parent_id"`
	NivelActual  int        `json:"nivel_actual" db:"nivel_actual"`
	PlatoID      *uuid.UUID `json:"plato_id,omitempty" db:"plato_id"`
	Rendimiento  *int       `json:"rendimiento,omitempty" db:"rendimiento"`
	CostoPorcion *float64   `json:"costo_porcion,omitempty" db:"costo_porcion"`
	Activo       bool       `json:"activo" db:"activo"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Portions returns the recipe yield, zero when unset.
func (r *Recipe) Portions() int {
	if r.Rendimiento == nil {
		return 0
	}
	return *r.Rendimiento
}

// RecipeIngredient ties a recipe to a stock-carrying node of the raw-material tree.
type RecipeIngredient struct {
	ID                uuid.UUID `json:"id" db:"id"`
	RecetaID          uuid.UUID `json:"receta_id" db:"receta_id"`
	MateriaPrimaID    uuid.UUID `json:"materia_prima_id" db:"materia_prima_id"`
	CantidadRequerida float64   `json:"cantidad_requerida" db:"cantidad_requerida"`
	UnidadMedida      string    `json:"unidad_medida" db:"unidad_medida"`
	Orden             int       `json:"orden" db:"orden"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	MateriaPrima *IngredientMaterial `json:"materia_prima,omitempty" db:"-"`
}

// IngredientMaterial is the slice of a TreeNode needed to cost an ingredient.
type IngredientMaterial struct {
	ID            uuid.UUID `json:"id"`
	Codigo        string    `json:"codigo"`
	Nombre        string    `json:"nombre"`
	CostoPromedio *float64  `json:"costo_promedio"`
	UnidadStock   *string   `json:"unidad_stock"`
}

// RecipeBatchCost is a row of calcular_costos_batch.
type RecipeBatchCost struct {
	RecetaID             uuid.UUID `json:"receta_id"`
	CostoTotal           float64   `json:"costo_total"`
	CostoPorPorcion      float64   `json:"costo_por_porcion"`
	IngredientesCount    int       `json:"ingredientes_count"`
	IngredientesConCosto int       `json:"ingredientes_con_costo"`
	IngredientesSinCosto int       `json:"ingredientes_sin_costo"`
	Rendimiento          int       `json:"rendimiento"`
}

// RecipeWithCost pairs a recipe with its batch cost.
type RecipeWithCost struct {
	Receta Recipe          `json:"receta"`
	Costo  RecipeBatchCost `json:"costo"`
}

// PriceChangeSimulation is a row of simular_cambio_precio.
type PriceChangeSimulation struct {
	RecetaID    uuid.UUID `json:"receta_id"`
	Codigo      string    `json:"codigo"`
	Nombre      string    `json:"nombre"`
	CostoActual float64   `json:"costo_actual"`
	CostoNuevo  float64   `json:"costo_nuevo"`
	Diferencia  float64   `json:"diferencia"`
	Porcentaje  float64   `json:"porcentaje"`
}

// RecalculationResult summarises a bulk recipe cost recalculation.
type RecalculationResult struct {
	RecetasActualizadas int   `json:"recetas_actualizadas"`
	TiempoMs            int64 `json:"tiempo_ms"`
}
