package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostLine is the cost of one ingredient of a recipe.
type CostLine struct {
	IngredienteID  uuid.UUID       `json:"ingrediente_id"`
	MateriaPrimaID uuid.UUID       `json:"materia_prima_id"`
	Codigo         string          `json:"materia_prima_codigo"`
	Nombre         string          `json:"materia_prima_nombre"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Unidad         string          `json:"unidad"`
	UnidadStock    string          `json:"unidad_stock"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	CostoTotal     decimal.Decimal `json:"costo_total"`
	Costeado       bool            `json:"costeado"`
	Nota           string          `json:"nota,omitempty"`
}

// CostSummary aggregates the lines of a breakdown.
type CostSummary struct {
	CostoTotal           decimal.Decimal  `json:"costo_total"`
	TotalIngredientes    int              `json:"total_ingredientes"`
	IngredientesConCosto int              `json:"ingredientes_con_costo"`
	IngredientesSinCosto int              `json:"ingredientes_sin_costo"`
	PorcentajeCosteado   decimal.Decimal  `json:"porcentaje_costeado"`
	Porciones            int              `json:"porciones"`
	CostoPorPorcion      *decimal.Decimal `json:"costo_por_porcion"`
}

// CostBreakdown is computed on every request and never stored.
type CostBreakdown struct {
	RecetaID uuid.UUID   `json:"receta_id"`
	Codigo   string      `json:"codigo"`
	Nombre   string      `json:"nombre"`
	Desglose []CostLine  `json:"desglose"`
	Resumen  CostSummary `json:"resumen"`
}

// IngredientCostShare is a line ranked by cost with its share of the total.
type IngredientCostShare struct {
	CostLine
	PorcentajeDelTotal decimal.Decimal `json:"porcentaje_del_total"`
}

// PriceImpact is the effect of a new unit price of one ingredient on a recipe.
type PriceImpact struct {
	RecetaID            uuid.UUID       `json:"receta_id"`
	MateriaPrimaID      uuid.UUID       `json:"materia_prima_id"`
	Ingrediente         string          `json:"ingrediente"`
	CostoAnterior       decimal.Decimal `json:"costo_anterior"`
	CostoNuevo          decimal.Decimal `json:"costo_nuevo"`
	Diferencia          decimal.Decimal `json:"diferencia"`
	PorcentajeCambio    decimal.Decimal `json:"porcentaje_cambio"`
	CostoRecetaAnterior decimal.Decimal `json:"costo_receta_anterior"`
	CostoRecetaNuevo    decimal.Decimal `json:"costo_receta_nuevo"`
	ImpactoEnReceta     decimal.Decimal `json:"impacto_en_receta"`
}

// RecipeComparison is one entry of a side-by-side cost comparison.
type RecipeComparison struct {
	Receta   Recipe         `json:"receta"`
	Desglose *CostBreakdown `json:"desglose"`
}
