package testhelpers

import (
	"fmt"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// NewNode builds an active node of the production branch under parent.
func NewNode(nivel int, nombre string, parent *models.TreeNode) *models.TreeNode {
	n := &models.TreeNode{
		ID:          uuid.New(),
		Codigo:      fmt.Sprintf("MP-N%d-%s", nivel, uuid.NewString()[:4]),
		Nombre:      nombre,
		NivelActual: nivel,
		TipoRama:    models.TipoRamaProduccion,
		Activo:      true,
	}
	if parent != nil {
		n.ParentID = &parent.ID
		n.TipoRama = parent.TipoRama
	}
	return n
}

// NewStockProduct builds a level-5 product that carries stock in unidad.
// Its parent id points at a subcategory that is not built.
func NewStockProduct(nombre, unidad string) *models.TreeNode {
	parent := uuid.New()
	n := NewNode(models.NivelProducto, nombre, nil)
	n.Codigo = "MP-01-02-03-04"
	n.ParentID = &parent
	n.ManejaStock = true
	n.UnidadStock = Ptr(unidad)
	return n
}

// NewPresentation builds a level-6 presentation of product.
func NewPresentation(product *models.TreeNode, nombre string, contenido float64, unidad string) *models.TreeNode {
	n := NewNode(models.NivelPresentacion, nombre, product)
	n.ContenidoUnidad = Ptr(contenido)
	n.UnidadContenido = Ptr(unidad)
	return n
}

// NewCostBreakdown builds a breakdown whose summary matches lines.
func NewCostBreakdown(porciones int, lines ...models.CostLine) *models.CostBreakdown {
	total := decimal.Zero
	costed := 0
	for _, l := range lines {
		total = total.Add(l.CostoTotal)
		if l.Costeado {
			costed++
		}
	}
	b := &models.CostBreakdown{
		RecetaID: uuid.New(),
		Codigo:   "REC-001",
		Nombre:   "Receta de prueba",
		Desglose: lines,
		Resumen: models.CostSummary{
			CostoTotal:           total,
			TotalIngredientes:    len(lines),
			IngredientesConCosto: costed,
			IngredientesSinCosto: len(lines) - costed,
			PorcentajeCosteado:   decimal.Zero,
			Porciones:            porciones,
		},
	}
	if len(lines) > 0 {
		b.Resumen.PorcentajeCosteado = decimal.NewFromInt(int64(costed * 100)).
			Div(decimal.NewFromInt(int64(len(lines)))).Round(1)
	}
	if porciones > 0 {
		pp := total.Div(decimal.NewFromInt(int64(porciones))).Round(2)
		b.Resumen.CostoPorPorcion = &pp
	}
	return b
}
