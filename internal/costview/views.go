// Package costview turns a recipe cost breakdown into the view models the
// client renders, and tracks the loading state of each displayed breakdown.
package costview

import (
	"clinicalfresh/internal/models"
	"clinicalfresh/internal/services"

	"github.com/shopspring/decimal"
)

// TopLines is how many ingredients the full view ranks.
const TopLines = 3

type Compact struct {
	CostoTotal      string `json:"costo_total"`
	CostoPorPorcion string `json:"costo_por_porcion,omitempty"`
	Porciones       string `json:"porciones,omitempty"`
}

// NewCompact shows the per-portion cost only for recipes that yield more
// than one portion.
func NewCompact(b *models.CostBreakdown) Compact {
	v := Compact{CostoTotal: FormatMoney(b.Resumen.CostoTotal)}
	if b.Resumen.Porciones > 1 {
		v.CostoPorPorcion = perPortion(b)
		v.Porciones = PortionsLabel(b.Resumen.Porciones)
	}
	return v
}

func perPortion(b *models.CostBreakdown) string {
	if b.Resumen.CostoPorPorcion == nil {
		return Dash
	}
	return FormatMoney(*b.Resumen.CostoPorPorcion)
}

type RankedLine struct {
	Posicion           int    `json:"posicion"`
	Nombre             string `json:"nombre"`
	CostoTotal         string `json:"costo_total"`
	PorcentajeDelTotal string `json:"porcentaje_del_total"`
}

type TableRow struct {
	Codigo        string `json:"codigo"`
	Nombre        string `json:"nombre"`
	Cantidad      string `json:"cantidad"`
	CostoUnitario string `json:"costo_unitario"`
	CostoTotal    string `json:"costo_total"`
	Costeado      bool   `json:"costeado"`
	Nota          string `json:"nota,omitempty"`
}

type Full struct {
	CostoTotal           string       `json:"costo_total"`
	CostoPorPorcion      string       `json:"costo_por_porcion"`
	Porciones            string       `json:"porciones"`
	TotalIngredientes    int          `json:"total_ingredientes"`
	IngredientesConCosto int          `json:"ingredientes_con_costo"`
	IngredientesSinCosto int          `json:"ingredientes_sin_costo"`
	PorcentajeCosteado   string       `json:"porcentaje_costeado"`
	Cobertura            int          `json:"cobertura"`
	Top                  []RankedLine `json:"top"`
	Tabla                []TableRow   `json:"tabla"`
}

func NewFull(b *models.CostBreakdown) Full {
	r := b.Resumen
	v := Full{
		CostoTotal:           FormatMoney(r.CostoTotal),
		CostoPorPorcion:      perPortion(b),
		Porciones:            PortionsLabel(r.Porciones),
		TotalIngredientes:    r.TotalIngredientes,
		IngredientesConCosto: r.IngredientesConCosto,
		IngredientesSinCosto: r.IngredientesSinCosto,
		PorcentajeCosteado:   FormatPercent(r.PorcentajeCosteado),
		Cobertura:            Coverage(r.PorcentajeCosteado),
		Top:                  Top(b, TopLines),
		Tabla:                make([]TableRow, 0, len(b.Desglose)),
	}
	for _, l := range b.Desglose {
		row := TableRow{
			Codigo:        l.Codigo,
			Nombre:        l.Nombre,
			Cantidad:      l.Cantidad.String() + " " + l.Unidad,
			CostoUnitario: Dash,
			CostoTotal:    FormatMoney(l.CostoTotal),
			Costeado:      l.Costeado,
			Nota:          l.Nota,
		}
		if l.Costeado {
			row.CostoUnitario = FormatMoney(l.CostoUnitario) + "/" + l.UnidadStock
		}
		v.Tabla = append(v.Tabla, row)
	}
	return v
}

// Coverage clamps the costed percentage to a 0..100 progress value.
func Coverage(pct decimal.Decimal) int {
	n := pct.Round(0).IntPart()
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	}
	return int(n)
}

// Top formats the n most expensive lines ranked by services.RankLines.
func Top(b *models.CostBreakdown, n int) []RankedLine {
	shares := services.RankLines(b, n)
	out := make([]RankedLine, 0, len(shares))
	for i, l := range shares {
		out = append(out, RankedLine{
			Posicion:           i + 1,
			Nombre:             l.Nombre,
			CostoTotal:         FormatMoney(l.CostoTotal),
			PorcentajeDelTotal: FormatPercent(l.PorcentajeDelTotal),
		})
	}
	return out
}
