package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const breakdownSheet = "Desglose"

var breakdownHeaders = []string{
	"Código", "Materia prima", "Cantidad", "Unidad", "Unidad stock", "Costo unitario", "Costo total", "Costeado", "Nota",
}

// ExportBreakdown renders the breakdown of a recipe as a single-sheet
// workbook. The caller owns the returned file and must close it.
func (s *recipeCostService) ExportBreakdown(ctx context.Context, recipeID uuid.UUID) (*excelize.File, string, error) {
	b, err := s.Breakdown(ctx, recipeID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", breakdownSheet); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("header style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("summary style: %w", err)
	}

	f.SetCellValue(breakdownSheet, "A1", b.Codigo)
	f.SetCellValue(breakdownSheet, "B1", b.Nombre)
	f.SetCellStyle(breakdownSheet, "A1", "B1", boldStyle)

	const headerRow = 3
	for i, h := range breakdownHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		f.SetCellValue(breakdownSheet, cell, h)
		f.SetCellStyle(breakdownSheet, cell, cell, headerStyle)
	}

	row := headerRow + 1
	for _, l := range b.Desglose {
		costeado := "No"
		if l.Costeado {
			costeado = "Sí"
		}
		values := []any{
			l.Codigo,
			l.Nombre,
			l.Cantidad.InexactFloat64(),
			l.Unidad,
			l.UnidadStock,
			l.CostoUnitario.InexactFloat64(),
			l.CostoTotal.Round(2).InexactFloat64(),
			costeado,
			l.Nota,
		}
		for i, v := range values {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(breakdownSheet, fmt.Sprintf("%s%d", col, row), v)
		}
		row++
	}

	row++
	summary := [][2]any{
		{"Costo total", b.Resumen.CostoTotal.Round(2).InexactFloat64()},
		{"Ingredientes", b.Resumen.TotalIngredientes},
		{"Con costo", b.Resumen.IngredientesConCosto},
		{"Sin costo", b.Resumen.IngredientesSinCosto},
		{"% costeado", b.Resumen.PorcentajeCosteado.InexactFloat64()},
		{"Porciones", b.Resumen.Porciones},
	}
	if b.Resumen.CostoPorPorcion != nil {
		summary = append(summary, [2]any{"Costo por porción", b.Resumen.CostoPorPorcion.Round(2).InexactFloat64()})
	} else {
		summary = append(summary, [2]any{"Costo por porción", "—"})
	}
	for _, kv := range summary {
		label := fmt.Sprintf("F%d", row)
		f.SetCellValue(breakdownSheet, label, kv[0])
		f.SetCellStyle(breakdownSheet, label, label, boldStyle)
		f.SetCellValue(breakdownSheet, fmt.Sprintf("G%d", row), kv[1])
		row++
	}

	f.SetColWidth(breakdownSheet, "A", "A", 14)
	f.SetColWidth(breakdownSheet, "B", "B", 36)
	f.SetColWidth(breakdownSheet, "C", "H", 14)
	f.SetColWidth(breakdownSheet, "I", "I", 30)

	filename := fmt.Sprintf("desglose_%s.xlsx", b.Codigo)
	return f, filename, nil
}
