package costview

import (
	"context"
	"errors"
	"testing"

	"clinicalfresh/internal/models"
	"clinicalfresh/testhelpers"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(name, total string, costed bool) models.CostLine {
	return models.CostLine{
		Codigo:        name,
		Nombre:        name,
		Cantidad:      dec("1"),
		Unidad:        "kg",
		UnidadStock:   "kg",
		CostoUnitario: dec(total),
		CostoTotal:    dec(total),
		Costeado:      costed,
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "$0,00",
		"5.5":      "$5,50",
		"1234.5":   "$1234,50",
		"12345.5":  "$12.345,50",
		"1234567":  "$1.234.567,00",
		"-98765.4": "$-98.765,40",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(dec(in)), in)
	}
	assert.Equal(t, "66,7%", FormatPercent(dec("66.666")))
}

func TestPortionsLabel(t *testing.T) {
	assert.Equal(t, "1 porción", PortionsLabel(1))
	assert.Equal(t, "4 porciones", PortionsLabel(4))
}

func TestCompact_PerPortionOnlyForSeveralPortions(t *testing.T) {
	b := testhelpers.NewCostBreakdown(4, line("Papa", "2.00", true), line("Cebolla", "3.50", true))
	v := NewCompact(b)
	assert.Equal(t, "$5,50", v.CostoTotal)
	assert.Equal(t, "$1,38", v.CostoPorPorcion)
	assert.Equal(t, "4 porciones", v.Porciones)

	single := NewCompact(testhelpers.NewCostBreakdown(1, line("Papa", "2.00", true)))
	assert.Empty(t, single.CostoPorPorcion)
	assert.Empty(t, single.Porciones)
}

func TestFull(t *testing.T) {
	b := testhelpers.NewCostBreakdown(0,
		line("Papa", "2.00", true),
		line("Cebolla", "3.50", true),
		line("Sal", "0", false),
	)

	v := NewFull(b)

	assert.Equal(t, "$5,50", v.CostoTotal)
	assert.Equal(t, Dash, v.CostoPorPorcion)
	assert.Equal(t, "66,7%", v.PorcentajeCosteado)
	assert.Equal(t, 67, v.Cobertura)
	require.Len(t, v.Top, 3)
	assert.Equal(t, "Cebolla", v.Top[0].Nombre)
	assert.Equal(t, "63,6%", v.Top[0].PorcentajeDelTotal)
	assert.Equal(t, "Papa", v.Top[1].Nombre)
	require.Len(t, v.Tabla, 3)
	assert.Equal(t, Dash, v.Tabla[2].CostoUnitario)
	assert.Equal(t, "$2,00/kg", v.Tabla[0].CostoUnitario)
	assert.Equal(t, "1 kg", v.Tabla[0].Cantidad)
}

func TestTop_LimitsAndZeroTotal(t *testing.T) {
	b := testhelpers.NewCostBreakdown(0,
		line("A", "0", false), line("B", "0", false),
		line("C", "0", false), line("D", "0", false),
	)
	top := Top(b, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "A", top[0].Nombre, "ties keep recipe order")
	assert.Equal(t, "0,0%", top[0].PorcentajeDelTotal)
}

func TestCoverage_Clamped(t *testing.T) {
	assert.Equal(t, 0, Coverage(dec("-3")))
	assert.Equal(t, 100, Coverage(dec("140")))
	assert.Equal(t, 50, Coverage(dec("50")))
}

func TestPanel_Transitions(t *testing.T) {
	b := testhelpers.NewCostBreakdown(1, line("Papa", "2", true))

	p := Loading().Succeeded(b)
	assert.Equal(t, StatusReady, p.Status)
	assert.Same(t, b, p.Breakdown)

	assert.Equal(t, p, p.Failed(errors.New("late")), "settled panels ignore results")

	p = p.Refresh()
	assert.Equal(t, StatusLoading, p.Status)
	assert.Same(t, b, p.Breakdown)
	assert.Equal(t, p, p.Refresh())

	p = p.Failed(errors.New("timeout"))
	assert.Equal(t, StatusErrored, p.Status)
	assert.Equal(t, "timeout", p.Error)
	assert.Same(t, b, p.Breakdown, "failure keeps the previous breakdown")

	p = p.Refresh().Succeeded(nil)
	assert.Equal(t, StatusReady, p.Status)
	assert.Empty(t, p.Error)
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Breakdown(ctx context.Context, recipeID uuid.UUID) (*models.CostBreakdown, error) {
	args := m.Called(ctx, recipeID)
	if b := args.Get(0); b != nil {
		return b.(*models.CostBreakdown), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestBoard_FailureKeepsLastGood(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	b := testhelpers.NewCostBreakdown(2, line("Papa", "2", true))
	f := new(mockFetcher)
	f.On("Breakdown", ctx, id).Return(b, nil).Once()
	f.On("Breakdown", ctx, id).Return(nil, errors.New("db down")).Once()

	board := NewBoard(f)

	first := board.Load(ctx, id)
	assert.Equal(t, StatusReady, first.Status)

	second := board.Load(ctx, id)
	assert.Equal(t, StatusErrored, second.Status)
	assert.Same(t, b, second.Breakdown)

	board.Forget(id)
	f.On("Breakdown", ctx, id).Return(nil, errors.New("db down")).Once()
	third := board.Load(ctx, id)
	assert.Nil(t, third.Breakdown)
	f.AssertExpectations(t)
}
