package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"clinicalfresh/internal/models"
	"clinicalfresh/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Defaults of the cost queries.
const (
	DefaultTopCostly       = 5
	DefaultRecipesWithCost = 100
	maxCompareRecipes      = 10
)

var (
	ErrIngredientNotInRecipe = errors.New("material is not an ingredient of the recipe")
	ErrNegativePrice         = errors.New("price cannot be negative")
)

var hundred = decimal.NewFromInt(100)

type RecipeCostService interface {
	Breakdown(ctx context.Context, recipeID uuid.UUID) (*models.CostBreakdown, error)
	TopCostly(ctx context.Context, recipeID uuid.UUID, n int) ([]models.IngredientCostShare, error)
	IngredientPriceImpact(ctx context.Context, recipeID, materiaPrimaID uuid.UUID, newPrice decimal.Decimal) (*models.PriceImpact, error)
	PriceImpact(ctx context.Context, materiaPrimaID uuid.UUID, newPrice decimal.Decimal) ([]*models.PriceImpact, error)
	Compare(ctx context.Context, recipeIDs []uuid.UUID) ([]models.RecipeComparison, error)
	CostHistory(ctx context.Context, recipeID uuid.UUID, months int) (map[uuid.UUID][]*models.PriceHistoryEntry, error)

	RecipesWithCosts(ctx context.Context, sortByCost bool) ([]models.RecipeWithCost, error)
	RecalculateAll(ctx context.Context) (*models.RecalculationResult, error)
	RecalculatePending(ctx context.Context) (*models.RecalculationResult, error)
	SimulatePriceChange(ctx context.Context, materiaPrimaID uuid.UUID, newPrice decimal.Decimal) ([]models.PriceChangeSimulation, error)

	ExportBreakdown(ctx context.Context, recipeID uuid.UUID) (*excelize.File, string, error)
}

type recipeCostService struct {
	recipeRepo   repositories.RecipeRepository
	priceService PriceService
}

func NewRecipeCostService(recipeRepo repositories.RecipeRepository, priceService PriceService) RecipeCostService {
	return &recipeCostService{
		recipeRepo:   recipeRepo,
		priceService: priceService,
	}
}

// Breakdown reads the recipe and all of its ingredients before costing any
// line; nothing is cached or persisted.
func (s *recipeCostService) Breakdown(ctx context.Context, recipeID uuid.UUID) (*models.CostBreakdown, error) {
	recipe, ingredients, err := s.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return ComputeBreakdown(recipe, ingredients), nil
}

func (s *recipeCostService) load(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, []*models.RecipeIngredient, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		return nil, nil, err
	}
	ingredients, err := s.recipeRepo.ListIngredients(ctx, recipeID)
	if err != nil {
		return nil, nil, fmt.Errorf("list ingredients: %w", err)
	}
	return recipe, ingredients, nil
}

// ComputeBreakdown prices every ingredient in its material's stock unit.
// Uncosted lines stay in the result with a zero total.
func ComputeBreakdown(recipe *models.Recipe, ingredients []*models.RecipeIngredient) *models.CostBreakdown {
	lines := make([]models.CostLine, 0, len(ingredients))
	total := decimal.Zero
	costed := 0

	for _, ing := range ingredients {
		line := costLine(ing)
		if line.Costeado {
			costed++
		}
		total = total.Add(line.CostoTotal)
		lines = append(lines, line)
	}

	summary := models.CostSummary{
		CostoTotal:           total,
		TotalIngredientes:    len(lines),
		IngredientesConCosto: costed,
		IngredientesSinCosto: len(lines) - costed,
		PorcentajeCosteado:   decimal.Zero,
		Porciones:            recipe.Portions(),
	}
	if len(lines) > 0 {
		summary.PorcentajeCosteado = decimal.NewFromInt(int64(costed)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(len(lines)))).
			Round(1)
	}
	if summary.Porciones > 0 {
		perPortion := total.Div(decimal.NewFromInt(int64(summary.Porciones)))
		summary.CostoPorPorcion = &perPortion
	}

	return &models.CostBreakdown{
		RecetaID: recipe.ID,
		Codigo:   recipe.Codigo,
		Nombre:   recipe.Nombre,
		Desglose: lines,
		Resumen:  summary,
	}
}

func costLine(ing *models.RecipeIngredient) models.CostLine {
	unit := NormalizeUnit(ing.UnidadMedida)
	line := models.CostLine{
		IngredienteID:  ing.ID,
		MateriaPrimaID: ing.MateriaPrimaID,
		Cantidad:       decimal.NewFromFloat(ing.CantidadRequerida),
		Unidad:         unit,
		UnidadStock:    unit,
		CostoUnitario:  decimal.Zero,
		CostoTotal:     decimal.Zero,
	}

	mp := ing.MateriaPrima
	if mp == nil {
		line.Nota = "Materia prima no encontrada"
		return line
	}
	line.Codigo = mp.Codigo
	line.Nombre = mp.Nombre
	if mp.UnidadStock != nil && *mp.UnidadStock != "" {
		line.UnidadStock = NormalizeUnit(*mp.UnidadStock)
	}
	if mp.CostoPromedio == nil || *mp.CostoPromedio <= 0 {
		line.Nota = "Sin costo promedio"
		return line
	}
	line.CostoUnitario = decimal.NewFromFloat(*mp.CostoPromedio)

	qty, ok := ConvertQuantity(line.Cantidad, line.Unidad, line.UnidadStock)
	if !ok {
		line.Nota = fmt.Sprintf("No se puede convertir %s a %s", line.Unidad, line.UnidadStock)
		return line
	}
	line.CostoTotal = qty.Mul(line.CostoUnitario)
	line.Costeado = true
	return line
}

// TopCostly returns the n most expensive lines, each with its share of the
// recipe total.
func (s *recipeCostService) TopCostly(ctx context.Context, recipeID uuid.UUID, n int) ([]models.IngredientCostShare, error) {
	if n <= 0 {
		n = DefaultTopCostly
	}
	b, err := s.Breakdown(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return RankLines(b, n), nil
}

// RankLines sorts the breakdown lines by total, descending, and keeps n.
// Ties keep their recipe order.
func RankLines(b *models.CostBreakdown, n int) []models.IngredientCostShare {
	lines := make([]models.CostLine, len(b.Desglose))
	copy(lines, b.Desglose)
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].CostoTotal.GreaterThan(lines[j].CostoTotal)
	})
	if n < len(lines) {
		lines = lines[:n]
	}

	shares := make([]models.IngredientCostShare, 0, len(lines))
	for _, l := range lines {
		pct := decimal.Zero
		if b.Resumen.CostoTotal.IsPositive() {
			pct = l.CostoTotal.Mul(hundred).Div(b.Resumen.CostoTotal).Round(1)
		}
		shares = append(shares, models.IngredientCostShare{CostLine: l, PorcentajeDelTotal: pct})
	}
	return shares
}

func (s *recipeCostService) IngredientPriceImpact(ctx context.Context, recipeID, materiaPrimaID uuid.UUID, newPrice decimal.Decimal) (*models.PriceImpact, error) {
	if newPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	recipe, ingredients, err := s.load(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return priceImpact(recipe, ingredients, materiaPrimaID, newPrice)
}

// PriceImpact recomputes every active recipe that uses the material with the
// new unit price.
func (s *recipeCostService) PriceImpact(ctx context.Context, materiaPrimaID uuid.UUID, newPrice decimal.Decimal) ([]*models.PriceImpact, error) {
	if newPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	recipes, err := s.recipeRepo.ListUsingMaterial(ctx, materiaPrimaID)
	if err != nil {
		return nil, err
	}

	impacts := make([]*models.PriceImpact, 0, len(recipes))
	for _, recipe := range recipes {
		ingredients, err := s.recipeRepo.ListIngredients(ctx, recipe.ID)
		if err != nil {
			return nil, fmt.Errorf("list ingredients of %s: %w", recipe.Codigo, err)
		}
		impact, err := priceImpact(recipe, ingredients, materiaPrimaID, newPrice)
		if errors.Is(err, ErrIngredientNotInRecipe) {
			continue
		}
		if err != nil {
			return nil, err
		}
		impacts = append(impacts, impact)
	}
	sort.SliceStable(impacts, func(i, j int) bool {
		return impacts[i].ImpactoEnReceta.Abs().GreaterThan(impacts[j].ImpactoEnReceta.Abs())
	})
	return impacts, nil
}

func priceImpact(recipe *models.Recipe, ingredients []*models.RecipeIngredient, materiaPrimaID uuid.UUID, newPrice decimal.Decimal) (*models.PriceImpact, error) {
	before := ComputeBreakdown(recipe, ingredients)

	var changed *models.RecipeIngredient
	repriced := make([]*models.RecipeIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing.MateriaPrimaID != materiaPrimaID || ing.MateriaPrima == nil {
			repriced = append(repriced, ing)
			continue
		}
		cp := *ing
		mp := *ing.MateriaPrima
		price := newPrice.InexactFloat64()
		mp.CostoPromedio = &price
		cp.MateriaPrima = &mp
		repriced = append(repriced, &cp)
		if changed == nil {
			changed = ing
		}
	}
	if changed == nil {
		return nil, fmt.Errorf("%w: %s", ErrIngredientNotInRecipe, materiaPrimaID)
	}
	after := ComputeBreakdown(recipe, repriced)

	oldLine := costLine(changed)
	newLine := costLine(repriced[indexOf(ingredients, changed)])

	impact := &models.PriceImpact{
		RecetaID:            recipe.ID,
		MateriaPrimaID:      materiaPrimaID,
		Ingrediente:         changed.MateriaPrima.Nombre,
		CostoAnterior:       oldLine.CostoTotal,
		CostoNuevo:          newLine.CostoTotal,
		Diferencia:          newLine.CostoTotal.Sub(oldLine.CostoTotal),
		PorcentajeCambio:    decimal.Zero,
		CostoRecetaAnterior: before.Resumen.CostoTotal,
		CostoRecetaNuevo:    after.Resumen.CostoTotal,
		ImpactoEnReceta:     decimal.Zero,
	}
	if oldLine.CostoTotal.IsPositive() {
		impact.PorcentajeCambio = impact.Diferencia.Mul(hundred).Div(oldLine.CostoTotal).Round(1)
	}
	if before.Resumen.CostoTotal.IsPositive() {
		impact.ImpactoEnReceta = after.Resumen.CostoTotal.Sub(before.Resumen.CostoTotal).
			Mul(hundred).Div(before.Resumen.CostoTotal).Round(1)
	}
	return impact, nil
}

func indexOf(ingredients []*models.RecipeIngredient, target *models.RecipeIngredient) int {
	for i, ing := range ingredients {
		if ing == target {
			return i
		}
	}
	return -1
}

func (s *recipeCostService) Compare(ctx context.Context, recipeIDs []uuid.UUID) ([]models.RecipeComparison, error) {
	if len(recipeIDs) == 0 {
		return []models.RecipeComparison{}, nil
	}
	if len(recipeIDs) > maxCompareRecipes {
		return nil, fmt.Errorf("%w: at most %d recipes can be compared", ErrInvalidRecipe, maxCompareRecipes)
	}

	out := make([]models.RecipeComparison, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		recipe, ingredients, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, models.RecipeComparison{
			Receta:   *recipe,
			Desglose: ComputeBreakdown(recipe, ingredients),
		})
	}
	return out, nil
}

// CostHistory returns the price history of each distinct ingredient material.
func (s *recipeCostService) CostHistory(ctx context.Context, recipeID uuid.UUID, months int) (map[uuid.UUID][]*models.PriceHistoryEntry, error) {
	ingredients, err := s.recipeRepo.ListIngredients(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	history := make(map[uuid.UUID][]*models.PriceHistoryEntry, len(ingredients))
	for _, ing := range ingredients {
		if _, seen := history[ing.MateriaPrimaID]; seen {
			continue
		}
		entries, err := s.priceService.PriceHistory(ctx, ing.MateriaPrimaID, months)
		if err != nil {
			return nil, err
		}
		history[ing.MateriaPrimaID] = entries
	}
	return history, nil
}

func (s *recipeCostService) RecipesWithCosts(ctx context.Context, sortByCost bool) ([]models.RecipeWithCost, error) {
	recipes, err := s.recipeRepo.ListActive(ctx, DefaultRecipesWithCost)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return []models.RecipeWithCost{}, nil
	}

	ids := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	costs, err := s.recipeRepo.BatchCosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("batch costs: %w", err)
	}
	byRecipe := make(map[uuid.UUID]models.RecipeBatchCost, len(costs))
	for _, c := range costs {
		byRecipe[c.RecetaID] = c
	}

	out := make([]models.RecipeWithCost, 0, len(recipes))
	for _, r := range recipes {
		cost, ok := byRecipe[r.ID]
		if !ok {
			cost = models.RecipeBatchCost{RecetaID: r.ID, Rendimiento: r.Portions()}
		}
		out = append(out, models.RecipeWithCost{Receta: *r, Costo: cost})
	}
	if sortByCost {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Costo.CostoTotal > out[j].Costo.CostoTotal
		})
	}
	return out, nil
}

func (s *recipeCostService) RecalculateAll(ctx context.Context) (*models.RecalculationResult, error) {
	return s.recipeRepo.RecalculateAll(ctx)
}

func (s *recipeCostService) RecalculatePending(ctx context.Context) (*models.RecalculationResult, error) {
	return s.recipeRepo.RecalculatePending(ctx)
}

func (s *recipeCostService) SimulatePriceChange(ctx context.Context, materiaPrimaID uuid.UUID, newPrice decimal.Decimal) ([]models.PriceChangeSimulation, error) {
	if newPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	rows, err := s.recipeRepo.SimulatePriceChange(ctx, materiaPrimaID, newPrice.InexactFloat64())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return math.Abs(rows[i].Diferencia) > math.Abs(rows[j].Diferencia)
	})
	return rows, nil
}
