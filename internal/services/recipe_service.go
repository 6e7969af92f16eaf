package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"clinicalfresh/internal/models"
	"clinicalfresh/internal/repositories"

	"github.com/google/uuid"
)

// MinRecipeSearchLength is the shortest term that filters recipes by text.
const MinRecipeSearchLength = 2

const (
	recipeTable     = "arbol_recetas"
	ingredientTable = "receta_ingredientes"
)

type RecipeService interface {
	GetConnectors(ctx context.Context) ([]*models.Recipe, error)
	GetStandardRecipes(ctx context.Context) ([]*models.Recipe, error)
	GetChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Recipe, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetByCode(ctx context.Context, codigo string) (*models.Recipe, error)
	GetByDish(ctx context.Context, platoID uuid.UUID) ([]*models.Recipe, error)
	Search(ctx context.Context, term string, nivel *int) ([]*models.Recipe, error)
	CountByLevel(ctx context.Context, nivel int) (int, error)

	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	Update(ctx context.Context, id uuid.UUID, recipe *models.Recipe) (*models.Recipe, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Duplicate(ctx context.Context, id uuid.UUID, newName string) (*models.Recipe, error)

	GetIngredients(ctx context.Context, recipeID uuid.UUID) ([]*models.RecipeIngredient, error)
	AddIngredient(ctx context.Context, ingredient *models.RecipeIngredient) (*models.RecipeIngredient, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, ingredient *models.RecipeIngredient) (*models.RecipeIngredient, error)
	RemoveIngredient(ctx context.Context, id uuid.UUID) error
}

type recipeService struct {
	recipeRepo   repositories.RecipeRepository
	auditService AuditLogsService
	now          func() time.Time
}

func NewRecipeService(recipeRepo repositories.RecipeRepository, auditService AuditLogsService) RecipeService {
	return &recipeService{
		recipeRepo:   recipeRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

func (s *recipeService) GetConnectors(ctx context.Context) ([]*models.Recipe, error) {
	return s.recipeRepo.ListByLevel(ctx, models.NivelConector)
}

func (s *recipeService) GetStandardRecipes(ctx context.Context) ([]*models.Recipe, error) {
	return s.recipeRepo.ListByLevel(ctx, models.NivelRecetaEstandar)
}

func (s *recipeService) GetChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Recipe, error) {
	return s.recipeRepo.ListChildren(ctx, parentID)
}

func (s *recipeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, id)
}

func (s *recipeService) GetByCode(ctx context.Context, codigo string) (*models.Recipe, error) {
	return s.recipeRepo.GetByCode(ctx, strings.TrimSpace(codigo))
}

func (s *recipeService) GetByDish(ctx context.Context, platoID uuid.UUID) ([]*models.Recipe, error) {
	return s.recipeRepo.ListByDish(ctx, platoID)
}

// Search ignores terms shorter than MinRecipeSearchLength and lists by
// level only.
func (s *recipeService) Search(ctx context.Context, term string, nivel *int) ([]*models.Recipe, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinRecipeSearchLength {
		term = ""
	}
	if utf8.RuneCountInString(term) > maxSearchLength {
		return nil, ErrSearchTermTooLong
	}
	if nivel != nil && !validRecipeLevel(*nivel) {
		return nil, fmt.Errorf("%w: nivel %d", ErrInvalidRecipe, *nivel)
	}
	return s.recipeRepo.Search(ctx, term, nivel)
}

func (s *recipeService) CountByLevel(ctx context.Context, nivel int) (int, error) {
	if !validRecipeLevel(nivel) {
		return 0, fmt.Errorf("%w: nivel %d", ErrInvalidRecipe, nivel)
	}
	return s.recipeRepo.CountByLevel(ctx, nivel)
}

func validRecipeLevel(nivel int) bool {
	return nivel >= models.NivelConector && nivel <= models.NivelRecetaLocal
}

func validateRecipe(r *models.Recipe) error {
	switch {
	case r.Codigo == "":
		return fmt.Errorf("%w: codigo es requerido", ErrInvalidRecipe)
	case r.Nombre == "":
		return fmt.Errorf("%w: nombre es requerido", ErrInvalidRecipe)
	case !validRecipeLevel(r.NivelActual):
		return fmt.Errorf("%w: nivel %d", ErrInvalidRecipe, r.NivelActual)
	case r.NivelActual > models.NivelConector && r.ParentID == nil:
		return fmt.Errorf("%w: el nivel %d requiere un padre", ErrInvalidRecipe, r.NivelActual)
	case r.Rendimiento != nil && *r.Rendimiento < 0:
		return fmt.Errorf("%w: rendimiento negativo", ErrInvalidRecipe)
	}
	return nil
}

func (s *recipeService) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	recipe.Codigo = strings.TrimSpace(recipe.Codigo)
	recipe.Nombre = strings.TrimSpace(recipe.Nombre)
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	s.auditService.LogEntityCreate(ctx, recipeTable, recipe.ID.String(), recipe)
	return recipe, nil
}

func (s *recipeService) Update(ctx context.Context, id uuid.UUID, recipe *models.Recipe) (*models.Recipe, error) {
	existing, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe.ID = id
	recipe.Codigo = strings.TrimSpace(recipe.Codigo)
	recipe.Nombre = strings.TrimSpace(recipe.Nombre)
	recipe.ParentID = existing.ParentID
	recipe.NivelActual = existing.NivelActual
	recipe.Activo = existing.Activo
	recipe.CreatedAt = existing.CreatedAt
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	s.auditService.LogEntityUpdate(ctx, recipeTable, id.String(), existing, recipe)
	return recipe, nil
}

func (s *recipeService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.recipeRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.auditService.LogEntitySoftDelete(ctx, recipeTable, id.String(), existing)
	return nil
}

// Duplicate copies a recipe as a variant coded <codigo>.V<last 4 digits of
// the unix millis>; the recipe row and its ingredients are written together.
func (s *recipeService) Duplicate(ctx context.Context, id uuid.UUID, newName string) (*models.Recipe, error) {
	original, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		newName = original.Nombre + " (copia)"
	}
	copied, err := s.recipeRepo.Duplicate(ctx, original, variantCode(original.Codigo, s.now()), newName)
	if err != nil {
		return nil, fmt.Errorf("duplicate recipe %s: %w", original.Codigo, err)
	}
	s.auditService.LogEntityCreate(ctx, recipeTable, copied.ID.String(), copied)
	return copied, nil
}

func variantCode(codigo string, now time.Time) string {
	return fmt.Sprintf("%s.V%04d", codigo, now.UnixMilli()%10000)
}

func (s *recipeService) GetIngredients(ctx context.Context, recipeID uuid.UUID) ([]*models.RecipeIngredient, error) {
	return s.recipeRepo.ListIngredients(ctx, recipeID)
}

func validateIngredient(ing *models.RecipeIngredient) error {
	ing.UnidadMedida = NormalizeUnit(ing.UnidadMedida)
	switch {
	case ing.RecetaID == uuid.Nil:
		return fmt.Errorf("%w: receta_id es requerido", ErrInvalidRecipe)
	case ing.MateriaPrimaID == uuid.Nil:
		return fmt.Errorf("%w: materia_prima_id es requerido", ErrInvalidRecipe)
	case ing.CantidadRequerida <= 0:
		return fmt.Errorf("%w: la cantidad debe ser mayor a 0", ErrInvalidRecipe)
	case !IsValidStockUnit(ing.UnidadMedida):
		return fmt.Errorf("%w: unidad %q", ErrInvalidRecipe, ing.UnidadMedida)
	}
	return nil
}

func (s *recipeService) AddIngredient(ctx context.Context, ingredient *models.RecipeIngredient) (*models.RecipeIngredient, error) {
	if err := validateIngredient(ingredient); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.AddIngredient(ctx, ingredient); err != nil {
		return nil, err
	}
	s.auditService.LogEntityCreate(ctx, ingredientTable, ingredient.ID.String(), ingredient)
	return ingredient, nil
}

func (s *recipeService) UpdateIngredient(ctx context.Context, id uuid.UUID, ingredient *models.RecipeIngredient) (*models.RecipeIngredient, error) {
	ingredient.ID = id
	if err := validateIngredient(ingredient); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.UpdateIngredient(ctx, ingredient); err != nil {
		return nil, err
	}
	s.auditService.LogEntityUpdate(ctx, ingredientTable, id.String(), nil, ingredient)
	return ingredient, nil
}

func (s *recipeService) RemoveIngredient(ctx context.Context, id uuid.UUID) error {
	if err := s.recipeRepo.RemoveIngredient(ctx, id); err != nil {
		return err
	}
	s.auditService.LogEntityDelete(ctx, ingredientTable, id.String(), nil)
	return nil
}
