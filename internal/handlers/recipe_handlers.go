package handlers

import (
	"net/http"
	"strconv"

	"clinicalfresh/internal/models"
	"clinicalfresh/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RecipeHandlers serves the recipe tree and recipe ingredients.
type RecipeHandlers struct {
	recipeSvc services.RecipeService
}

func NewRecipeHandlers(recipeSvc services.RecipeService) *RecipeHandlers {
	return &RecipeHandlers{recipeSvc: recipeSvc}
}

type recipeRequest struct {
	Codigo      string     `json:"codigo" validate:"required,max=50"`
	Nombre      string     `json:"nombre" validate:"required,max=200"`
	Descripcion *string    `json:"descripcion"`
	ParentID    *uuid.UUID `json:"parent_id"`
	NivelActual int        `json:"nivel_actual" validate:"required,min=1,max=3"`
	PlatoID     *uuid.UUID `json:"plato_id"`
	Rendimiento *int       `json:"rendimiento" validate:"omitempty,gte=0"`
}

func (r *recipeRequest) recipe() *models.Recipe {
	return &models.Recipe{
		Codigo:      r.Codigo,
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
		ParentID:    r.ParentID,
		NivelActual: r.NivelActual,
		PlatoID:     r.PlatoID,
		Rendimiento: r.Rendimiento,
		Activo:      true,
	}
}

type ingredientRequest struct {
	MateriaPrimaID    uuid.UUID `json:"materia_prima_id" validate:"required"`
	CantidadRequerida float64   `json:"cantidad_requerida" validate:"gt=0"`
	UnidadMedida      string    `json:"unidad_medida" validate:"required"`
	Orden             int       `json:"orden" validate:"gte=0"`
}

func (r *ingredientRequest) ingredient(recipeID uuid.UUID) *models.RecipeIngredient {
	return &models.RecipeIngredient{
		RecetaID:          recipeID,
		MateriaPrimaID:    r.MateriaPrimaID,
		CantidadRequerida: r.CantidadRequerida,
		UnidadMedida:      r.UnidadMedida,
		Orden:             r.Orden,
	}
}

func (h *RecipeHandlers) GetConnectors(c echo.Context) error {
	recipes, err := h.recipeSvc.GetConnectors(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return list(c, recipes)
}

func (h *RecipeHandlers) GetStandardRecipes(c echo.Context) error {
	recipes, err := h.recipeSvc.GetStandardRecipes(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return list(c, recipes)
}

func (h *RecipeHandlers) GetChildren(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	recipes, err := h.recipeSvc.GetChildren(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, recipes)
}

func (h *RecipeHandlers) GetRecipe(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	recipe, err := h.recipeSvc.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandlers) GetByCode(c echo.Context) error {
	recipe, err := h.recipeSvc.GetByCode(c.Request().Context(), c.Param("codigo"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandlers) GetByDish(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	recipes, err := h.recipeSvc.GetByDish(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, recipes)
}

// Search filters by code or name and optionally by level.
//
//	@Summary	Buscar recetas
//	@Tags		recetas
//	@Param		q		query	string	false	"término (mínimo 2 caracteres)"
//	@Param		nivel	query	int		false	"1 conector, 2 estándar, 3 local"
//	@Success	200
//	@Router		/recetas/buscar [get]
func (h *RecipeHandlers) Search(c echo.Context) error {
	var nivel *int
	if raw := c.QueryParam("nivel"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid nivel")
		}
		nivel = &n
	}
	recipes, err := h.recipeSvc.Search(c.Request().Context(), c.QueryParam("q"), nivel)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, recipes)
}

func (h *RecipeHandlers) CountByLevel(c echo.Context) error {
	nivel, err := strconv.Atoi(c.Param("nivel"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid nivel")
	}
	n, err := h.recipeSvc.CountByLevel(c.Request().Context(), nivel)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"nivel": nivel, "total": n})
}

func (h *RecipeHandlers) CreateRecipe(c echo.Context) error {
	var req recipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeSvc.Create(c.Request().Context(), req.recipe())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandlers) UpdateRecipe(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req recipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeSvc.Update(c.Request().Context(), id, req.recipe())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandlers) DeleteRecipe(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.recipeSvc.SoftDelete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DuplicateRecipe copies a recipe and its ingredients. The body is optional.
//
//	@Summary	Duplicar receta
//	@Tags		recetas
//	@Param		id	path	string	true	"receta"
//	@Success	201
//	@Router		/recetas/{id}/duplicar [post]
func (h *RecipeHandlers) DuplicateRecipe(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Nombre string `json:"nombre" validate:"max=200"`
	}
	if c.Request().ContentLength > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}
	}
	recipe, err := h.recipeSvc.Duplicate(c.Request().Context(), id, req.Nombre)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandlers) GetIngredients(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	ingredients, err := h.recipeSvc.GetIngredients(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, ingredients)
}

func (h *RecipeHandlers) AddIngredient(c echo.Context) error {
	recipeID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req ingredientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ingredient, err := h.recipeSvc.AddIngredient(c.Request().Context(), req.ingredient(recipeID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, ingredient)
}

func (h *RecipeHandlers) UpdateIngredient(c echo.Context) error {
	recipeID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	ingredientID, err := paramUUID(c, "ingredienteId")
	if err != nil {
		return err
	}
	var req ingredientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ingredient, err := h.recipeSvc.UpdateIngredient(c.Request().Context(), ingredientID, req.ingredient(recipeID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ingredient)
}

func (h *RecipeHandlers) RemoveIngredient(c echo.Context) error {
	ingredientID, err := paramUUID(c, "ingredienteId")
	if err != nil {
		return err
	}
	if err := h.recipeSvc.RemoveIngredient(c.Request().Context(), ingredientID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
