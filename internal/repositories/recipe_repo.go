package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetByCode(ctx context.Context, codigo string) (*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ListByLevel(ctx context.Context, nivel int) ([]*models.Recipe, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Recipe, error)
	ListByDish(ctx context.Context, platoID uuid.UUID) ([]*models.Recipe, error)
	ListActive(ctx context.Context, limit int) ([]*models.Recipe, error)
	ListUsingMaterial(ctx context.Context, materiaPrimaID uuid.UUID) ([]*models.Recipe, error)
	Search(ctx context.Context, term string, nivel *int) ([]*models.Recipe, error)
	CountByLevel(ctx context.Context, nivel int) (int, error)

	ListIngredients(ctx context.Context, recipeID uuid.UUID) ([]*models.RecipeIngredient, error)
	AddIngredient(ctx context.Context, ingredient *models.RecipeIngredient) error
	UpdateIngredient(ctx context.Context, ingredient *models.RecipeIngredient) error
	RemoveIngredient(ctx context.Context, ingredientID uuid.UUID) error

	Duplicate(ctx context.Context, original *models.Recipe, newCode, newName string) (*models.Recipe, error)

	BatchCosts(ctx context.Context, recipeIDs []uuid.UUID) ([]models.RecipeBatchCost, error)
	RecalculateAll(ctx context.Context) (*models.RecalculationResult, error)
	RecalculatePending(ctx context.Context) (*models.RecalculationResult, error)
	SimulatePriceChange(ctx context.Context, materiaPrimaID uuid.UUID, newPrice float64) ([]models.PriceChangeSimulation, error)
}

type recipeRepo struct {
	db DB
}

func NewRecipeRepo(db DB) RecipeRepository {
	return &recipeRepo{db: db}
}

const recipeColumns = `id, codigo, nombre, descripcion, parent_id, nivel_actual, plato_id, rendimiento, costo_porcion,
		activo, created_at, updated_at`

func scanRecipe(row pgx.Row) (*models.Recipe, error) {
	rc := &models.Recipe{}
	err := row.Scan(&rc.ID, &rc.Codigo, &rc.Nombre, &rc.Descripcion, &rc.ParentID, &rc.NivelActual, &rc.PlatoID,
		&rc.Rendimiento, &rc.CostoPorcion, &rc.Activo, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (r *recipeRepo) queryRecipes(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*models.Recipe{}
	for rows.Next() {
		rc, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rc)
	}
	return recipes, rows.Err()
}

func insertRecipe(ctx context.Context, db execer, recipe *models.Recipe) error {
	query := `
		INSERT INTO arbol_recetas (id, codigo, nombre, descripcion, parent_id, nivel_actual, plato_id, rendimiento,
			costo_porcion, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := db.Exec(ctx, query, recipe.ID, recipe.Codigo, recipe.Nombre, recipe.Descripcion, recipe.ParentID,
		recipe.NivelActual, recipe.PlatoID, recipe.Rendimiento, recipe.CostoPorcion, recipe.Activo,
		recipe.CreatedAt, recipe.UpdatedAt)
	return err
}

func (r *recipeRepo) Create(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	recipe.Activo = true

	if err := insertRecipe(ctx, r.db, recipe); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

func (r *recipeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM arbol_recetas WHERE id = $1`
	rc, err := scanRecipe(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return rc, nil
}

func (r *recipeRepo) GetByCode(ctx context.Context, codigo string) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM arbol_recetas WHERE codigo = $1`
	rc, err := scanRecipe(r.db.QueryRow(ctx, query, codigo))
	if err != nil {
		return nil, notFound(err)
	}
	return rc, nil
}

func (r *recipeRepo) Update(ctx context.Context, recipe *models.Recipe) error {
	recipe.UpdatedAt = time.Now()
	query := `
		UPDATE arbol_recetas
		SET codigo = $1, nombre = $2, descripcion = $3, plato_id = $4, rendimiento = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query, recipe.Codigo, recipe.Nombre, recipe.Descripcion, recipe.PlatoID,
		recipe.Rendimiento, recipe.UpdatedAt, recipe.ID)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *recipeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE arbol_recetas SET activo = false, updated_at = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("soft delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *recipeRepo) ListByLevel(ctx context.Context, nivel int) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM arbol_recetas
		WHERE nivel_actual = $1 AND activo = true
		ORDER BY codigo`
	return r.queryRecipes(ctx, query, nivel)
}

func (r *recipeRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM arbol_recetas
		WHERE parent_id = $1 AND activo = true
		ORDER BY codigo`
	return r.queryRecipes(ctx, query, parentID)
}

func (r *recipeRepo) ListByDish(ctx context.Context, platoID uuid.UUID) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM arbol_recetas
		WHERE plato_id = $1 AND activo = true
		ORDER BY codigo`
	return r.queryRecipes(ctx, query, platoID)
}

func (r *recipeRepo) ListActive(ctx context.Context, limit int) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM arbol_recetas
		WHERE activo = true AND nivel_actual >= $1
		ORDER BY codigo
		LIMIT $2`
	return r.queryRecipes(ctx, query, models.NivelRecetaEstandar, limit)
}

func (r *recipeRepo) ListUsingMaterial(ctx context.Context, materiaPrimaID uuid.UUID) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM arbol_recetas
		WHERE activo = true AND id IN (
			SELECT receta_id FROM receta_ingredientes WHERE materia_prima_id = $1
		)
		ORDER BY codigo`
	return r.queryRecipes(ctx, query, materiaPrimaID)
}

func (r *recipeRepo) Search(ctx context.Context, term string, nivel *int) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM arbol_recetas
		WHERE activo = true AND (nombre ILIKE $1 OR codigo ILIKE $1)`
	args := []any{"%" + term + "%"}
	if nivel != nil {
		query += ` AND nivel_actual = $2`
		args = append(args, *nivel)
	}
	query += fmt.Sprintf(`
		ORDER BY codigo
		LIMIT $%d`, len(args)+1)
	args = append(args, DefaultPageSize)
	return r.queryRecipes(ctx, query, args...)
}

func (r *recipeRepo) CountByLevel(ctx context.Context, nivel int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM arbol_recetas WHERE nivel_actual = $1 AND activo = true`
	if err := r.db.QueryRow(ctx, query, nivel).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListIngredients returns the ingredients of a recipe joined with the cost
// fields of their raw material, ordered by orden.
func (r *recipeRepo) ListIngredients(ctx context.Context, recipeID uuid.UUID) ([]*models.RecipeIngredient, error) {
	query := `
		SELECT ri.id, ri.receta_id, ri.materia_prima_id, ri.cantidad_requerida, ri.unidad_medida, ri.orden,
			ri.created_at, ri.updated_at, mp.codigo, mp.nombre, mp.costo_promedio, mp.unidad_stock
		FROM receta_ingredientes ri
		JOIN arbol_materia_prima mp ON mp.id = ri.materia_prima_id
		WHERE ri.receta_id = $1
		ORDER BY ri.orden
	`
	rows, err := r.db.Query(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []*models.RecipeIngredient{}
	for rows.Next() {
		ing := &models.RecipeIngredient{MateriaPrima: &models.IngredientMaterial{}}
		if err := rows.Scan(&ing.ID, &ing.RecetaID, &ing.MateriaPrimaID, &ing.CantidadRequerida, &ing.UnidadMedida,
			&ing.Orden, &ing.CreatedAt, &ing.UpdatedAt, &ing.MateriaPrima.Codigo, &ing.MateriaPrima.Nombre,
			&ing.MateriaPrima.CostoPromedio, &ing.MateriaPrima.UnidadStock); err != nil {
			return nil, err
		}
		ing.MateriaPrima.ID = ing.MateriaPrimaID
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func (r *recipeRepo) AddIngredient(ctx context.Context, ingredient *models.RecipeIngredient) error {
	if ingredient.ID == uuid.Nil {
		ingredient.ID = uuid.New()
	}
	now := time.Now()
	ingredient.CreatedAt = now
	ingredient.UpdatedAt = now

	query := `
		INSERT INTO receta_ingredientes (id, receta_id, materia_prima_id, cantidad_requerida, unidad_medida, orden,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, ingredient.ID, ingredient.RecetaID, ingredient.MateriaPrimaID,
		ingredient.CantidadRequerida, ingredient.UnidadMedida, ingredient.Orden, ingredient.CreatedAt,
		ingredient.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

func (r *recipeRepo) UpdateIngredient(ctx context.Context, ingredient *models.RecipeIngredient) error {
	ingredient.UpdatedAt = time.Now()
	query := `
		UPDATE receta_ingredientes
		SET cantidad_requerida = $1, unidad_medida = $2, orden = $3, updated_at = $4
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, ingredient.CantidadRequerida, ingredient.UnidadMedida, ingredient.Orden,
		ingredient.UpdatedAt, ingredient.ID)
	if err != nil {
		return fmt.Errorf("update ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveIngredient deletes the row; ingredients have no life outside their recipe.
func (r *recipeRepo) RemoveIngredient(ctx context.Context, ingredientID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM receta_ingredientes WHERE id = $1`, ingredientID)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Duplicate copies a recipe and all of its ingredients in one transaction.
func (r *recipeRepo) Duplicate(ctx context.Context, original *models.Recipe, newCode, newName string) (*models.Recipe, error) {
	now := time.Now()
	copied := *original
	copied.ID = uuid.New()
	copied.Codigo = newCode
	copied.Nombre = newName
	descripcion := "Variante de: " + original.Nombre
	copied.Descripcion = &descripcion
	copied.Activo = true
	copied.CreatedAt = now
	copied.UpdatedAt = now

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertRecipe(ctx, tx, &copied); err != nil {
			return fmt.Errorf("insert recipe copy: %w", err)
		}
		query := `
			INSERT INTO receta_ingredientes (id, receta_id, materia_prima_id, cantidad_requerida, unidad_medida, orden,
				created_at, updated_at)
			SELECT gen_random_uuid(), $1, materia_prima_id, cantidad_requerida, unidad_medida, orden, $2, $2
			FROM receta_ingredientes
			WHERE receta_id = $3
		`
		if _, err := tx.Exec(ctx, query, copied.ID, now, original.ID); err != nil {
			return fmt.Errorf("copy ingredients: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &copied, nil
}

func (r *recipeRepo) BatchCosts(ctx context.Context, recipeIDs []uuid.UUID) ([]models.RecipeBatchCost, error) {
	query := `
		SELECT receta_id, costo_total, costo_por_porcion, ingredientes_count, ingredientes_con_costo,
			ingredientes_sin_costo, rendimiento
		FROM calcular_costos_batch(p_receta_ids => $1)
	`
	rows, err := r.db.Query(ctx, query, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("calcular_costos_batch: %w", err)
	}
	defer rows.Close()

	costs := []models.RecipeBatchCost{}
	for rows.Next() {
		var c models.RecipeBatchCost
		if err := rows.Scan(&c.RecetaID, &c.CostoTotal, &c.CostoPorPorcion, &c.IngredientesCount,
			&c.IngredientesConCosto, &c.IngredientesSinCosto, &c.Rendimiento); err != nil {
			return nil, err
		}
		costs = append(costs, c)
	}
	return costs, rows.Err()
}

func (r *recipeRepo) recalculate(ctx context.Context, procedure string) (*models.RecalculationResult, error) {
	res := &models.RecalculationResult{}
	query := `SELECT recetas_actualizadas, tiempo_ms FROM ` + procedure + `()`
	err := r.db.QueryRow(ctx, query).Scan(&res.RecetasActualizadas, &res.TiempoMs)
	if errors.Is(err, pgx.ErrNoRows) {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", procedure, err)
	}
	return res, nil
}

func (r *recipeRepo) RecalculateAll(ctx context.Context) (*models.RecalculationResult, error) {
	return r.recalculate(ctx, "recalcular_todas_recetas")
}

func (r *recipeRepo) RecalculatePending(ctx context.Context) (*models.RecalculationResult, error) {
	return r.recalculate(ctx, "recalcular_recetas_pendientes")
}

func (r *recipeRepo) SimulatePriceChange(ctx context.Context, materiaPrimaID uuid.UUID, newPrice float64) ([]models.PriceChangeSimulation, error) {
	query := `
		SELECT receta_id, codigo, nombre, costo_actual, costo_nuevo, diferencia, porcentaje
		FROM simular_cambio_precio(p_materia_prima_id => $1, p_nuevo_precio => $2)
	`
	rows, err := r.db.Query(ctx, query, materiaPrimaID, newPrice)
	if err != nil {
		return nil, fmt.Errorf("simular_cambio_precio: %w", err)
	}
	defer rows.Close()

	sims := []models.PriceChangeSimulation{}
	for rows.Next() {
		var s models.PriceChangeSimulation
		if err := rows.Scan(&s.RecetaID, &s.Codigo, &s.Nombre, &s.CostoActual, &s.CostoNuevo, &s.Diferencia,
			&s.Porcentaje); err != nil {
			return nil, err
		}
		sims = append(sims, s)
	}
	return sims, rows.Err()
}
