package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TreeNodeRepository interface {
	Create(ctx context.Context, node *models.TreeNode) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TreeNode, error)
	GetByCode(ctx context.Context, codigo string) (*models.TreeNode, error)
	Update(ctx context.Context, node *models.TreeNode) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.TreeNode, error)
	ListByLevelAndBranch(ctx context.Context, nivel int, tipoRama models.TipoRama) ([]*models.TreeNode, error)
	Search(ctx context.Context, term string, filters *models.TreeNodeFilters) ([]*models.TreeNode, error)
	ListPresentations(ctx context.Context, productID uuid.UUID) ([]*models.TreeNode, error)
	GetStock(ctx context.Context, productID uuid.UUID) (*models.StockInfo, error)
	FullTree(ctx context.Context, tipoRama *models.TipoRama) ([]*models.TreeNode, error)
	CountByBranch(ctx context.Context) ([]models.BranchCount, error)
	ListLowStock(ctx context.Context) ([]*models.TreeNode, error)
	GetPresentationWithProduct(ctx context.Context, presentationID uuid.UUID) (*models.PresentationWithProduct, error)
	SearchPresentationsForSupplier(ctx context.Context, supplierID uuid.UUID, term string) ([]*models.TreeNode, error)
}

type treeNodeRepo struct {
	db DB
}

func NewTreeNodeRepo(db DB) TreeNodeRepository {
	return &treeNodeRepo{db: db}
}

const treeNodeColumns = `id, codigo, nombre, descripcion, parent_id, nivel_actual, tipo_rama, activo, maneja_stock,
		stock_actual, stock_minimo, stock_maximo, unidad_stock, costo_promedio, contenido_unidad, unidad_contenido,
		created_at, updated_at`

func scanTreeNode(row pgx.Row) (*models.TreeNode, error) {
	n := &models.TreeNode{}
	err := row.Scan(&n.ID, &n.Codigo, &n.Nombre, &n.Descripcion, &n.ParentID, &n.NivelActual, &n.TipoRama,
		&n.Activo, &n.ManejaStock, &n.StockActual, &n.StockMinimo, &n.StockMaximo, &n.UnidadStock,
		&n.CostoPromedio, &n.ContenidoUnidad, &n.UnidadContenido, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *treeNodeRepo) queryNodes(ctx context.Context, query string, args ...any) ([]*models.TreeNode, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := []*models.TreeNode{}
	for rows.Next() {
		n, err := scanTreeNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (r *treeNodeRepo) Create(ctx context.Context, node *models.TreeNode) error {
	if node.ID == uuid.Nil {
		node.ID = uuid.New()
	}
	now := time.Now()
	node.CreatedAt = now
	node.UpdatedAt = now
	node.Activo = true

	query := `
		INSERT INTO arbol_materia_prima (id, codigo, nombre, descripcion, parent_id, nivel_actual, tipo_rama, activo,
			maneja_stock, stock_actual, stock_minimo, stock_maximo, unidad_stock, costo_promedio, contenido_unidad,
			unidad_contenido, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.db.Exec(ctx, query, node.ID, node.Codigo, node.Nombre, node.Descripcion, node.ParentID,
		node.NivelActual, node.TipoRama, node.Activo, node.ManejaStock, node.StockActual, node.StockMinimo,
		node.StockMaximo, node.UnidadStock, node.CostoPromedio, node.ContenidoUnidad, node.UnidadContenido,
		node.CreatedAt, node.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert tree node: %w", err)
	}
	return nil
}

func (r *treeNodeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TreeNode, error) {
	query := `SELECT ` + treeNodeColumns + ` FROM arbol_materia_prima WHERE id = $1`
	n, err := scanTreeNode(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (r *treeNodeRepo) GetByCode(ctx context.Context, codigo string) (*models.TreeNode, error) {
	query := `SELECT ` + treeNodeColumns + ` FROM arbol_materia_prima WHERE codigo = $1`
	n, err := scanTreeNode(r.db.QueryRow(ctx, query, codigo))
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (r *treeNodeRepo) Update(ctx context.Context, node *models.TreeNode) error {
	node.UpdatedAt = time.Now()
	query := `
		UPDATE arbol_materia_prima
		SET codigo = $1, nombre = $2, descripcion = $3, tipo_rama = $4, maneja_stock = $5, stock_minimo = $6,
			stock_maximo = $7, unidad_stock = $8, contenido_unidad = $9, unidad_contenido = $10, updated_at = $11
		WHERE id = $12
	`
	tag, err := r.db.Exec(ctx, query, node.Codigo, node.Nombre, node.Descripcion, node.TipoRama, node.ManejaStock,
		node.StockMinimo, node.StockMaximo, node.UnidadStock, node.ContenidoUnidad, node.UnidadContenido,
		node.UpdatedAt, node.ID)
	if err != nil {
		return fmt.Errorf("update tree node: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete flags the node inactive. Rows of arbol_materia_prima are never removed.
func (r *treeNodeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE arbol_materia_prima SET activo = false, updated_at = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("soft delete tree node: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *treeNodeRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.TreeNode, error) {
	query := `SELECT ` + treeNodeColumns + `
		FROM arbol_materia_prima
		WHERE parent_id = $1 AND activo = true
		ORDER BY codigo
		LIMIT $2`
	return r.queryNodes(ctx, query, parentID, DefaultPageSize)
}

func (r *treeNodeRepo) ListByLevelAndBranch(ctx context.Context, nivel int, tipoRama models.TipoRama) ([]*models.TreeNode, error) {
	query := `SELECT ` + treeNodeColumns + `
		FROM arbol_materia_prima
		WHERE nivel_actual = $1 AND tipo_rama = $2 AND activo = true
		ORDER BY codigo
		LIMIT $3`
	return r.queryNodes(ctx, query, nivel, tipoRama, DefaultPageSize)
}

// Search matches the term against nombre or codigo. The caller enforces the
// minimum term length; an empty term applies only the filters.
func (r *treeNodeRepo) Search(ctx context.Context, term string, filters *models.TreeNodeFilters) ([]*models.TreeNode, error) {
	var conditions []string
	var args []any
	argIndex := 1

	conditions = append(conditions, "activo = true")

	if term != "" {
		conditions = append(conditions, fmt.Sprintf("(nombre ILIKE $%d OR codigo ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+term+"%")
		argIndex++
	}

	if filters != nil {
		if filters.TipoRama != nil {
			conditions = append(conditions, fmt.Sprintf("tipo_rama = $%d", argIndex))
			args = append(args, *filters.TipoRama)
			argIndex++
		}
		if filters.NivelActual != nil {
			conditions = append(conditions, fmt.Sprintf("nivel_actual = $%d", argIndex))
			args = append(args, *filters.NivelActual)
			argIndex++
		}
		if filters.StockBajo {
			conditions = append(conditions, "maneja_stock = true AND stock_actual < stock_minimo")
		}
	}

	query := `SELECT ` + treeNodeColumns + `
		FROM arbol_materia_prima
		WHERE ` + strings.Join(conditions, " AND ") + fmt.Sprintf(`
		ORDER BY codigo
		LIMIT $%d`, argIndex)
	args = append(args, DefaultPageSize)

	return r.queryNodes(ctx, query, args...)
}

func (r *treeNodeRepo) ListPresentations(ctx context.Context, productID uuid.UUID) ([]*models.TreeNode, error) {
	query := `SELECT ` + treeNodeColumns + `
		FROM arbol_materia_prima
		WHERE parent_id = $1 AND nivel_actual = $2 AND activo = true
		ORDER BY codigo
		LIMIT $3`
	return r.queryNodes(ctx, query, productID, models.NivelPresentacion, DefaultPageSize)
}

func (r *treeNodeRepo) GetStock(ctx context.Context, productID uuid.UUID) (*models.StockInfo, error) {
	query := `
		SELECT id, codigo, nombre, COALESCE(stock_actual, 0), COALESCE(stock_minimo, 0), COALESCE(stock_maximo, 0),
			COALESCE(unidad_stock, ''), COALESCE(costo_promedio, 0)
		FROM arbol_materia_prima
		WHERE id = $1 AND maneja_stock = true
	`
	s := &models.StockInfo{}
	err := r.db.QueryRow(ctx, query, productID).Scan(&s.ID, &s.Codigo, &s.Nombre, &s.StockActual, &s.StockMinimo,
		&s.StockMaximo, &s.UnidadStock, &s.CostoPromedio)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *treeNodeRepo) FullTree(ctx context.Context, tipoRama *models.TipoRama) ([]*models.TreeNode, error) {
	if tipoRama != nil {
		query := `SELECT ` + treeNodeColumns + `
			FROM arbol_materia_prima
			WHERE activo = true AND tipo_rama = $1
			ORDER BY nivel_actual, codigo
			LIMIT $2`
		return r.queryNodes(ctx, query, *tipoRama, FullTreeLimit)
	}
	query := `SELECT ` + treeNodeColumns + `
		FROM arbol_materia_prima
		WHERE activo = true
		ORDER BY nivel_actual, codigo
		LIMIT $1`
	return r.queryNodes(ctx, query, FullTreeLimit)
}

func (r *treeNodeRepo) CountByBranch(ctx context.Context) ([]models.BranchCount, error) {
	query := `
		SELECT tipo_rama, COUNT(*)
		FROM arbol_materia_prima
		WHERE activo = true
		GROUP BY tipo_rama
		ORDER BY tipo_rama
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []models.BranchCount{}
	for rows.Next() {
		var c models.BranchCount
		if err := rows.Scan(&c.TipoRama, &c.Total); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *treeNodeRepo) ListLowStock(ctx context.Context) ([]*models.TreeNode, error) {
	query := `SELECT ` + treeNodeColumns + `
		FROM arbol_materia_prima
		WHERE activo = true AND maneja_stock = true AND stock_actual < stock_minimo
		ORDER BY codigo`
	return r.queryNodes(ctx, query)
}

func (r *treeNodeRepo) GetPresentationWithProduct(ctx context.Context, presentationID uuid.UUID) (*models.PresentationWithProduct, error) {
	presentation, err := r.GetByID(ctx, presentationID)
	if err != nil {
		return nil, err
	}
	if presentation.NivelActual != models.NivelPresentacion || presentation.ParentID == nil {
		return nil, ErrNotFound
	}
	product, err := r.GetByID(ctx, *presentation.ParentID)
	if err != nil {
		return nil, err
	}
	return &models.PresentationWithProduct{Presentacion: *presentation, Producto: *product}, nil
}

func (r *treeNodeRepo) SearchPresentationsForSupplier(ctx context.Context, supplierID uuid.UUID, term string) ([]*models.TreeNode, error) {
	query := `SELECT ` + treeNodeColumns + `
		FROM arbol_materia_prima
		WHERE nivel_actual = $1 AND activo = true
			AND (nombre ILIKE $2 OR codigo ILIKE $2)
			AND id NOT IN (
				SELECT presentacion_id FROM proveedor_presentaciones WHERE proveedor_id = $3 AND activo = true
			)
		ORDER BY codigo
		LIMIT $4`
	return r.queryNodes(ctx, query, models.NivelPresentacion, "%"+term+"%", supplierID, DefaultPageSize)
}
