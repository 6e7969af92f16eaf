package repositories

import (
	"context"
	"fmt"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
)

type StockRepository interface {
	Adjust(ctx context.Context, productID uuid.UUID, cantidad float64, op models.StockOperation) (*float64, error)
	UpdateFromInvoice(ctx context.Context, facturaID uuid.UUID) (int, error)
	Movements(ctx context.Context, productID uuid.UUID, limit int) ([]*models.StockMovement, error)
	Alerts(ctx context.Context, estado *string) ([]*models.StockAlert, error)
	LowStock(ctx context.Context) ([]*models.StockAlert, error)
	SummaryByBranch(ctx context.Context) ([]models.BranchStockSummary, error)
	InventoryValue(ctx context.Context) (float64, error)
}

type stockRepo struct {
	db DB
}

func NewStockRepo(db DB) StockRepository {
	return &stockRepo{db: db}
}

// Adjust applies op through actualizar_stock, which records the movement and
// returns the resulting stock.
func (r *stockRepo) Adjust(ctx context.Context, productID uuid.UUID, cantidad float64, op models.StockOperation) (*float64, error) {
	var nuevo *float64
	query := `SELECT actualizar_stock(p_stock_id => $1, p_cantidad => $2, p_operacion => $3)`
	if err := r.db.QueryRow(ctx, query, productID, cantidad, string(op)).Scan(&nuevo); err != nil {
		return nil, fmt.Errorf("actualizar_stock: %w", err)
	}
	return nuevo, nil
}

func (r *stockRepo) UpdateFromInvoice(ctx context.Context, facturaID uuid.UUID) (int, error) {
	var updated int
	query := `SELECT actualizar_stock_desde_factura(p_factura_id => $1)`
	if err := r.db.QueryRow(ctx, query, facturaID).Scan(&updated); err != nil {
		return 0, fmt.Errorf("actualizar_stock_desde_factura: %w", err)
	}
	return updated, nil
}

func (r *stockRepo) Movements(ctx context.Context, productID uuid.UUID, limit int) ([]*models.StockMovement, error) {
	query := `
		SELECT id, producto_id, tipo_movimiento, cantidad, stock_anterior, stock_nuevo, factura_id, observaciones,
			created_at
		FROM movimientos_inventario
		WHERE producto_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []*models.StockMovement{}
	for rows.Next() {
		m := &models.StockMovement{}
		if err := rows.Scan(&m.ID, &m.ProductoID, &m.TipoMovimiento, &m.Cantidad, &m.StockAnterior, &m.StockNuevo,
			&m.FacturaID, &m.Observaciones, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (r *stockRepo) queryAlerts(ctx context.Context, query string, args ...any) ([]*models.StockAlert, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []*models.StockAlert{}
	for rows.Next() {
		a := &models.StockAlert{}
		if err := rows.Scan(&a.ProductoID, &a.Codigo, &a.Nombre, &a.StockActual, &a.StockMinimo, &a.StockMaximo,
			&a.UnidadStock, &a.EstadoStock); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

const alertColumns = `id, codigo, nombre, stock_actual, stock_minimo, stock_maximo, unidad_stock, estado_stock`

func (r *stockRepo) Alerts(ctx context.Context, estado *string) ([]*models.StockAlert, error) {
	if estado != nil {
		query := `SELECT ` + alertColumns + ` FROM vista_stock_alertas WHERE estado_stock = $1 ORDER BY codigo`
		return r.queryAlerts(ctx, query, *estado)
	}
	query := `SELECT ` + alertColumns + ` FROM vista_stock_alertas ORDER BY estado_stock, codigo`
	return r.queryAlerts(ctx, query)
}

func (r *stockRepo) LowStock(ctx context.Context) ([]*models.StockAlert, error) {
	query := `SELECT ` + alertColumns + `
		FROM vista_stock_alertas
		WHERE estado_stock IN ($1, $2)
		ORDER BY estado_stock DESC, codigo`
	return r.queryAlerts(ctx, query, models.StockStateCritical, models.StockStateLow)
}

func (r *stockRepo) SummaryByBranch(ctx context.Context) ([]models.BranchStockSummary, error) {
	query := `
		SELECT tipo_rama,
			COUNT(*),
			COUNT(*) FILTER (WHERE stock_actual < stock_minimo),
			COALESCE(SUM(COALESCE(stock_actual, 0) * COALESCE(costo_promedio, 0)), 0)
		FROM arbol_materia_prima
		WHERE activo = true AND maneja_stock = true
		GROUP BY tipo_rama
		ORDER BY tipo_rama
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.BranchStockSummary{}
	for rows.Next() {
		var s models.BranchStockSummary
		if err := rows.Scan(&s.TipoRama, &s.Productos, &s.ConStockBajo, &s.ValorInventario); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *stockRepo) InventoryValue(ctx context.Context) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(COALESCE(stock_actual, 0) * COALESCE(costo_promedio, 0)), 0)
		FROM arbol_materia_prima
		WHERE activo = true AND maneja_stock = true
	`
	if err := r.db.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
