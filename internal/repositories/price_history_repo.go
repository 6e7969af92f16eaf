package repositories

import (
	"context"
	"fmt"
	"time"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
)

type PriceHistoryRepository interface {
	ListSince(ctx context.Context, productID uuid.UUID, since time.Time) ([]*models.PriceHistoryEntry, error)
	AveragePrice(ctx context.Context, productID uuid.UUID, since time.Time) (*float64, error)
	AverageStockCost(ctx context.Context, productID uuid.UUID, months int) (*float64, error)
}

type priceHistoryRepo struct {
	db DB
}

func NewPriceHistoryRepo(db DB) PriceHistoryRepository {
	return &priceHistoryRepo{db: db}
}

func (r *priceHistoryRepo) ListSince(ctx context.Context, productID uuid.UUID, since time.Time) ([]*models.PriceHistoryEntry, error) {
	query := `
		SELECT h.id, h.producto_id, h.presentacion_id, h.factura_id, f.numero_factura, f.fecha_factura,
			h.precio_unitario, h.cantidad, h.created_at
		FROM historial_precios h
		LEFT JOIN facturas f ON f.id = h.factura_id
		WHERE h.producto_id = $1 AND h.created_at >= $2
		ORDER BY h.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, productID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.PriceHistoryEntry{}
	for rows.Next() {
		e := &models.PriceHistoryEntry{}
		if err := rows.Scan(&e.ID, &e.ProductoID, &e.PresentacionID, &e.FacturaID, &e.NumeroFactura,
			&e.FechaFactura, &e.PrecioUnitario, &e.Cantidad, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AveragePrice calls calcular_precio_promedio, which returns
// sum(precio_unitario * cantidad) / sum(cantidad) over the rows created since
// p_fecha_desde, or NULL when there are none.
func (r *priceHistoryRepo) AveragePrice(ctx context.Context, productID uuid.UUID, since time.Time) (*float64, error) {
	var avg *float64
	query := `SELECT calcular_precio_promedio(p_producto_id => $1, p_fecha_desde => $2)`
	if err := r.db.QueryRow(ctx, query, productID, since).Scan(&avg); err != nil {
		return nil, fmt.Errorf("calcular_precio_promedio: %w", err)
	}
	return avg, nil
}

func (r *priceHistoryRepo) AverageStockCost(ctx context.Context, productID uuid.UUID, months int) (*float64, error) {
	var avg *float64
	query := `SELECT calcular_costo_promedio(p_materia_prima_id => $1, p_meses => $2)`
	if err := r.db.QueryRow(ctx, query, productID, months).Scan(&avg); err != nil {
		return nil, fmt.Errorf("calcular_costo_promedio: %w", err)
	}
	return avg, nil
}
