package services

import (
	"context"
	"fmt"

	"clinicalfresh/internal/common"
	"clinicalfresh/internal/models"
	"clinicalfresh/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	StockMovementsLimit = 50
	maxBatchAdjustments = 200
)

type StockService interface {
	Adjust(ctx context.Context, productID uuid.UUID, cantidad float64, op models.StockOperation) (*float64, error)
	AdjustBatch(ctx context.Context, items []models.StockAdjustment) ([]models.StockAdjustmentResult, error)
	UpdateFromInvoice(ctx context.Context, facturaID uuid.UUID) (int, error)
	Movements(ctx context.Context, productID uuid.UUID) ([]*models.StockMovement, error)
	Alerts(ctx context.Context, estado string) ([]*models.StockAlert, error)
	LowStock(ctx context.Context) ([]*models.StockAlert, error)
	SummaryByBranch(ctx context.Context) ([]models.BranchStockSummary, error)
	InventoryValue(ctx context.Context) (float64, error)
}

type stockService struct {
	stockRepo    repositories.StockRepository
	auditService AuditLogsService
}

func NewStockService(stockRepo repositories.StockRepository, auditService AuditLogsService) StockService {
	return &stockService{
		stockRepo:    stockRepo,
		auditService: auditService,
	}
}

func validateAdjustment(cantidad float64, op models.StockOperation) error {
	if !op.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
	if cantidad < 0 {
		return fmt.Errorf("%w: cantidad negativa", ErrInvalidOperation)
	}
	return nil
}

func (s *stockService) Adjust(ctx context.Context, productID uuid.UUID, cantidad float64, op models.StockOperation) (*float64, error) {
	if err := validateAdjustment(cantidad, op); err != nil {
		return nil, err
	}
	nuevo, err := s.stockRepo.Adjust(ctx, productID, cantidad, op)
	if err != nil {
		return nil, err
	}
	s.auditService.LogEntityUpdate(ctx, treeTable, productID.String(), nil, models.JSONB{
		"operacion":   string(op),
		"cantidad":    cantidad,
		"stock_nuevo": nuevo,
	})
	return nuevo, nil
}

// AdjustBatch applies every item independently; a failed item is reported in
// its result and does not stop the rest.
func (s *stockService) AdjustBatch(ctx context.Context, items []models.StockAdjustment) ([]models.StockAdjustmentResult, error) {
	if len(items) == 0 {
		return []models.StockAdjustmentResult{}, nil
	}
	if len(items) > maxBatchAdjustments {
		return nil, fmt.Errorf("%w: at most %d items per batch", ErrInvalidOperation, maxBatchAdjustments)
	}

	results := make([]models.StockAdjustmentResult, 0, len(items))
	failed := 0
	for _, item := range items {
		res := models.StockAdjustmentResult{ProductoID: item.ProductoID}
		if err := common.Validate.Struct(item); err != nil {
			res.Error = err.Error()
			failed++
			results = append(results, res)
			continue
		}
		nuevo, err := s.Adjust(ctx, item.ProductoID, item.Cantidad, item.Operacion)
		if err != nil {
			res.Error = err.Error()
			failed++
		} else {
			res.StockNuevo = nuevo
		}
		results = append(results, res)
	}

	if failed > 0 {
		log.Warn().Int("items", len(items)).Int("failed", failed).Msg("stock batch finished with errors")
	}
	return results, nil
}

func (s *stockService) UpdateFromInvoice(ctx context.Context, facturaID uuid.UUID) (int, error) {
	updated, err := s.stockRepo.UpdateFromInvoice(ctx, facturaID)
	if err != nil {
		return 0, err
	}
	log.Info().Str("factura_id", facturaID.String()).Int("productos", updated).Msg("stock updated from invoice")
	return updated, nil
}

func (s *stockService) Movements(ctx context.Context, productID uuid.UUID) ([]*models.StockMovement, error) {
	return s.stockRepo.Movements(ctx, productID, StockMovementsLimit)
}

// Alerts lists vista_stock_alertas, optionally filtered by state.
func (s *stockService) Alerts(ctx context.Context, estado string) ([]*models.StockAlert, error) {
	if estado == "" {
		return s.stockRepo.Alerts(ctx, nil)
	}
	switch estado {
	case models.StockStateCritical, models.StockStateLow, models.StockStateExcess, models.StockStateNormal:
	default:
		return nil, fmt.Errorf("%w: estado %q", ErrInvalidOperation, estado)
	}
	return s.stockRepo.Alerts(ctx, &estado)
}

func (s *stockService) LowStock(ctx context.Context) ([]*models.StockAlert, error) {
	return s.stockRepo.LowStock(ctx)
}

func (s *stockService) SummaryByBranch(ctx context.Context) ([]models.BranchStockSummary, error) {
	return s.stockRepo.SummaryByBranch(ctx)
}

func (s *stockService) InventoryValue(ctx context.Context) (float64, error) {
	return s.stockRepo.InventoryValue(ctx)
}
