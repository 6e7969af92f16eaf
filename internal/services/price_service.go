package services

import (
	"context"
	"time"

	"clinicalfresh/internal/models"
	"clinicalfresh/internal/repositories"

	"github.com/google/uuid"
)

// DefaultPriceWindowMonths is the trailing window of the weighted average price.
const DefaultPriceWindowMonths = 3

type PriceService interface {
	AveragePrice(ctx context.Context, productID uuid.UUID, months int) (*models.AveragePrice, error)
	PriceHistory(ctx context.Context, productID uuid.UUID, months int) ([]*models.PriceHistoryEntry, error)
	StockAverageCost(ctx context.Context, productID uuid.UUID, months int) (*float64, error)
}

type priceService struct {
	priceRepo repositories.PriceHistoryRepository
	now       func() time.Time
}

func NewPriceService(priceRepo repositories.PriceHistoryRepository) PriceService {
	return &priceService{priceRepo: priceRepo, now: time.Now}
}

func windowMonths(months int) int {
	if months <= 0 {
		return DefaultPriceWindowMonths
	}
	return months
}

// AveragePrice delegates the weighting to calcular_precio_promedio; Precio is
// nil when no invoice line falls in the window.
func (s *priceService) AveragePrice(ctx context.Context, productID uuid.UUID, months int) (*models.AveragePrice, error) {
	months = windowMonths(months)
	since := s.now().AddDate(0, -months, 0)

	precio, err := s.priceRepo.AveragePrice(ctx, productID, since)
	if err != nil {
		return nil, err
	}
	return &models.AveragePrice{
		ProductoID: productID,
		Meses:      months,
		Desde:      since,
		Precio:     precio,
	}, nil
}

func (s *priceService) PriceHistory(ctx context.Context, productID uuid.UUID, months int) ([]*models.PriceHistoryEntry, error) {
	since := s.now().AddDate(0, -windowMonths(months), 0)
	return s.priceRepo.ListSince(ctx, productID, since)
}

func (s *priceService) StockAverageCost(ctx context.Context, productID uuid.UUID, months int) (*float64, error) {
	return s.priceRepo.AverageStockCost(ctx, productID, windowMonths(months))
}
