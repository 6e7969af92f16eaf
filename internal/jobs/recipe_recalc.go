package jobs

import (
	"context"
	"fmt"

	"clinicalfresh/internal/models"

	"github.com/rs/zerolog/log"
)

type PendingRecalculator interface {
	RecalculatePending(ctx context.Context) (*models.RecalculationResult, error)
}

// RecipeRecalculator refreshes recipe costs flagged as stale after price
// or ingredient changes.
type RecipeRecalculator struct {
	costs PendingRecalculator
}

func NewRecipeRecalculator(costs PendingRecalculator) *RecipeRecalculator {
	return &RecipeRecalculator{costs: costs}
}

func (r *RecipeRecalculator) Run(ctx context.Context) (*models.RecalculationResult, error) {
	res, err := r.costs.RecalculatePending(ctx)
	if err != nil {
		return nil, fmt.Errorf("recalculate pending recipes: %w", err)
	}
	return res, nil
}

func (r *RecipeRecalculator) Task(ctx context.Context) error {
	res, err := r.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("recipe recalculation job failed")
		return err
	}
	log.Info().
		Int("recetas_actualizadas", res.RecetasActualizadas).
		Int64("tiempo_ms", res.TiempoMs).
		Msg("recipe recalculation job completed")
	return nil
}
