package jobs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"clinicalfresh/internal/models"

	"github.com/rs/zerolog/log"
)

// AlertDedupeWindow is how long a product stays silent after an alert.
const AlertDedupeWindow = 24 * time.Hour

// LowStockRoles receive stock_bajo notifications.
var LowStockRoles = []string{
	models.RoleAdministrador,
	models.RoleAlmacenista,
	models.RoleJefeCompras,
}

type LowStockLister interface {
	LowStock(ctx context.Context) ([]*models.StockAlert, error)
}

type RoleNotifier interface {
	NotifyRoles(ctx context.Context, roles []string, tipo models.NotificationType, titulo, mensaje string, datos models.JSONB) (int, error)
}

type OnceMarker interface {
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unmark(ctx context.Context, key string) error
}

// LowStockRun summarises one pass of the alert job.
type LowStockRun struct {
	Revisados      int `json:"revisados"`
	Alertados      int `json:"alertados"`
	Omitidos       int `json:"omitidos"`
	Notificaciones int `json:"notificaciones"`
}

type LowStockAlerter struct {
	stock    LowStockLister
	notifier RoleNotifier
	dedupe   OnceMarker
}

func NewLowStockAlerter(stock LowStockLister, notifier RoleNotifier, dedupe OnceMarker) *LowStockAlerter {
	return &LowStockAlerter{
		stock:    stock,
		notifier: notifier,
		dedupe:   dedupe,
	}
}

// Run notifies every product below its minimum that was not already
// alerted within AlertDedupeWindow. A product whose dedupe check or
// notification fails is retried on the next run.
func (a *LowStockAlerter) Run(ctx context.Context) (*LowStockRun, error) {
	items, err := a.stock.LowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	run := &LowStockRun{Revisados: len(items)}
	for _, item := range items {
		key := "stock_bajo:" + item.ProductoID.String()
		first, err := a.dedupe.MarkOnce(ctx, key, AlertDedupeWindow)
		if err != nil {
			log.Warn().Err(err).Str("producto_id", item.ProductoID.String()).Msg("low stock dedupe check failed")
			run.Omitidos++
			continue
		}
		if !first {
			run.Omitidos++
			continue
		}

		data := models.LowStockAlertData{
			ProductoID:  item.ProductoID.String(),
			Codigo:      item.Codigo,
			Nombre:      item.Nombre,
			StockActual: item.StockActual,
			StockMinimo: item.StockMinimo,
			UnidadStock: item.UnidadStock,
		}
		n, err := a.notifier.NotifyRoles(ctx, LowStockRoles, models.NotificationTypeLowStock,
			"Stock bajo: "+item.Nombre, lowStockMessage(item), data.JSONB())
		if err != nil {
			log.Warn().Err(err).Str("producto_id", item.ProductoID.String()).Msg("failed to send low stock notification")
			if err := a.dedupe.Unmark(ctx, key); err != nil {
				log.Warn().Err(err).Str("producto_id", item.ProductoID.String()).Msg("failed to release low stock dedupe key")
			}
			run.Omitidos++
			continue
		}
		run.Alertados++
		run.Notificaciones += n
	}
	return run, nil
}

func lowStockMessage(item *models.StockAlert) string {
	return fmt.Sprintf("%s (%s) tiene %s %s; el mínimo es %s %s",
		item.Nombre, item.Codigo,
		strconv.FormatFloat(item.StockActual, 'f', -1, 64), item.UnidadStock,
		strconv.FormatFloat(item.StockMinimo, 'f', -1, 64), item.UnidadStock)
}

// Task adapts Run to a scheduler task.
func (a *LowStockAlerter) Task(ctx context.Context) error {
	run, err := a.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("low stock alert job failed")
		return err
	}
	log.Info().
		Int("revisados", run.Revisados).
		Int("alertados", run.Alertados).
		Int("omitidos", run.Omitidos).
		Msg("low stock alert job completed")
	return nil
}
