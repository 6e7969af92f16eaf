package handlers

import (
	"net/http"

	"clinicalfresh/internal/models"
	"clinicalfresh/internal/services"

	"github.com/labstack/echo/v4"
)

type StockHandlers struct {
	stockSvc services.StockService
}

func NewStockHandlers(stockSvc services.StockService) *StockHandlers {
	return &StockHandlers{stockSvc: stockSvc}
}

type adjustStockRequest struct {
	Cantidad  float64 `json:"cantidad" validate:"gte=0"`
	Operacion string  `json:"operacion" validate:"required,oneof=incrementar decrementar establecer"`
}

// Adjust applies one stock operation to a level-5 product.
//
//	@Summary	Ajustar stock
//	@Tags		stock
//	@Param		id	path	string	true	"producto"
//	@Success	200
//	@Router		/stock/{id}/ajustar [post]
func (h *StockHandlers) Adjust(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req adjustStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	stock, err := h.stockSvc.Adjust(c.Request().Context(), id, req.Cantidad, models.StockOperation(req.Operacion))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"producto_id": id, "stock_nuevo": stock})
}

// AdjustBatch answers 200 with one result per item; failed items carry their
// error.
func (h *StockHandlers) AdjustBatch(c echo.Context) error {
	var req struct {
		Ajustes []models.StockAdjustment `json:"ajustes" validate:"required,min=1"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	results, err := h.stockSvc.AdjustBatch(c.Request().Context(), req.Ajustes)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, results)
}

func (h *StockHandlers) UpdateFromInvoice(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.stockSvc.UpdateFromInvoice(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"productos_actualizados": n})
}

func (h *StockHandlers) Movements(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	movements, err := h.stockSvc.Movements(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, movements)
}

func (h *StockHandlers) Alerts(c echo.Context) error {
	alerts, err := h.stockSvc.Alerts(c.Request().Context(), c.QueryParam("estado"))
	if err != nil {
		return respondError(c, err)
	}
	return list(c, alerts)
}

func (h *StockHandlers) LowStock(c echo.Context) error {
	alerts, err := h.stockSvc.LowStock(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return list(c, alerts)
}

func (h *StockHandlers) SummaryByBranch(c echo.Context) error {
	summary, err := h.stockSvc.SummaryByBranch(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return list(c, summary)
}

func (h *StockHandlers) InventoryValue(c echo.Context) error {
	value, err := h.stockSvc.InventoryValue(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]float64{"valor_inventario": value})
}
