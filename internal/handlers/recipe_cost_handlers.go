package handlers

import (
	"net/http"
	"strings"

	"clinicalfresh/internal/costview"
	"clinicalfresh/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RecipeCostHandlers serves cost breakdowns, their views and what-if
// simulations.
type RecipeCostHandlers struct {
	costSvc services.RecipeCostService
	board   *costview.Board
}

func NewRecipeCostHandlers(costSvc services.RecipeCostService) *RecipeCostHandlers {
	return &RecipeCostHandlers{
		costSvc: costSvc,
		board:   costview.NewBoard(costSvc),
	}
}

type newPriceRequest struct {
	NuevoPrecio decimal.Decimal `json:"nuevo_precio" validate:"gte=0"`
}

// GetBreakdown returns the per-ingredient cost of a recipe.
//
//	@Summary	Desglose de costos de una receta
//	@Tags		costos
//	@Param		id	path	string	true	"receta"
//	@Success	200
//	@Failure	404
//	@Router		/recetas/{id}/costos [get]
func (h *RecipeCostHandlers) GetBreakdown(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.costSvc.Breakdown(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// GetView renders the breakdown for display. A failed refresh answers with
// the last breakdown served for the recipe and status errored.
//
//	@Summary	Vista de costos
//	@Tags		costos
//	@Param		id		path	string	true	"receta"
//	@Param		modo	query	string	false	"compacto | completo"
//	@Success	200
//	@Router		/recetas/{id}/costos/vista [get]
func (h *RecipeCostHandlers) GetView(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	compact := c.QueryParam("modo") == "compacto"

	panel := h.board.Load(c.Request().Context(), id)
	resp := map[string]any{
		"status": panel.Status,
	}
	if panel.Error != "" {
		resp["error"] = "No se pudo calcular el costo de la receta"
		log.Warn().Str("receta_id", id.String()).Str("error", panel.Error).Msg("cost view refresh failed")
	}
	if panel.Breakdown != nil {
		if compact {
			resp["vista"] = costview.NewCompact(panel.Breakdown)
		} else {
			resp["vista"] = costview.NewFull(panel.Breakdown)
		}
	}

	status := http.StatusOK
	if panel.Status == costview.StatusErrored && panel.Breakdown == nil {
		status = http.StatusBadGateway
	}
	return c.JSON(status, resp)
}

func (h *RecipeCostHandlers) GetTopCostly(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	lines, err := h.costSvc.TopCostly(c.Request().Context(), id, queryInt(c, "n", services.DefaultTopCostly))
	if err != nil {
		return respondError(c, err)
	}
	return list(c, lines)
}

func (h *RecipeCostHandlers) IngredientPriceImpact(c echo.Context) error {
	recipeID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	materialID, err := paramUUID(c, "materiaPrimaId")
	if err != nil {
		return err
	}
	var req newPriceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	impact, err := h.costSvc.IngredientPriceImpact(c.Request().Context(), recipeID, materialID, req.NuevoPrecio)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, impact)
}

// PriceImpact evaluates a new price of a material on every recipe using it.
func (h *RecipeCostHandlers) PriceImpact(c echo.Context) error {
	materialID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req newPriceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	impacts, err := h.costSvc.PriceImpact(c.Request().Context(), materialID, req.NuevoPrecio)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, impacts)
}

func (h *RecipeCostHandlers) SimulatePriceChange(c echo.Context) error {
	materialID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req newPriceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	rows, err := h.costSvc.SimulatePriceChange(c.Request().Context(), materialID, req.NuevoPrecio)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, rows)
}

// Compare takes the recipe ids as a comma separated ids query param.
func (h *RecipeCostHandlers) Compare(c echo.Context) error {
	var ids []uuid.UUID
	for _, raw := range strings.Split(c.QueryParam("ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid id in ids")
		}
		ids = append(ids, id)
	}
	out, err := h.costSvc.Compare(c.Request().Context(), ids)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, out)
}

func (h *RecipeCostHandlers) CostHistory(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	history, err := h.costSvc.CostHistory(c.Request().Context(), id, queryInt(c, "meses", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": history})
}

func (h *RecipeCostHandlers) RecipesWithCosts(c echo.Context) error {
	rows, err := h.costSvc.RecipesWithCosts(c.Request().Context(), c.QueryParam("ordenar") == "costo")
	if err != nil {
		return respondError(c, err)
	}
	return list(c, rows)
}

func (h *RecipeCostHandlers) RecalculateAll(c echo.Context) error {
	res, err := h.costSvc.RecalculateAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RecipeCostHandlers) RecalculatePending(c echo.Context) error {
	res, err := h.costSvc.RecalculatePending(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ExportBreakdown downloads the breakdown as an xlsx workbook.
//
//	@Summary	Exportar desglose a Excel
//	@Tags		costos
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param		id	path	string	true	"receta"
//	@Success	200
//	@Router		/recetas/{id}/costos/exportar [get]
func (h *RecipeCostHandlers) ExportBreakdown(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	f, filename, err := h.costSvc.ExportBreakdown(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
