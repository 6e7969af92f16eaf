package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"clinicalfresh/internal/models"
	"clinicalfresh/internal/services"
	"clinicalfresh/internal/treestate"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TreeHandlers serves the raw-material tree.
type TreeHandlers struct {
	treeSvc  services.TreeService
	priceSvc services.PriceService
}

func NewTreeHandlers(treeSvc services.TreeService, priceSvc services.PriceService) *TreeHandlers {
	return &TreeHandlers{
		treeSvc:  treeSvc,
		priceSvc: priceSvc,
	}
}

// treeNodeRequest only checks the request shape. Content rules are left to
// services.ValidateNode so rejections come back as a ValidationResult.
type treeNodeRequest struct {
	Codigo          string     `json:"codigo" validate:"max=50"`
	Nombre          string     `json:"nombre" validate:"max=200"`
	Descripcion     *string    `json:"descripcion"`
	ParentID        *uuid.UUID `json:"parent_id"`
	NivelActual     int        `json:"nivel_actual"`
	TipoRama        string     `json:"tipo_rama" validate:"required,oneof=produccion entregable desechable"`
	ManejaStock     bool       `json:"maneja_stock"`
	StockActual     *float64   `json:"stock_actual"`
	StockMinimo     *float64   `json:"stock_minimo"`
	StockMaximo     *float64   `json:"stock_maximo"`
	UnidadStock     *string    `json:"unidad_stock"`
	CostoPromedio   *float64   `json:"costo_promedio"`
	ContenidoUnidad *float64   `json:"contenido_unidad"`
	UnidadContenido *string    `json:"unidad_contenido"`
}

func (r *treeNodeRequest) node() *models.TreeNode {
	return &models.TreeNode{
		Codigo:          r.Codigo,
		Nombre:          r.Nombre,
		Descripcion:     r.Descripcion,
		ParentID:        r.ParentID,
		NivelActual:     r.NivelActual,
		TipoRama:        models.TipoRama(r.TipoRama),
		Activo:          true,
		ManejaStock:     r.ManejaStock,
		StockActual:     r.StockActual,
		StockMinimo:     r.StockMinimo,
		StockMaximo:     r.StockMaximo,
		UnidadStock:     r.UnidadStock,
		CostoPromedio:   r.CostoPromedio,
		ContenidoUnidad: r.ContenidoUnidad,
		UnidadContenido: r.UnidadContenido,
	}
}

func tipoRamaParam(c echo.Context) (*models.TipoRama, error) {
	raw := c.QueryParam("tipo_rama")
	if raw == "" {
		return nil, nil
	}
	t := models.TipoRama(raw)
	if !t.Valid() {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid tipo_rama")
	}
	return &t, nil
}

// GetRoots lists the level-1 nodes of a branch (default produccion).
//
//	@Summary	Raíces del árbol de materia prima
//	@Tags		arbol
//	@Param		tipo_rama	query	string	false	"produccion | entregable | desechable"
//	@Success	200
//	@Router		/arbol/raices [get]
func (h *TreeHandlers) GetRoots(c echo.Context) error {
	tipo, err := tipoRamaParam(c)
	if err != nil {
		return err
	}
	branch := models.TipoRamaProduccion
	if tipo != nil {
		branch = *tipo
	}
	nodes, err := h.treeSvc.GetByLevelAndBranch(c.Request().Context(), models.NivelRaiz, branch)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, nodes)
}

func (h *TreeHandlers) GetByLevel(c echo.Context) error {
	nivel, err := strconv.Atoi(c.Param("nivel"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid nivel")
	}
	tipo, err := tipoRamaParam(c)
	if err != nil {
		return err
	}
	if tipo == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "tipo_rama is required")
	}
	nodes, err := h.treeSvc.GetByLevelAndBranch(c.Request().Context(), nivel, *tipo)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, nodes)
}

func (h *TreeHandlers) GetNode(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	node, err := h.treeSvc.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, node)
}

func (h *TreeHandlers) GetByCode(c echo.Context) error {
	node, err := h.treeSvc.GetByCode(c.Request().Context(), c.Param("codigo"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, node)
}

func (h *TreeHandlers) GetChildren(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	nodes, err := h.treeSvc.GetChildren(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, nodes)
}

// Search matches code or name; terms shorter than three characters return
// an empty list.
//
//	@Summary	Buscar en el árbol
//	@Tags		arbol
//	@Param		q			query	string	true	"término (mínimo 3 caracteres)"
//	@Param		tipo_rama	query	string	false	"rama"
//	@Param		nivel		query	int		false	"nivel"
//	@Param		stock_bajo	query	bool	false	"solo stock bajo"
//	@Success	200
//	@Router		/arbol/buscar [get]
func (h *TreeHandlers) Search(c echo.Context) error {
	filters := &models.TreeNodeFilters{}
	tipo, err := tipoRamaParam(c)
	if err != nil {
		return err
	}
	filters.TipoRama = tipo
	if raw := c.QueryParam("nivel"); raw != "" {
		nivel, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid nivel")
		}
		filters.NivelActual = &nivel
	}
	filters.StockBajo = c.QueryParam("stock_bajo") == "true"

	nodes, err := h.treeSvc.Search(c.Request().Context(), c.QueryParam("q"), filters)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, nodes)
}

func (h *TreeHandlers) GetPresentations(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	nodes, err := h.treeSvc.GetPresentations(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, nodes)
}

func (h *TreeHandlers) GetPresentationWithProduct(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.treeSvc.GetPresentationWithProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *TreeHandlers) SearchPresentationsForSupplier(c echo.Context) error {
	supplierID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	nodes, err := h.treeSvc.SearchPresentationsForSupplier(c.Request().Context(), supplierID, c.QueryParam("q"))
	if err != nil {
		return respondError(c, err)
	}
	return list(c, nodes)
}

func (h *TreeHandlers) GetStock(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	stock, err := h.treeSvc.GetStock(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stock)
}

func (h *TreeHandlers) GetFullTree(c echo.Context) error {
	tipo, err := tipoRamaParam(c)
	if err != nil {
		return err
	}
	nodes, err := h.treeSvc.GetFullTree(c.Request().Context(), tipo)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, nodes)
}

func (h *TreeHandlers) GetCategories(c echo.Context) error {
	nodes, err := h.treeSvc.GetLevel3Categories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return list(c, nodes)
}

func (h *TreeHandlers) CountByBranch(c echo.Context) error {
	counts, err := h.treeSvc.CountByBranch(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return list(c, counts)
}

// GetView returns the visible rows of a branch with the nodes listed in
// expandir (comma separated, outermost first) expanded.
//
//	@Summary	Vista expandida del árbol
//	@Tags		arbol
//	@Param		tipo_rama	query	string	false	"rama"
//	@Param		expandir	query	string	false	"ids separados por coma"
//	@Success	200
//	@Router		/arbol/vista [get]
func (h *TreeHandlers) GetView(c echo.Context) error {
	tipo, err := tipoRamaParam(c)
	if err != nil {
		return err
	}
	branch := models.TipoRamaProduccion
	if tipo != nil {
		branch = *tipo
	}

	var expand []uuid.UUID
	for _, raw := range strings.Split(c.QueryParam("expandir"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid id in expandir")
		}
		expand = append(expand, id)
	}

	ctx := c.Request().Context()
	roots, err := h.treeSvc.GetByLevelAndBranch(ctx, models.NivelRaiz, branch)
	if err != nil {
		return respondError(c, err)
	}
	s, _ := treestate.Reduce(treestate.New(), treestate.RootsLoaded{Nodes: roots})
	s = treestate.ExpandPath(ctx, s, h.treeSvc, expand...)

	return list(c, treestate.Visible(s))
}

// CreateNode answers 422 with the validation result when the node is
// rejected on its content.
//
//	@Summary	Crear nodo
//	@Tags		arbol
//	@Accept		json
//	@Success	201
//	@Failure	422
//	@Router		/arbol [post]
func (h *TreeHandlers) CreateNode(c echo.Context) error {
	var req treeNodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	node, res, err := h.treeSvc.Create(c.Request().Context(), req.node())
	if err != nil {
		return respondError(c, err)
	}
	if !res.Valido {
		return c.JSON(http.StatusUnprocessableEntity, res)
	}
	return c.JSON(http.StatusCreated, node)
}

func (h *TreeHandlers) UpdateNode(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req treeNodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	node, res, err := h.treeSvc.Update(c.Request().Context(), id, req.node())
	if err != nil {
		return respondError(c, err)
	}
	if !res.Valido {
		return c.JSON(http.StatusUnprocessableEntity, res)
	}
	return c.JSON(http.StatusOK, node)
}

func (h *TreeHandlers) DeleteNode(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.treeSvc.SoftDelete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ValidateNode runs the write validation without persisting. A rejected
// node answers 422 like CreateNode does.
func (h *TreeHandlers) ValidateNode(c echo.Context) error {
	var req treeNodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	res, err := h.treeSvc.Validate(c.Request().Context(), req.node())
	if err != nil {
		return respondError(c, err)
	}
	if !res.Valido {
		return c.JSON(http.StatusUnprocessableEntity, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TreeHandlers) ValidatePresentationContent(c echo.Context) error {
	parentID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.treeSvc.ValidatePresentationContent(c.Request().Context(), parentID, c.QueryParam("unidad"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GetAveragePrice returns the weighted purchase price over meses months
// (default 3).
func (h *TreeHandlers) GetAveragePrice(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	avg, err := h.priceSvc.AveragePrice(c.Request().Context(), id, queryInt(c, "meses", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, avg)
}

// GetStockAverageCost returns the average cost the stock procedure keeps
// for a raw material.
func (h *TreeHandlers) GetStockAverageCost(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	cost, err := h.priceSvc.StockAverageCost(c.Request().Context(), id, queryInt(c, "meses", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]*float64{"costo_promedio": cost})
}

// ValidateStockUnit reports whether unidad can carry stock.
func (h *TreeHandlers) ValidateStockUnit(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"valida": h.treeSvc.ValidateStockUnit(c.Param("unidad"))})
}

func (h *TreeHandlers) GetPriceHistory(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.priceSvc.PriceHistory(c.Request().Context(), id, queryInt(c, "meses", 0))
	if err != nil {
		return respondError(c, err)
	}
	return list(c, entries)
}
