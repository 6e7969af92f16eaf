package main

import (
	"clinicalfresh/internal/config"
	"clinicalfresh/internal/handlers"
	"clinicalfresh/internal/middleware"
	"clinicalfresh/internal/models"

	_ "clinicalfresh/docs"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// uploadBodyLimit leaves room for the multipart envelope around a 10 MB file.
const uploadBodyLimit = "12M"

type application struct {
	cfg      *config.Config
	jwtKeys  *middleware.JWTKeys
	rbac     *middleware.RBACMiddleware
	audit    *middleware.AuditMiddleware
	versions *middleware.VersionMiddleware

	health    *handlers.HealthHandlers
	me        *handlers.MeHandlers
	tree      *handlers.TreeHandlers
	recipes   *handlers.RecipeHandlers
	costs     *handlers.RecipeCostHandlers
	employees *handlers.EmployeeHandlers
	notifs    *handlers.NotificationHandlers
	stock     *handlers.StockHandlers
	auditLogs *handlers.AuditLogsHandlers
	jobsAdmin *handlers.JobHandlers
}

func (app *application) routes(e *echo.Echo) {
	e.Use(app.versions.APIVersionResolver())

	e.GET("/health", app.health.HealthCheck)
	e.GET("/health/ready", app.health.ReadinessCheck)
	e.GET("/health/live", app.health.LivenessCheck)

	if !app.cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	v1 := e.Group("/v1",
		app.versions.VersionHeader("v1"),
		echojwt.WithConfig(middleware.JWTConfig(app.jwtKeys)),
		middleware.RequireUser(),
	)
	low := app.audit.AuditRequest(middleware.SensitivityLow)
	perm := app.rbac.RequirePermission

	v1.GET("/me", app.me.Me)

	arbol := v1.Group("/arbol", low)
	arbol.GET("/raices", app.tree.GetRoots)
	arbol.GET("/nivel/:nivel", app.tree.GetByLevel)
	arbol.GET("/buscar", app.tree.Search)
	arbol.GET("/vista", app.tree.GetView)
	arbol.GET("/completo", app.tree.GetFullTree)
	arbol.GET("/categorias", app.tree.GetCategories)
	arbol.GET("/conteo", app.tree.CountByBranch)
	arbol.GET("/codigo/:codigo", app.tree.GetByCode)
	arbol.GET("/unidades/:unidad/valida", app.tree.ValidateStockUnit)
	arbol.GET("/:id", app.tree.GetNode)
	arbol.GET("/:id/hijos", app.tree.GetChildren)
	arbol.GET("/:id/presentaciones", app.tree.GetPresentations)
	arbol.GET("/:id/producto", app.tree.GetPresentationWithProduct)
	arbol.GET("/:id/stock", app.tree.GetStock)
	arbol.GET("/:id/precio-promedio", app.tree.GetAveragePrice)
	arbol.GET("/:id/historial-precios", app.tree.GetPriceHistory)
	arbol.GET("/:id/costo-promedio", app.tree.GetStockAverageCost)
	arbol.GET("/:id/validar-contenido", app.tree.ValidatePresentationContent)
	arbol.POST("/validar", app.tree.ValidateNode)
	arbol.POST("", app.tree.CreateNode, perm(models.PermGestionarArbol))
	arbol.PUT("/:id", app.tree.UpdateNode, perm(models.PermGestionarArbol))
	arbol.DELETE("/:id", app.tree.DeleteNode, perm(models.PermGestionarArbol))
	arbol.POST("/:id/impacto-precio", app.costs.PriceImpact, perm(models.PermVerCostos))
	arbol.POST("/:id/simular-precio", app.costs.SimulatePriceChange, perm(models.PermVerCostos))

	v1.GET("/proveedores/:id/presentaciones", app.tree.SearchPresentationsForSupplier, low)

	recetas := v1.Group("/recetas", low)
	recetas.GET("/conectores", app.recipes.GetConnectors)
	recetas.GET("/estandar", app.recipes.GetStandardRecipes)
	recetas.GET("/buscar", app.recipes.Search)
	recetas.GET("/conteo/:nivel", app.recipes.CountByLevel)
	recetas.GET("/codigo/:codigo", app.recipes.GetByCode)
	recetas.GET("/plato/:id", app.recipes.GetByDish)
	recetas.GET("/:id", app.recipes.GetRecipe)
	recetas.GET("/:id/hijos", app.recipes.GetChildren)
	recetas.GET("/:id/ingredientes", app.recipes.GetIngredients)
	recetas.POST("", app.recipes.CreateRecipe, perm(models.PermGestionarRecetas))
	recetas.PUT("/:id", app.recipes.UpdateRecipe, perm(models.PermGestionarRecetas))
	recetas.DELETE("/:id", app.recipes.DeleteRecipe, perm(models.PermGestionarRecetas))
	recetas.POST("/:id/duplicar", app.recipes.DuplicateRecipe, perm(models.PermGestionarRecetas))
	recetas.POST("/:id/ingredientes", app.recipes.AddIngredient, perm(models.PermGestionarRecetas))
	recetas.PUT("/:id/ingredientes/:ingredienteId", app.recipes.UpdateIngredient, perm(models.PermGestionarRecetas))
	recetas.DELETE("/:id/ingredientes/:ingredienteId", app.recipes.RemoveIngredient, perm(models.PermGestionarRecetas))

	verCostos := perm(models.PermVerCostos)
	recetas.GET("/con-costos", app.costs.RecipesWithCosts, verCostos)
	recetas.GET("/comparar", app.costs.Compare, verCostos)
	recetas.GET("/:id/costos", app.costs.GetBreakdown, verCostos)
	recetas.GET("/:id/costos/vista", app.costs.GetView, verCostos)
	recetas.GET("/:id/costos/top", app.costs.GetTopCostly, verCostos)
	recetas.GET("/:id/costos/historial", app.costs.CostHistory, verCostos)
	recetas.GET("/:id/costos/exportar", app.costs.ExportBreakdown, verCostos)
	recetas.POST("/:id/costos/impacto/:materiaPrimaId", app.costs.IngredientPriceImpact, verCostos)
	recetas.POST("/recalcular", app.costs.RecalculateAll, perm(models.PermRecalcularCostos))
	recetas.POST("/recalcular/pendientes", app.costs.RecalculatePending, perm(models.PermRecalcularCostos))

	empleados := v1.Group("/empleados",
		app.audit.AuditRequest(middleware.SensitivityHigh),
		perm(models.PermGestionarEmpleados),
	)
	empleados.POST("", app.employees.CreateEmployee)
	empleados.GET("", app.employees.ListEmployees)
	empleados.GET("/:id", app.employees.GetEmployee)
	empleados.DELETE("/:id", app.employees.DeactivateEmployee)
	empleados.POST("/:id/documentos", app.employees.UploadDocument, echoMiddleware.BodyLimit(uploadBodyLimit))
	empleados.GET("/:id/documentos", app.employees.ListDocuments)
	empleados.GET("/documentos/:documentoId/url", app.employees.DocumentURL)
	empleados.DELETE("/documentos/:documentoId", app.employees.DeleteDocument)

	notificaciones := v1.Group("/notificaciones")
	notificaciones.GET("", app.notifs.ListUnread)
	notificaciones.GET("/sin-leer/conteo", app.notifs.UnreadCount)
	notificaciones.PUT("/leidas", app.notifs.MarkAllRead)
	notificaciones.PUT("/:id/leida", app.notifs.MarkRead)

	stock := v1.Group("/stock", app.audit.AuditRequest(middleware.SensitivityMedium))
	stock.GET("/alertas", app.stock.Alerts)
	stock.GET("/bajo", app.stock.LowStock)
	stock.GET("/resumen", app.stock.SummaryByBranch)
	stock.GET("/valor", app.stock.InventoryValue)
	stock.GET("/:id/movimientos", app.stock.Movements)
	stock.POST("/:id/ajustar", app.stock.Adjust, perm(models.PermAjustarStock))
	stock.POST("/ajustes", app.stock.AdjustBatch, perm(models.PermAjustarStock))
	stock.POST("/facturas/:id", app.stock.UpdateFromInvoice, perm(models.PermRegistrarFactura))

	auditoria := v1.Group("/auditoria", perm(models.PermVerAuditoria))
	auditoria.GET("", app.auditLogs.ListAuditLogs)
	auditoria.GET("/estadisticas", app.auditLogs.GetAuditStats)
	auditoria.GET("/:tabla/:registroId", app.auditLogs.GetEntityHistory)

	admin := v1.Group("/admin", low, perm(models.PermVerTodo))
	admin.GET("/tareas", app.jobsAdmin.ListJobs)
	admin.POST("/tareas/:nombre/ejecutar", app.jobsAdmin.TriggerJob)
}
