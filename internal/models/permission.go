package models

// Actions checked by the authorization middleware.
const (
	PermCrearSolicitud      = "crear_solicitud"
	PermRectificarSolicitud = "rectificar_solicitud"
	PermMarcarComprada      = "marcar_comprada"
	PermRegistrarFactura    = "registrar_factura"
	PermAprobarSolicitud    = "aprobar_solicitud"
	PermVerTodo             = "ver_todo"

	PermGestionarArbol     = "gestionar_arbol"
	PermGestionarRecetas   = "gestionar_recetas"
	PermVerCostos          = "ver_costos"
	PermRecalcularCostos   = "recalcular_costos"
	PermGestionarEmpleados = "gestionar_empleados"
	PermAjustarStock       = "ajustar_stock"
	PermVerAuditoria       = "ver_auditoria"
)

// Permissions maps an action to the roles allowed to perform it.
var Permissions = map[string][]string{
	PermCrearSolicitud:      {RoleJefePlanta, RoleAdministrador},
	PermRectificarSolicitud: {RoleAuxiliarCompras, RoleAdministrador},
	PermMarcarComprada:      {RoleJefeCompras, RoleAdministrador},
	PermRegistrarFactura:    {RoleAlmacenista, RoleAdministrador},
	PermAprobarSolicitud:    {RoleAdministrador, RoleJefeCompras},
	PermVerTodo:             {RoleAdministrador},

	PermGestionarArbol:     {RoleAdministrador, RoleJefeCompras, RoleAuxiliarCompras},
	PermGestionarRecetas:   {RoleAdministrador, RoleNutricionista, RoleJefePlanta},
	PermVerCostos:          {RoleAdministrador, RoleNutricionista, RoleJefePlanta, RoleJefeCompras},
	PermRecalcularCostos:   {RoleAdministrador, RoleJefeCompras},
	PermGestionarEmpleados: {RoleAdministrador, RoleTalentoHumano},
	PermAjustarStock:       {RoleAdministrador, RoleAlmacenista},
	PermVerAuditoria:       {RoleAdministrador},
}
