// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/arbol/raices": {
            "get": {
                "tags": ["arbol"],
                "summary": "Raíces del árbol de materia prima",
                "parameters": [{"type": "string", "name": "tipo_rama", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/arbol/buscar": {
            "get": {
                "tags": ["arbol"],
                "summary": "Buscar nodos por nombre o código",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query", "required": true},
                    {"type": "string", "name": "tipo_rama", "in": "query"},
                    {"type": "integer", "name": "nivel", "in": "query"},
                    {"type": "boolean", "name": "stock_bajo", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/arbol/vista": {
            "get": {
                "tags": ["arbol"],
                "summary": "Filas visibles del árbol con los nodos expandidos",
                "parameters": [
                    {"type": "string", "name": "tipo_rama", "in": "query"},
                    {"type": "string", "name": "expandir", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/arbol": {
            "post": {
                "tags": ["arbol"],
                "summary": "Crear nodo",
                "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/recetas/buscar": {
            "get": {
                "tags": ["recetas"],
                "summary": "Buscar recetas",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "name": "nivel", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/recetas/{id}/duplicar": {
            "post": {
                "tags": ["recetas"],
                "summary": "Duplicar receta con sus ingredientes",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/recetas/{id}/costos": {
            "get": {
                "tags": ["costos"],
                "summary": "Desglose de costos de una receta",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/recetas/{id}/costos/vista": {
            "get": {
                "tags": ["costos"],
                "summary": "Vista de costos",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "modo", "in": "query", "enum": ["compacto", "completo"]}
                ],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/recetas/{id}/costos/exportar": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["costos"],
                "summary": "Exportar desglose a Excel",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/empleados": {
            "post": {
                "tags": ["empleados"],
                "summary": "Crear empleado con su información de RRHH y SST",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/empleados/{id}/documentos": {
            "post": {
                "consumes": ["multipart/form-data"],
                "tags": ["empleados"],
                "summary": "Subir documento de empleado",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "tipo_documento", "in": "formData", "required": true},
                    {"type": "file", "name": "archivo", "in": "formData", "required": true}
                ],
                "responses": {"201": {"description": "Created"}, "413": {"description": "Request Entity Too Large"}, "429": {"description": "Too Many Requests"}}
            }
        },
        "/stock/{id}/ajustar": {
            "post": {
                "tags": ["stock"],
                "summary": "Ajustar stock de un producto",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/tareas": {
            "get": {
                "tags": ["admin"],
                "summary": "Tareas programadas",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "ClinicalFresh API",
	Description:      "Árbol de materia prima, recetas y costeo, empleados e inventario.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
