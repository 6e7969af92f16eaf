package services

import (
	"fmt"
	"strings"

	"clinicalfresh/internal/models"
)

// ValidateNode checks the content rules of a node against its parent. parent
// is nil for roots or when the parent could not be found.
func ValidateNode(node *models.TreeNode, parent *models.TreeNode) *models.ValidationResult {
	res := models.NewValidationResult()

	if strings.TrimSpace(node.Codigo) == "" {
		res.Add("El código es requerido")
	}
	if strings.TrimSpace(node.Nombre) == "" {
		res.Add("El nombre es requerido")
	}
	if !node.TipoRama.Valid() {
		res.Add(fmt.Sprintf("Tipo de rama inválido: %q", node.TipoRama))
	}
	if node.NivelActual < models.NivelRaiz || node.NivelActual > models.NivelPresentacion {
		res.Add(fmt.Sprintf("Nivel inválido: %d", node.NivelActual))
		return res
	}

	res.Merge(validateHierarchy(node, parent))

	switch node.NivelActual {
	case models.NivelProducto:
		res.Merge(validateProduct(node))
	case models.NivelPresentacion:
		res.Merge(validatePresentationFields(node))
		if parent != nil {
			res.Merge(ValidatePresentationAgainstParent(node.UnidadContenido, parent))
		}
	}
	return res
}

func validateHierarchy(node, parent *models.TreeNode) *models.ValidationResult {
	res := models.NewValidationResult()

	if node.NivelActual == models.NivelRaiz {
		if node.ParentID != nil {
			res.Add("Un nodo raíz no puede tener padre")
		}
	} else {
		switch {
		case node.ParentID == nil:
			res.Add(fmt.Sprintf("El nivel %d requiere un nodo padre", node.NivelActual))
		case parent == nil:
			res.Add("El nodo padre no existe")
		case parent.NivelActual+1 != node.NivelActual:
			res.Add(fmt.Sprintf("El nivel %d no puede colgar de un padre de nivel %d", node.NivelActual, parent.NivelActual))
		case parent.TipoRama != node.TipoRama:
			res.Add("El nodo debe pertenecer a la misma rama que su padre")
		}
	}

	if node.ManejaStock && node.NivelActual != models.NivelProducto {
		res.Add("Solo los productos de nivel 5 pueden manejar stock")
	}
	return res
}

func validateProduct(node *models.TreeNode) *models.ValidationResult {
	res := models.NewValidationResult()

	if node.UnidadStock == nil || *node.UnidadStock == "" {
		res.Add("La unidad de stock es requerida para productos")
	} else if !IsValidStockUnit(*node.UnidadStock) {
		res.Add(fmt.Sprintf("Unidad de stock inválida: %s", *node.UnidadStock))
	}
	if node.StockMinimo != nil && *node.StockMinimo < 0 {
		res.Add("El stock mínimo no puede ser negativo")
	}
	if node.StockMinimo != nil && node.StockMaximo != nil && *node.StockMaximo < *node.StockMinimo {
		res.Add("El stock máximo no puede ser menor que el stock mínimo")
	}
	return res
}

func validatePresentationFields(node *models.TreeNode) *models.ValidationResult {
	res := models.NewValidationResult()

	if node.ContenidoUnidad == nil || *node.ContenidoUnidad <= 0 {
		res.Add("El contenido de la unidad debe ser mayor a 0")
	}
	if node.UnidadContenido == nil || *node.UnidadContenido == "" {
		res.Add("La unidad de contenido es requerida")
	}
	return res
}

// ValidatePresentationAgainstParent checks that a presentation's content unit
// matches the stock unit of its stock-carrying parent.
func ValidatePresentationAgainstParent(unidadContenido *string, parent *models.TreeNode) *models.ValidationResult {
	res := models.NewValidationResult()

	if !parent.ManejaStock {
		res.Add("El producto padre no maneja stock")
	}
	unidad := ""
	if unidadContenido != nil {
		unidad = *unidadContenido
	}
	stock := ""
	if parent.UnidadStock != nil {
		stock = *parent.UnidadStock
	}
	if unidad != stock {
		res.Add(fmt.Sprintf("La unidad de contenido (%s) debe coincidir con la unidad de stock del padre (%s)", unidad, stock))
	}
	return res
}
