package handlers

import (
	"net/http"

	"clinicalfresh/internal/common"
	"clinicalfresh/internal/models"
	"clinicalfresh/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// EmployeeHandlers serves employees and their stored documents.
type EmployeeHandlers struct {
	employeeSvc services.EmployeeService
}

func NewEmployeeHandlers(employeeSvc services.EmployeeService) *EmployeeHandlers {
	return &EmployeeHandlers{employeeSvc: employeeSvc}
}

// CreateEmployee stores the employee with its talent and SST records in one
// transaction.
//
//	@Summary	Crear empleado
//	@Tags		empleados
//	@Accept		json
//	@Success	201
//	@Failure	400
//	@Router		/empleados [post]
func (h *EmployeeHandlers) CreateEmployee(c echo.Context) error {
	var req models.EmployeeFull
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	full, err := h.employeeSvc.CreateEmployee(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, full)
}

func (h *EmployeeHandlers) GetEmployee(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	full, err := h.employeeSvc.GetEmployee(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, full)
}

func (h *EmployeeHandlers) ListEmployees(c echo.Context) error {
	limit, offset, err := common.ValidatePaginationParams(queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	employees, err := h.employeeSvc.ListEmployees(c.Request().Context(), c.QueryParam("q"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, employees)
}

func (h *EmployeeHandlers) DeactivateEmployee(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.employeeSvc.DeactivateEmployee(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadDocument takes a multipart form with fields archivo and
// tipo_documento.
//
//	@Summary	Subir documento de empleado
//	@Tags		empleados
//	@Accept		multipart/form-data
//	@Param		id				path		string	true	"empleado"
//	@Param		archivo			formData	file	true	"documento (máx. 10MB)"
//	@Param		tipo_documento	formData	string	true	"tipo"
//	@Success	201
//	@Failure	413
//	@Router		/empleados/{id}/documentos [post]
func (h *EmployeeHandlers) UploadDocument(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	tipo := c.FormValue("tipo_documento")
	if tipo == "" {
		return common.SendValidationError(c, "tipo_documento", "es requerido")
	}
	file, err := c.FormFile("archivo")
	if err != nil {
		return common.SendValidationError(c, "archivo", "es requerido")
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close uploaded file")
		}
	}()

	doc, err := h.employeeSvc.UploadDocument(c.Request().Context(), id, &services.DocumentUpload{
		TipoDocumento: tipo,
		NombreArchivo: file.Filename,
		MimeType:      file.Header.Get(echo.HeaderContentType),
		Size:          file.Size,
		Content:       src,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *EmployeeHandlers) ListDocuments(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	docs, err := h.employeeSvc.ListDocuments(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return list(c, docs)
}

// DocumentURL returns a presigned download link valid for one hour.
func (h *EmployeeHandlers) DocumentURL(c echo.Context) error {
	id, err := paramUUID(c, "documentoId")
	if err != nil {
		return err
	}
	url, err := h.employeeSvc.DocumentURL(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

func (h *EmployeeHandlers) DeleteDocument(c echo.Context) error {
	id, err := paramUUID(c, "documentoId")
	if err != nil {
		return err
	}
	if err := h.employeeSvc.DeleteDocument(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
