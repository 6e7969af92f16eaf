package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"clinicalfresh/internal/common"
	"clinicalfresh/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var clientErrors = []error{
	services.ErrInvalidNode,
	services.ErrInvalidRecipe,
	services.ErrInvalidEmployee,
	services.ErrInvalidOperation,
	services.ErrSearchTermTooLong,
	services.ErrIngredientNotInRecipe,
	services.ErrNegativePrice,
	services.ErrEmptyFile,
	services.ErrMimeNotAllowed,
}

// respondError writes the error envelope for a service error. Unknown
// errors are logged and hidden behind a generic 500.
func respondError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	if fields, ok := common.ValidationFields(err); ok {
		return common.SendValidationErrors(c, fields)
	}
	if msg, ok := services.UserMessage(err); ok {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.SendConflictError(c, msg)
		}
		return common.SendClientError(c, msg)
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		return common.SendNotFoundError(c, "Resource")
	case errors.Is(err, services.ErrFileTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, common.CreateErrorResponse("FILE_TOO_LARGE", err.Error(), nil))
	case errors.Is(err, services.ErrRateLimited):
		return common.SendTooManyRequestsError(c, "Demasiadas solicitudes, intente más tarde")
	}
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return common.SendClientError(c, err.Error())
		}
	}

	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")
	return common.SendServerError(c, "Internal server error")
}

// bindAndValidate binds the request body into dst and runs its validate tags.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return common.Validate.Struct(dst)
}

func paramUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return id, nil
}

func queryInt(c echo.Context, name string, def int) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return n
}

// list is the envelope of collection responses.
func list[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  items,
		"total": len(items),
	})
}
