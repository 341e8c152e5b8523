package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

type conflictResponse struct {
	Error     string            `json:"error"`
	BusyItems []domain.BusyItem `json:"busy_items"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func respondError(c echo.Context, log *zap.Logger, err error) error {
	var conflict *domain.ConflictError
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, validationResponse{Error: domain.ErrValidation.Error(), Fields: verr.Fields})
	case errors.As(err, &conflict):
		items := conflict.Items
		if items == nil {
			items = []domain.BusyItem{}
		}
		return c.JSON(http.StatusConflict, conflictResponse{Error: conflict.Error(), BusyItems: items})
	case errors.Is(err, domain.ErrDuplicate):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Warn("Store unavailable", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "store unavailable, try again"})
	default:
		log.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json body"})
}
