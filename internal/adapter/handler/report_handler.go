package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/services"
)

type ReportHandler struct {
	svc *services.ReportService
	log *zap.Logger
	now func() time.Time
}

func NewReportHandler(svc *services.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, log: log, now: time.Now}
}

func (h *ReportHandler) Summary(c echo.Context) error {
	summary, err := h.svc.Summary(c.Request().Context(), h.now())
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
