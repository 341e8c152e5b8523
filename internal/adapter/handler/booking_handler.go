package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/domain"
	"github.com/srgjo27/party_rental/internal/core/services"
)

type BookingHandler struct {
	svc          *services.BookingService
	availability *services.AvailabilityService
	catalog      *services.CatalogService
	log          *zap.Logger
}

func NewBookingHandler(svc *services.BookingService, availability *services.AvailabilityService, catalog *services.CatalogService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, availability: availability, catalog: catalog, log: log}
}

type availabilityRequest struct {
	Items            []string  `json:"items"`
	StartDate        time.Time `json:"start_date" validate:"required"`
	EndDate          time.Time `json:"end_date" validate:"required"`
	ExcludeBookingID string    `json:"exclude_booking_id,omitempty"`
}

type availabilityResponse struct {
	Available bool              `json:"available"`
	BusyItems []domain.BusyItem `json:"busy_items"`
}

type statusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required"`
}

func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	var req availabilityRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.log, err)
	}

	ctx := c.Request().Context()
	busy, err := h.availability.CheckAvailability(ctx, domain.NormalizeItems(req.Items), req.StartDate, req.EndDate, req.ExcludeBookingID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	resp := availabilityResponse{Available: len(busy) == 0, BusyItems: make([]domain.BusyItem, 0, len(busy))}
	if len(busy) > 0 {
		names, err := h.catalog.ItemNames(ctx, busy)
		if err != nil {
			h.log.Warn("Could not resolve busy item names", zap.Error(err))
		}
		for _, id := range busy {
			resp.BusyItems = append(resp.BusyItems, domain.BusyItem{ID: id, Name: names[id]})
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	filter, err := parseBookingFilter(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.svc.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req domain.Booking
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	saved, err := h.svc.SubmitBooking(c.Request().Context(), req, nil)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, saved)
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	ctx := c.Request().Context()

	previous, err := h.svc.GetBooking(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req domain.Booking
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	saved, err := h.svc.SubmitBooking(ctx, req, previous)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, saved)
}

func (h *BookingHandler) ChangeStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.log, err)
	}

	saved, err := h.svc.ChangeStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, saved)
}

func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	if err := h.svc.DeleteBooking(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// parseBookingFilter reads status, from, to and customer. from/to select bookings
// whose period touches the window; a date-only "to" covers that whole day.
func parseBookingFilter(c echo.Context) (domain.BookingFilter, error) {
	var filter domain.BookingFilter
	verr := &domain.ValidationError{}

	for _, raw := range c.QueryParams()["status"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, domain.BookingStatus(s))
			}
		}
	}

	if raw := c.QueryParam("from"); raw != "" {
		from, _, err := parseTime(raw)
		if err != nil {
			verr.Add("from", "must be a date or RFC3339 timestamp")
		} else {
			filter.EndsOnOrAfter = &from
		}
	}

	if raw := c.QueryParam("to"); raw != "" {
		to, dateOnly, err := parseTime(raw)
		if err != nil {
			verr.Add("to", "must be a date or RFC3339 timestamp")
		} else {
			if dateOnly {
				to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
			filter.StartsOnOrBefore = &to
		}
	}

	filter.CustomerName = strings.TrimSpace(c.QueryParam("customer"))

	if len(verr.Fields) > 0 {
		return filter, verr
	}

	return filter, nil
}

func parseTime(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}

	t, err := time.Parse(time.DateOnly, raw)
	return t, true, err
}
