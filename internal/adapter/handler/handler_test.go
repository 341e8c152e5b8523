package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/adapter/cache"
	"github.com/srgjo27/party_rental/internal/adapter/events"
	"github.com/srgjo27/party_rental/internal/adapter/handler"
	"github.com/srgjo27/party_rental/internal/core/domain"
	"github.com/srgjo27/party_rental/internal/core/ports/mocks"
	"github.com/srgjo27/party_rental/internal/core/services"
	"github.com/srgjo27/party_rental/internal/platform/metrics"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

type server struct {
	bookings *mocks.BookingRepository
	items    *mocks.ItemRepository
	echo     *echo.Echo
}

func newServer(t *testing.T) *server {
	s := &server{
		bookings: mocks.NewBookingRepository(t),
		items:    mocks.NewItemRepository(t),
	}

	log := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	availability := services.NewAvailabilityService(s.bookings, time.Second, m, log)
	catalog := services.NewCatalogService(s.items, mocks.NewCategoryRepository(t), mocks.NewClientRepository(t), s.bookings, cache.NoopItemCache{}, log)
	bookingSvc := services.NewBookingService(s.bookings, availability, catalog, cache.NoopLocker{}, events.NoopPublisher{}, domain.PermissiveLifecycle(), m, log)

	s.echo = handler.NewServer(handler.Handlers{
		Bookings: handler.NewBookingHandler(bookingSvc, availability, catalog, log),
		Catalog:  handler.NewCatalogHandler(catalog, log),
		Reports:  handler.NewReportHandler(services.NewReportService(s.bookings), log),
		Health:   handler.NewHealthHandler(pinger{}),
	}, reg, log)

	return s
}

func (s *server) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func existingBooking() domain.Booking {
	return domain.Booking{
		ID:        "b1",
		Customer:  domain.Customer{Name: "Carlos Mendes"},
		Items:     []string{"chair-1", "table-1"},
		StartDate: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 3, 18, 0, 0, 0, time.UTC),
		Status:    domain.StatusConfirmed,
	}
}

const confirmedBody = `{
	"customer": {"name": "Juliana Paes"},
	"items": ["chair-1", "sofa-2"],
	"start_date": "2024-03-02T00:00:00Z",
	"end_date": "2024-03-04T00:00:00Z",
	"total_value": 450,
	"status": "confirmed"
}`

func TestCreateBooking_ConflictReturns409WithNames(t *testing.T) {
	s := newServer(t)

	s.bookings.On("ListBookings", mock.Anything, mock.Anything).Return([]domain.Booking{existingBooking()}, nil)
	s.items.On("ListItems", mock.Anything).Return([]domain.Item{{ID: "chair-1", Name: "Cadeira Tiffany"}}, nil)

	rec := s.do(http.MethodPost, "/bookings", confirmedBody)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error     string            `json:"error"`
		BusyItems []domain.BusyItem `json:"busy_items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []domain.BusyItem{{ID: "chair-1", Name: "Cadeira Tiffany"}}, body.BusyItems)
	assert.Contains(t, body.Error, "Cadeira Tiffany")
}

func TestCreateBooking_Created(t *testing.T) {
	s := newServer(t)

	s.bookings.On("ListBookings", mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	s.bookings.On("InsertBooking", mock.Anything, mock.AnythingOfType("*domain.Booking")).
		Return(func(_ context.Context, b *domain.Booking) (*domain.Booking, error) { return b, nil })

	rec := s.do(http.MethodPost, "/bookings", confirmedBody)

	require.Equal(t, http.StatusCreated, rec.Code)

	var saved domain.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, domain.StatusConfirmed, saved.Status)
}

func TestCreateBooking_ValidationReturns400(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/bookings", `{"items": ["chair-1"], "start_date": "2024-03-05T00:00:00Z", "end_date": "2024-03-04T00:00:00Z"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "customer.name")
	assert.Contains(t, rec.Body.String(), "end_date")
}

func TestCreateBooking_MalformedJSON(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/bookings", `{"items": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckAvailability(t *testing.T) {
	s := newServer(t)

	s.bookings.On("ListBookings", mock.Anything, mock.Anything).Return([]domain.Booking{existingBooking()}, nil)
	s.items.On("ListItems", mock.Anything).Return([]domain.Item{}, nil)

	rec := s.do(http.MethodPost, "/availability", `{
		"items": ["chair-1", "sofa-2"],
		"start_date": "2024-03-02T00:00:00Z",
		"end_date": "2024-03-04T00:00:00Z"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available": false, "busy_items": [{"id": "chair-1", "name": "chair-1"}]}`, rec.Body.String())
}

func TestCheckAvailability_StoreDownReturns503(t *testing.T) {
	s := newServer(t)

	s.bookings.On("ListBookings", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	rec := s.do(http.MethodPost, "/availability", `{
		"items": ["chair-1"],
		"start_date": "2024-03-02T00:00:00Z",
		"end_date": "2024-03-04T00:00:00Z"
	}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetBooking_NotFound(t *testing.T) {
	s := newServer(t)

	s.bookings.On("GetBooking", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	rec := s.do(http.MethodGet, "/bookings/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBookings_ParsesFilter(t *testing.T) {
	s := newServer(t)

	s.bookings.On("ListBookings", mock.Anything, mock.MatchedBy(func(f domain.BookingFilter) bool {
		return assert.ObjectsAreEqual([]domain.BookingStatus{domain.StatusConfirmed, domain.StatusPickedUp}, f.Statuses) &&
			f.EndsOnOrAfter != nil && f.EndsOnOrAfter.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			f.StartsOnOrBefore != nil && f.StartsOnOrBefore.Equal(time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC)) &&
			f.CustomerName == "Carlos"
	})).Return([]domain.Booking{existingBooking()}, nil)

	rec := s.do(http.MethodGet, "/bookings?status=confirmed,picked_up&from=2024-03-01&to=2024-03-31&customer=Carlos", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"b1"`)
}

func TestListBookings_BadDate(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/bookings?from=yesterday", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeStatus_RequiresStatus(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPatch, "/bookings/b1/status", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status"`)
}

func TestDeleteBooking(t *testing.T) {
	s := newServer(t)

	stored := existingBooking()
	s.bookings.On("GetBooking", mock.Anything, "b1").Return(&stored, nil)
	s.bookings.On("DeleteBooking", mock.Anything, "b1").Return(nil)

	rec := s.do(http.MethodDelete, "/bookings/b1", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
