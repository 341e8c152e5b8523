package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/core/services"
)

type Handlers struct {
	Bookings *BookingHandler
	Catalog  *CatalogHandler
	Reports  *ReportHandler
	Health   *HealthHandler
}

// NewServer builds the echo instance with every route registered.
func NewServer(h Handlers, gatherer prometheus.Gatherer, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = services.StructValidator{}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.GET("/health", h.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	e.POST("/availability", h.Bookings.CheckAvailability)

	bookings := e.Group("/bookings")
	bookings.GET("", h.Bookings.ListBookings)
	bookings.POST("", h.Bookings.CreateBooking)
	bookings.GET("/:id", h.Bookings.GetBooking)
	bookings.PUT("/:id", h.Bookings.UpdateBooking)
	bookings.PATCH("/:id/status", h.Bookings.ChangeStatus)
	bookings.DELETE("/:id", h.Bookings.DeleteBooking)

	items := e.Group("/items")
	items.GET("", h.Catalog.ListItems)
	items.POST("", h.Catalog.CreateItem)
	items.GET("/:id", h.Catalog.GetItem)
	items.PUT("/:id", h.Catalog.UpdateItem)
	items.DELETE("/:id", h.Catalog.DeleteItem)

	categories := e.Group("/categories")
	categories.GET("", h.Catalog.ListCategories)
	categories.POST("", h.Catalog.CreateCategory)
	categories.PUT("/:id", h.Catalog.RenameCategory)
	categories.DELETE("/:id", h.Catalog.DeleteCategory)

	clients := e.Group("/clients")
	clients.GET("", h.Catalog.ListClients)
	clients.POST("", h.Catalog.CreateClient)
	clients.GET("/:id", h.Catalog.GetClient)
	clients.PUT("/:id", h.Catalog.UpdateClient)
	clients.DELETE("/:id", h.Catalog.DeleteClient)
	clients.GET("/:id/stats", h.Catalog.ClientStats)

	e.GET("/reports/summary", h.Reports.Summary)

	return e
}
