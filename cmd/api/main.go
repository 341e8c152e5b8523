package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/srgjo27/party_rental/internal/adapter/cache"
	"github.com/srgjo27/party_rental/internal/adapter/events"
	"github.com/srgjo27/party_rental/internal/adapter/handler"
	"github.com/srgjo27/party_rental/internal/adapter/repository/gormrepo"
	"github.com/srgjo27/party_rental/internal/adapter/repository/postgres"
	"github.com/srgjo27/party_rental/internal/core/domain"
	"github.com/srgjo27/party_rental/internal/core/ports"
	"github.com/srgjo27/party_rental/internal/core/services"
	"github.com/srgjo27/party_rental/internal/platform/config"
	"github.com/srgjo27/party_rental/internal/platform/database"
	"github.com/srgjo27/party_rental/internal/platform/logger"
	"github.com/srgjo27/party_rental/internal/platform/metrics"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(ctx, database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	}, log)
	if err != nil {
		log.Fatal("Failed to connect to db after retries", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("Failed to migrate booking tables", zap.Error(err))
	}

	gormDB, err := database.NewGorm(db)
	if err != nil {
		log.Fatal("Failed to open gorm session", zap.Error(err))
	}
	if err := gormrepo.AutoMigrate(gormDB); err != nil {
		log.Fatal("Failed to migrate catalog tables", zap.Error(err))
	}

	var (
		locker    ports.ItemLocker     = cache.NoopLocker{}
		itemCache ports.ItemCache      = cache.NoopItemCache{}
		publisher ports.EventPublisher = events.NoopPublisher{}
	)

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("Redis connected successfully", zap.String("addr", cfg.RedisAddr))
		locker = cache.NewItemLocker(redisClient, cfg.ItemLockTTL, log)
		itemCache = cache.NewItemCache(redisClient, cfg.ItemCacheTTL)
	} else {
		log.Warn("REDIS_ADDR not set, item locks and cache disabled")
	}

	if cfg.RabbitMQURL != "" {
		p, err := events.NewPublisher(cfg.RabbitMQURL, log)
		if err != nil {
			log.Warn("RabbitMQ unavailable, booking events disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	lifecycle := domain.PermissiveLifecycle()
	if cfg.StrictLifecycle {
		lifecycle = domain.StrictLifecycle()
	}

	bookingRepo := postgres.NewBookingRepository(db)
	itemRepo := gormrepo.NewItemRepository(gormDB, log)
	categoryRepo := gormrepo.NewCategoryRepository(gormDB, log)
	clientRepo := gormrepo.NewClientRepository(gormDB, log)

	availabilityService := services.NewAvailabilityService(bookingRepo, cfg.AvailabilityTimeout, m, log)
	catalogService := services.NewCatalogService(itemRepo, categoryRepo, clientRepo, bookingRepo, itemCache, log)
	bookingService := services.NewBookingService(bookingRepo, availabilityService, catalogService, locker, publisher, lifecycle, m, log)
	reportService := services.NewReportService(bookingRepo)
	auditService := services.NewAuditService(bookingRepo, m, log)

	go auditService.RunBackgroundAudit(ctx, cfg.AuditInterval)

	e := handler.NewServer(handler.Handlers{
		Bookings: handler.NewBookingHandler(bookingService, availabilityService, catalogService, log),
		Catalog:  handler.NewCatalogHandler(catalogService, log),
		Reports:  handler.NewReportHandler(reportService, log),
		Health:   handler.NewHealthHandler(db),
	}, reg, log)

	e.Server.ReadTimeout = 5 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 120 * time.Second

	go func() {
		log.Info("Server starting", zap.String("port", cfg.HTTPPort))
		if err := e.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server startup failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Server exiting")
}
