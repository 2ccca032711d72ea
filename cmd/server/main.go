package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/invoice-dashboard/internal/config"
	"github.com/iliyamo/invoice-dashboard/internal/database"
	"github.com/iliyamo/invoice-dashboard/internal/handler"
	"github.com/iliyamo/invoice-dashboard/internal/logging"
	"github.com/iliyamo/invoice-dashboard/internal/middleware"
	"github.com/iliyamo/invoice-dashboard/internal/queue"
	"github.com/iliyamo/invoice-dashboard/internal/repository"
	"github.com/iliyamo/invoice-dashboard/internal/router"
	"github.com/iliyamo/invoice-dashboard/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logging.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancelMigrate()
		logging.Fatal().Err(err).Msg("migration failed")
	}
	cancelMigrate()

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb != nil {
		defer rdb.Close()
	}
	cache := middleware.NewViewCache(config.LoadCacheConfig(), rdb)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// invoice events are best effort: without a broker mutations still work
	var events service.EventPublisher
	if pub, err := queue.NewPublisher(cfg.RabbitMQURL, cfg.EventsQueue); err != nil {
		logging.Warn().Err(err).Msg("rabbitmq unavailable; invoice events disabled")
	} else {
		defer pub.Close()
		events = pub
	}
	go func() {
		consumer := queue.AuditConsumer{URL: cfg.RabbitMQURL, Queue: cfg.EventsQueue, LogPath: cfg.AuditLogPath}
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("audit consumer stopped")
		}
	}()

	users := repository.NewUserRepo(db)
	customers := repository.NewCustomerRepo(db)
	invoices := repository.NewInvoiceRepo(db)
	revenue := repository.NewRevenueRepo(db)

	authSvc := service.NewAuthService(users, cfg.BcryptCost)
	customerSvc := service.NewCustomerService(customers)
	querySvc := service.NewInvoiceQueryService(invoices, customers, revenue, cfg.ItemsPerPage)
	mutationSvc := service.NewInvoiceMutationService(invoices, cache, events)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())

	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc, cfg.JWTSecret, cfg.AccessTTLMin),
		Dashboard: handler.NewDashboardHandler(querySvc),
		Invoices:  handler.NewInvoiceHandler(querySvc, mutationSvc),
		Customers: handler.NewCustomerHandler(customerSvc),
	}, router.Middleware{
		JWTSecret:  cfg.JWTSecret,
		Cache:      cache,
		LoginLimit: middleware.NewLoginLimiter(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown failed")
	}
	logging.Info().Msg("server stopped")
}
