package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/autopark-suite/autopark/internal/accounts"
	"github.com/autopark-suite/autopark/internal/app"
	"github.com/autopark-suite/autopark/internal/authz"
	"github.com/autopark-suite/autopark/internal/depot/buses"
	"github.com/autopark-suite/autopark/internal/depot/buslines"
	"github.com/autopark-suite/autopark/internal/depot/employees"
	"github.com/autopark-suite/autopark/internal/depot/trips"
	"github.com/autopark-suite/autopark/internal/lookups"
	"github.com/autopark-suite/autopark/internal/observability"
	"github.com/autopark-suite/autopark/internal/platform/cache"
	"github.com/autopark-suite/autopark/internal/platform/db"
	"github.com/autopark-suite/autopark/internal/reports"
	"github.com/autopark-suite/autopark/internal/shared"
	"github.com/autopark-suite/autopark/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "autopark_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()

	grantStore := authz.NewStore(dbpool, authz.SeedPolicy{ReadAll: cfg.DefaultGrantReadAll})

	accountRepo := accounts.NewRepository(dbpool)
	accountService := accounts.NewService(accountRepo, grantStore, auditLogger, logger)

	authzMiddleware := authz.Middleware{
		Accounts: accountRepo,
		Grants:   grantStore,
		Logger:   logger,
	}

	accountsHandler := accounts.NewHandler(logger, accountService, sessionManager, authzMiddleware)
	permissionsHandler := authz.NewPermissionsHandler(logger, grantStore, accountRepo, auditLogger, authzMiddleware)

	busesHandler := buses.NewHandler(logger, buses.NewService(buses.NewRepository(dbpool)), authzMiddleware)
	routesHandler := buslines.NewHandler(logger, buslines.NewService(buslines.NewRepository(dbpool)), authzMiddleware)
	tripsHandler := trips.NewHandler(logger, trips.NewService(trips.NewRepository(dbpool)), authzMiddleware)
	employeesHandler := employees.NewHandler(logger, employees.NewService(employees.NewRepository(dbpool)), authzMiddleware)
	lookupsHandler := lookups.NewHandler(logger, lookups.NewService(lookups.NewRepository(dbpool)), authzMiddleware)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	reportsService := reports.NewService(dbpool, redisClient, logger)
	reportsHandler := reports.NewHandler(logger, reportsService, jobClient, authzMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		AuthzMiddleware:    authzMiddleware,
		AccountsHandler:    accountsHandler,
		PermissionsHandler: permissionsHandler,
		BusesHandler:       busesHandler,
		RoutesHandler:      routesHandler,
		TripsHandler:       tripsHandler,
		EmployeesHandler:   employeesHandler,
		LookupsHandler:     lookupsHandler,
		ReportsHandler:     reportsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
