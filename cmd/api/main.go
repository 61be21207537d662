package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bulkbuddy/bulkbuddy-backend/api/routes"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/auth"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/catalog"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/notifications"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/orders"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/reviews"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/users"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/ai"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/auth/session"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/config"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/logger"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/metrics"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/migrate"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	operationMetrics := metrics.NewOperationMetrics(prometheus.DefaultRegisterer)
	contentClient := ai.New(cfg.ContentAI)

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	contributionsRepo := orders.NewRepository(dbClient.DB())
	reviewsRepo := reviews.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:    catalogRepo,
		Content: contentClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Products:      catalogRepo,
		Contributions: contributionsRepo,
		Notifications: notificationsRepo,
		DBClient:      dbClient,
		Logger:        logg,
		Metrics:       operationMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviews.ServiceParams{
		Reviews:       reviewsRepo,
		Products:      catalogRepo,
		Users:         usersRepo,
		Notifications: notificationsRepo,
		DBClient:      dbClient,
		Logger:        logg,
		Metrics:       operationMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			catalogService,
			ordersService,
			reviewsService,
			notificationsService,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		logg.Info(ctx, "shutting down api server")
		timeout, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeout); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
