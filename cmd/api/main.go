package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/freelancehub/freelancehub-backend/api/routes"
	"github.com/freelancehub/freelancehub-backend/internal/analytics"
	"github.com/freelancehub/freelancehub-backend/internal/chat"
	"github.com/freelancehub/freelancehub-backend/internal/listings"
	"github.com/freelancehub/freelancehub-backend/internal/notifications"
	"github.com/freelancehub/freelancehub-backend/internal/orders"
	"github.com/freelancehub/freelancehub-backend/internal/payments"
	"github.com/freelancehub/freelancehub-backend/internal/users"
	"github.com/freelancehub/freelancehub-backend/pkg/config"
	"github.com/freelancehub/freelancehub-backend/pkg/db"
	"github.com/freelancehub/freelancehub-backend/pkg/logger"
	"github.com/freelancehub/freelancehub-backend/pkg/metrics"
	"github.com/freelancehub/freelancehub-backend/pkg/migrate"
	"github.com/freelancehub/freelancehub-backend/pkg/realtime"
	"github.com/freelancehub/freelancehub-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	hub := realtime.NewHub(metrics.NewHubMetrics(prometheus.DefaultRegisterer))

	usersRepo := users.NewRepository(dbClient.DB())
	listingsRepo := listings.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	paymentsRepo := payments.NewRepository(dbClient.DB())

	usersService, err := users.NewService(users.ServiceParams{
		Repo:        usersRepo,
		PasswordCfg: cfg.Password,
		JWTCfg:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	listingsService, err := listings.NewService(listingsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     ordersRepo,
		Listings: listingsRepo,
		Tx:       dbClient,
		Events:   hub,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Repo:   paymentsRepo,
		Orders: ordersRepo,
		Tx:     dbClient,
		Events: hub,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.ServiceParams{
		Repo:       analytics.NewRepository(dbClient.DB()),
		Users:      usersRepo,
		WindowDays: cfg.Trending.WindowDays,
		TopN:       cfg.Trending.TopN,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.ServiceParams{
		Orders: ordersRepo,
		Events: hub,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
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
			hub,
			usersService,
			listingsService,
			ordersService,
			paymentsService,
			analyticsService,
			notificationsService,
			chatService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
