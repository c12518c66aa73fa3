package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freelancehub/freelancehub-backend/api/controllers"
	"github.com/freelancehub/freelancehub-backend/api/middleware"
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
	"github.com/freelancehub/freelancehub-backend/pkg/realtime"
	"github.com/freelancehub/freelancehub-backend/pkg/redis"
)

// NewRouter wires every HTTP surface of the API process.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	hub *realtime.Hub,
	usersService users.Service,
	listingsService listings.Service,
	ordersService orders.Service,
	paymentsService payments.Service,
	analyticsService analytics.Service,
	notificationsService notifications.Service,
	chatService chat.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	paymentPolicy := middleware.NewRateLimitPolicy(
		"payment",
		cfg.RateLimit.PaymentWindow,
		cfg.RateLimit.PaymentUserLimit,
		cfg.RateLimit.PaymentIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(usersService, logg))
		r.Post("/login", controllers.AuthLogin(usersService, logg))
	})

	r.Route("/api/v1/listings", func(r chi.Router) {
		r.Get("/", controllers.ListingBrowse(listingsService, logg))
		r.Get("/{listingId}", controllers.ListingDetail(listingsService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Post("/", controllers.ListingCreate(listingsService, logg))
	})

	r.Get("/api/v1/trending", controllers.AnalyticsTrending(analyticsService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/users/me", controllers.Me(usersService, logg))
		r.Get("/users/{userId}/stats", controllers.AnalyticsUserStatsByID(analyticsService, logg))
		r.Get("/analytics/me", controllers.AnalyticsUserStats(analyticsService, logg))
		r.Get("/notifications", controllers.NotificationsFeed(notificationsService, logg))
		r.Get("/events", controllers.EventStream(hub, ordersService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			r.Post("/{orderId}/status", controllers.OrderTransition(ordersService, logg))

			r.With(middleware.RateLimit(paymentPolicy, redisClient, logg)).
				Post("/{orderId}/payments", controllers.PaymentSubmit(paymentsService, logg))
			r.Get("/{orderId}/payments", controllers.PaymentList(paymentsService, logg))

			r.Post("/{orderId}/chat", controllers.ChatSend(chatService, logg))
			r.Get("/{orderId}/chat", controllers.ChatHistory(chatService, logg))
		})
	})

	return r
}
