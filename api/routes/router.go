package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bulkbuddy/bulkbuddy-backend/api/controllers"
	"github.com/bulkbuddy/bulkbuddy-backend/api/middleware"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/auth"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/catalog"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/notifications"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/orders"
	"github.com/bulkbuddy/bulkbuddy-backend/internal/reviews"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/auth/session"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/config"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/logger"
)

// Cache is the slice of the redis client the router hands to the auth
// rate limiter and the readiness probe.
type Cache interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// NewRouter assembles the HTTP surface: health probes, metrics, public
// catalog reads, and the authenticated marketplace routes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache Cache,
	sessions session.AccessSessionChecker,
	authService auth.Service,
	catalogService catalog.Service,
	ordersService orders.Service,
	reviewsService reviews.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, cache))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	requireAuth := middleware.Auth(cfg.JWT, sessions, logg)
	optionalAuth := middleware.OptionalAuth(cfg.JWT, sessions, logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, cache, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, cache, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(requireAuth).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.With(optionalAuth).Get("/", controllers.ListProducts(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, middleware.RequireRole(enums.UserRoleSupplier, logg))
			r.Post("/", controllers.CreateListing(catalogService, logg))
			r.Get("/mine", controllers.ListMyListings(catalogService, logg))
			r.Delete("/{productId}", controllers.DeleteListing(catalogService, logg))
			r.Post("/{productId}/status", controllers.SetOrderStatus(ordersService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, middleware.RequireRole(enums.UserRoleVendor, logg))
			r.Get("/contributed", controllers.ListContributedOrders(catalogService, logg))
			r.Post("/{productId}/contributions", controllers.JoinOrder(ordersService, logg))
			r.Post("/{productId}/reviews", controllers.AddReview(reviewsService, logg))
		})

		r.With(optionalAuth).Get("/{productId}", controllers.GetProduct(catalogService, logg))
	})

	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.ListNotifications(notificationsService, logg))
		r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
		r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
	})

	return r
}
