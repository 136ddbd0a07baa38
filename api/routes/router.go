package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swiftship/swiftship-backend/api/controllers"
	"github.com/swiftship/swiftship-backend/api/middleware"
	"github.com/swiftship/swiftship-backend/internal/auth"
	"github.com/swiftship/swiftship-backend/internal/finance"
	"github.com/swiftship/swiftship-backend/internal/notifications"
	"github.com/swiftship/swiftship-backend/internal/orders"
	"github.com/swiftship/swiftship-backend/internal/tenants"
	"github.com/swiftship/swiftship-backend/pkg/auth/session"
	"github.com/swiftship/swiftship-backend/pkg/config"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	"github.com/swiftship/swiftship-backend/pkg/logger"
	"github.com/swiftship/swiftship-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Pinger mirrors the dependency health surface every backing store exposes.
type Pinger interface {
	Ping(context.Context) error
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            Pinger
	Redis         *redis.Client
	Sessions      sessionManager
	Registry      *prometheus.Registry
	AuthService   auth.Service
	Register      auth.RegisterService
	Orders        orders.Service
	Finance       finance.Service
	Notifications notifications.Service
	Tenants       tenants.Service
}

// NewRouter builds the chi handler for the API binary.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

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

	pingers := map[string]controllers.Pinger{}
	if deps.DB != nil {
		pingers["database"] = deps.DB
	}
	if deps.Redis != nil {
		pingers["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg, pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.Register, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		r.Route("/orders", func(r chi.Router) {
			r.With(requireRoles(logg, enums.UserRoleMerchant, enums.UserRoleAdmin)).
				Post("/", controllers.OrderCreate(deps.Orders, logg))
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/tracking/{trackingCode}", controllers.OrderTrack(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.With(requireRoles(logg, enums.UserRoleAdmin, enums.UserRoleCourier, enums.UserRoleSuperAdmin)).
				Patch("/{orderId}/status", controllers.OrderUpdateStatus(deps.Orders, logg))
			r.With(requireRoles(logg, enums.UserRoleAdmin)).
				Patch("/{orderId}/assign", controllers.OrderAssign(deps.Orders, logg))
		})

		r.Route("/finance", func(r chi.Router) {
			r.Get("/merchants/{merchantId}/balance", controllers.MerchantBalance(deps.Finance, logg))
			r.Get("/couriers/{courierId}/wallet", controllers.CourierWallet(deps.Finance, logg))
			r.With(requireRoles(logg, enums.UserRoleAdmin, enums.UserRoleSuperAdmin)).
				Post("/couriers/{courierId}/deduct", controllers.CourierWalletDeduct(deps.Finance, logg))
			r.With(requireRoles(logg, enums.UserRoleAdmin, enums.UserRoleSuperAdmin)).
				Post("/merchants/{merchantId}/recalculate", controllers.MerchantBalanceRecalculate(deps.Finance, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})

		r.Route("/tenants", func(r chi.Router) {
			r.Use(requireRoles(logg, enums.UserRoleSuperAdmin))
			r.Post("/", controllers.TenantCreate(deps.Tenants, logg))
			r.Get("/", controllers.TenantList(deps.Tenants, logg))
			r.Get("/{tenantId}", controllers.TenantGet(deps.Tenants, logg))
		})
	})

	return r
}

func requireRoles(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	values := make([]string, 0, len(roles))
	for _, role := range roles {
		values = append(values, string(role))
	}
	return middleware.RequireRole(logg, values...)
}
