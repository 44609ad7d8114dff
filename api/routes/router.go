package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velora-health/medstock-backend/api/controllers"
	"github.com/velora-health/medstock-backend/api/middleware"
	"github.com/velora-health/medstock-backend/internal/notifications"
	"github.com/velora-health/medstock-backend/pkg/config"
	"github.com/velora-health/medstock-backend/pkg/db"
	"github.com/velora-health/medstock-backend/pkg/logger"
	"github.com/velora-health/medstock-backend/pkg/redis"
)

// RouterParams carries everything the ops API surface needs.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         redis.Pinger
	Registry      *prometheus.Registry
	Alerts        controllers.AlertsService
	Notifications notifications.Service
}

// NewRouter builds the read-only ops router.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, logg, params.DB, params.Redis))

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/alerts", controllers.ListAlerts(params.Alerts, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(params.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(params.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(params.Notifications, logg))
		})
	})

	return r
}
