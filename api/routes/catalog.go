package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rfarias/vehicle-sales-backend/api/controllers"
	"github.com/rfarias/vehicle-sales-backend/api/middleware"
	vehiclesvc "github.com/rfarias/vehicle-sales-backend/internal/vehicles"
	"github.com/rfarias/vehicle-sales-backend/pkg/config"
	"github.com/rfarias/vehicle-sales-backend/pkg/logger"
	"github.com/rfarias/vehicle-sales-backend/pkg/metrics"
)

// NewCatalogRouter wires the catalog HTTP surface.
func NewCatalogRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db controllers.Pinger,
	vehicleService vehiclesvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	var requestMetrics *metrics.RequestMetrics
	if registry != nil {
		requestMetrics = metrics.NewRequestMetrics(registry)
	}
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(requestMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		ready := controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": db,
		})
		r.Get("/", ready)
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", ready)
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/vehicles", func(r chi.Router) {
		r.Get("/", controllers.ListVehicles(vehicleService, logg))
		r.Post("/", controllers.RegisterVehicle(vehicleService, logg))
		r.Get("/available", controllers.ListAvailableVehicles(vehicleService, logg))
		r.Get("/sold", controllers.ListSoldVehicles(vehicleService, logg))
		r.Get("/search", controllers.SearchVehicles(vehicleService, logg))
		r.Post("/payment-webhook", controllers.VehiclePaymentWebhook(vehicleService, logg))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.GetVehicle(vehicleService, logg))
			r.Put("/", controllers.UpdateVehicle(vehicleService, logg))
			r.Delete("/", controllers.DeleteVehicle(vehicleService, logg))
		})
	})

	return r
}
