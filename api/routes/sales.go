package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rfarias/vehicle-sales-backend/api/controllers"
	"github.com/rfarias/vehicle-sales-backend/api/middleware"
	salesvc "github.com/rfarias/vehicle-sales-backend/internal/sales"
	"github.com/rfarias/vehicle-sales-backend/pkg/config"
	"github.com/rfarias/vehicle-sales-backend/pkg/logger"
	"github.com/rfarias/vehicle-sales-backend/pkg/metrics"
)

// NewSalesRouter wires the sales HTTP surface. The redis entry in deps may
// be nil when the idempotency guard is disabled.
func NewSalesRouter(
	cfg *config.Config,
	logg *logger.Logger,
	deps map[string]controllers.Pinger,
	saleService salesvc.Service,
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
		ready := controllers.HealthReady(cfg, logg, deps)
		r.Get("/", ready)
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", ready)
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/sales", func(r chi.Router) {
		r.Get("/", controllers.ListSales(saleService, logg))
		r.Post("/", controllers.CreateSale(saleService, logg))
		r.Post("/payment-webhook", controllers.SalePaymentWebhook(saleService, logg))
		r.Get("/{id}", controllers.GetSale(saleService, logg))
	})

	return r
}
