package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/marketplace-checkout/api/controllers"
	"github.com/angelmondragon/marketplace-checkout/api/middleware"
	checkoutsvc "github.com/angelmondragon/marketplace-checkout/internal/checkout"
	"github.com/angelmondragon/marketplace-checkout/internal/orders"
	"github.com/angelmondragon/marketplace-checkout/pkg/config"
	"github.com/angelmondragon/marketplace-checkout/pkg/logger"
)

type checkoutService interface {
	Complete(ctx context.Context, cartID uuid.UUID) (*checkoutsvc.Result, error)
}

type orderSetService interface {
	GetOrderSetDetail(ctx context.Context, id uuid.UUID) (*orders.OrderSetDetail, error)
}

// NewRouter wires the store routes, probes and metrics. redisP may be nil when
// no lock store is configured.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	checkoutService checkoutService,
	orderSets orderSetService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	deps := map[string]controllers.Pinger{"db": dbP}
	if redisP != nil {
		deps["redis"] = redisP
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg, deps))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/store", func(r chi.Router) {
		r.Post("/carts/{cartId}/complete", controllers.CompleteCart(checkoutService, logg))
		r.Get("/order-sets/{id}", controllers.GetOrderSet(orderSets, logg))
	})

	return r
}
