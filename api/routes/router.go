package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asimbashir/bazario-backend/api/controllers"
	cartcontrollers "github.com/asimbashir/bazario-backend/api/controllers/cart"
	"github.com/asimbashir/bazario-backend/api/middleware"
	authsvc "github.com/asimbashir/bazario-backend/internal/auth"
	cartsvc "github.com/asimbashir/bazario-backend/internal/cart"
	checkoutsvc "github.com/asimbashir/bazario-backend/internal/checkout"
	"github.com/asimbashir/bazario-backend/internal/orders"
	product "github.com/asimbashir/bazario-backend/internal/products"
	"github.com/asimbashir/bazario-backend/pkg/config"
	"github.com/asimbashir/bazario-backend/pkg/db"
	"github.com/asimbashir/bazario-backend/pkg/logger"
	"github.com/asimbashir/bazario-backend/pkg/metrics"
	pkgredis "github.com/asimbashir/bazario-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP pkgredis.Pinger,
	idemStore pkgredis.IdempotencyStore,
	guestStore pkgredis.GuestSessionStore,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	authService authsvc.Service,
	productService product.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.Idempotency(idemStore, logg))
			r.Post("/login", controllers.AuthLogin(authService, cfg.Guest, logg))
			r.Post("/register", controllers.AuthRegister(authService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productService, logg))
			r.Get("/{productId}", controllers.ProductDetail(productService, logg))
			r.Post("/{productId}/quote", controllers.ProductQuote(productService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(cfg.JWT, cfg.Guest, guestStore, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(cartService, logg))
				r.Delete("/", cartcontrollers.CartClear(cartService, logg))
				r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
				r.Patch("/items/{itemKey}", cartcontrollers.CartUpdateQuantity(cartService, logg))
				r.Delete("/items/{itemKey}", cartcontrollers.CartRemoveItem(cartService, logg))
				r.Delete("/products/{productId}/variants/{value}", cartcontrollers.CartRemoveVariantValue(cartService, logg))
				r.Post("/sync", cartcontrollers.CartSync(cartService, logg))
				r.With(middleware.RequireUser(logg)).Post("/merge", cartcontrollers.CartMerge(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			})
		})
	})

	return r
}
