package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/otel/metric"

	"gowms/internal/api/customer"
	"gowms/internal/api/inventory"
	"gowms/internal/api/order"
	"gowms/internal/api/product"
	"gowms/internal/api/shipment"
	"gowms/internal/api/user"
	"gowms/internal/api/warehouse"
	"gowms/internal/domain"
	"gowms/internal/pkg/cache"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/middleware"
)

// Handlers agrupa os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Product   *product.Handler
	Warehouse *warehouse.Handler
	Inventory *inventory.Handler
	Customer  *customer.Handler
	Order     *order.Handler
	Shipment  *shipment.Handler
	User      *user.Handler
}

// Options controla os middlewares globais. Cache nil desativa o rate limit.
type Options struct {
	TokenService    middleware.TokenService
	Cache           cache.Client
	RateLimit       int
	RateLimitWindow time.Duration

	// TrustProxy aceita X-Forwarded-For/X-Real-IP como IP do cliente.
	// Só deve ser ligado atrás de um proxy que reescreve esses headers.
	TrustProxy bool

	// Meter nil desliga as métricas HTTP. MetricsHandler é exposto em /metrics.
	Meter          metric.Meter
	MetricsHandler http.Handler

	Logger logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.AccessLog(opts.Logger))
	if opts.Meter != nil {
		mw, err := middleware.Metrics(opts.Meter)
		if err != nil {
			opts.Logger.Error("Falha ao criar instrumentos de métricas HTTP. Seguindo sem métricas.", err)
		} else {
			r.Use(mw)
		}
	}
	r.Use(chimw.Recoverer)

	r.Get("/ping", PingHandler)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	auth := middleware.NewAuthMiddleware(opts.TokenService)
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)

	r.Route("/v1", func(r chi.Router) {
		if opts.Cache != nil {
			r.Use(middleware.RateLimiter(opts.Cache, opts.RateLimit, opts.RateLimitWindow, opts.Logger))
		}

		r.Post("/register", h.User.RegisterUserHandler)
		r.Post("/login", h.User.LoginUserHandler)
		r.With(auth).Get("/me", h.User.MeHandler)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Product.GetProductsHandler)
			r.Get("/{id}", h.Product.GetProductByIDHandler)
			r.With(auth).Post("/", h.Product.CreateProductHandler)
			r.With(auth).Put("/{id}", h.Product.UpdateProductHandler)
			r.With(auth, adminOnly).Delete("/{id}", h.Product.DeleteProductHandler)
		})

		r.Route("/warehouses", func(r chi.Router) {
			r.Get("/", h.Warehouse.ListWarehousesHandler)
			r.Get("/stats", h.Warehouse.StatsHandler)
			r.Get("/{id}", h.Warehouse.GetWarehouseHandler)
			r.Get("/{id}/inventory-summary", h.Warehouse.InventorySummaryHandler)
			r.With(auth).Post("/", h.Warehouse.CreateWarehouseHandler)
			r.With(auth).Put("/{id}", h.Warehouse.UpdateWarehouseHandler)
			r.With(auth, adminOnly).Delete("/{id}", h.Warehouse.DeleteWarehouseHandler)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.Inventory.ListInventoryHandler)
			r.Get("/{id}", h.Inventory.GetInventoryHandler)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", h.Inventory.CreateInventoryHandler)
				r.Put("/{id}", h.Inventory.UpdateInventoryHandler)
				r.Post("/{id}/adjust", h.Inventory.AdjustInventoryHandler)
				r.Delete("/{id}", h.Inventory.DeleteInventoryHandler)
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.Customer.ListCustomersHandler)
			r.Get("/{id}", h.Customer.GetCustomerHandler)
			r.With(auth).Post("/", h.Customer.CreateCustomerHandler)
			r.With(auth).Put("/{id}", h.Customer.UpdateCustomerHandler)
			r.With(auth, adminOnly).Delete("/{id}", h.Customer.DeleteCustomerHandler)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Order.ListOrdersHandler)
			r.Get("/stats", h.Order.OrderStatsHandler)
			r.Get("/statuses", h.Order.OrderStatusesHandler)
			r.Get("/{id}", h.Order.GetOrderHandler)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", h.Order.CreateOrderHandler)
				r.Put("/{id}/status", h.Order.UpdateOrderStatusHandler)
				r.Post("/{id}/cancel", h.Order.CancelOrderHandler)
				r.With(adminOnly).Delete("/{id}", h.Order.DeleteOrderHandler)
			})
		})

		r.Route("/shipments", func(r chi.Router) {
			r.Get("/", h.Shipment.ListShipmentsHandler)
			r.Get("/{id}", h.Shipment.GetShipmentHandler)
			r.With(auth).Post("/", h.Shipment.CreateShipmentHandler)
			r.With(auth).Put("/{id}/status", h.Shipment.UpdateShipmentStatusHandler)
		})
	})

	return r
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
