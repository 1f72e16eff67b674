package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avelinestudio/aveline-backend/api/controllers"
	"github.com/avelinestudio/aveline-backend/api/middleware"
	"github.com/avelinestudio/aveline-backend/internal/catalog"
	"github.com/avelinestudio/aveline-backend/internal/cms"
	"github.com/avelinestudio/aveline-backend/internal/media"
	"github.com/avelinestudio/aveline-backend/internal/orders"
	"github.com/avelinestudio/aveline-backend/internal/session"
	"github.com/avelinestudio/aveline-backend/pkg/auth"
	"github.com/avelinestudio/aveline-backend/pkg/config"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *session.Registry
	Catalog  *catalog.Service
	Admin    *catalog.AdminService
	CMS      *cms.Service
	Media    *media.Service
	Orders   *orders.Service
	Pingers  map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
}

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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, logg))

		r.Route("/catalog/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(deps.Catalog, logg))
			r.Get("/{handle}", controllers.ProductGet(deps.Catalog, deps.CMS, logg))
		})

		r.Route("/cms", func(r chi.Router) {
			r.Get("/homepage", controllers.HomepageGet(deps.CMS, logg))
			r.Get("/products/{productID}", controllers.ProductOverrideGet(deps.CMS, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Registry, logg))
			r.Delete("/", controllers.CartClear(deps.Registry, logg))
			r.Post("/items", controllers.CartAddItem(deps.Registry, logg))
			r.Patch("/items", controllers.CartUpdateItem(deps.Registry, logg))
			r.Delete("/items", controllers.CartRemoveItem(deps.Registry, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(deps.Registry, logg))
			r.Delete("/", controllers.WishlistClear(deps.Registry, logg))
			r.Post("/items", controllers.WishlistAdd(deps.Registry, logg))
			r.Post("/toggle", controllers.WishlistToggle(deps.Registry, logg))
			r.Delete("/items/{productID}", controllers.WishlistRemove(deps.Registry, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(deps.Registry, logg))
			r.Put("/", controllers.ProfileUpdate(deps.Registry, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireUser(logg))
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Post("/", controllers.OrderCreate(deps.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(deps.Orders, logg))
		})

		r.Post("/media/images", controllers.MediaUpload(deps.Media, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, logg))
		r.Use(middleware.RequireRole(auth.RoleAdmin, logg))

		r.Route("/cms", func(r chi.Router) {
			r.Put("/homepage", controllers.HomepageUpdate(deps.CMS, logg))
			r.Put("/products/{productID}", controllers.ProductOverrideSet(deps.CMS, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(deps.Admin, logg))
			r.Patch("/{productID}", controllers.AdminProductUpdate(deps.Admin, logg))
			r.Delete("/{productID}", controllers.AdminProductDelete(deps.Admin, logg))
		})

		r.Delete("/media/images/*", controllers.MediaDelete(deps.Media, logg))
	})

	return r
}
