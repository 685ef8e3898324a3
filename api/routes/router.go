package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mobelhaus/showroom-backend/api/controllers"
	"github.com/mobelhaus/showroom-backend/api/middleware"
	"github.com/mobelhaus/showroom-backend/internal/catalog"
	"github.com/mobelhaus/showroom-backend/internal/invoices"
	"github.com/mobelhaus/showroom-backend/internal/media"
	"github.com/mobelhaus/showroom-backend/pkg/config"
	"github.com/mobelhaus/showroom-backend/pkg/db"
	"github.com/mobelhaus/showroom-backend/pkg/enums"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
	"github.com/mobelhaus/showroom-backend/pkg/redis"
	"github.com/mobelhaus/showroom-backend/pkg/storage/gcs"
)

// RouterParams carry everything the HTTP surface needs. Media may be nil
// when object storage is not configured; its routes then return 500s
// instead of panicking at boot.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	GCS      gcs.Pinger
	Catalog  catalog.Service
	Invoices invoices.Service
	Media    media.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis, p.GCS))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.PublicCatalog(p.Catalog, logg))
			r.Get("/floor-samples", controllers.FloorSamples(p.Catalog, cfg.Catalog, logg))
			r.Get("/online-inventory", controllers.OnlineInventory(p.Catalog, logg))
			r.Get("/featured", controllers.Featured(p.Catalog, logg))
		})
		r.Get("/products/{productId}", controllers.ProductDetail(p.Catalog, logg))
		r.Get("/subcategories", controllers.ListSubcategories(p.Catalog, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.StaffRoleAdmin, logg))

		r.Get("/catalog", controllers.AdminCatalog(p.Catalog, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(p.Catalog, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(p.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(p.Catalog, logg))
		})

		r.Route("/subcategories", func(r chi.Router) {
			r.Get("/", controllers.AdminListSubcategories(p.Catalog, logg))
			r.Post("/", controllers.AdminCreateSubcategory(p.Catalog, logg))
			r.Delete("/{subcategoryId}", controllers.AdminDeleteSubcategory(p.Catalog, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.AdminListInvoices(p.Invoices, logg))
			r.Post("/", controllers.AdminCreateInvoice(p.Invoices, logg))
			r.Get("/{invoiceId}", controllers.AdminGetInvoice(p.Invoices, logg))
			r.Put("/{invoiceId}", controllers.AdminUpdateInvoice(p.Invoices, logg))
			r.Delete("/{invoiceId}", controllers.AdminDeleteInvoice(p.Invoices, logg))
		})

		r.Post("/media", controllers.AdminUploadMedia(p.Media, logg))
	})

	return r
}
