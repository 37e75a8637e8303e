package routes

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmruiz/floresta-backend/api/controllers"
	"github.com/dmruiz/floresta-backend/api/middleware"
	"github.com/dmruiz/floresta-backend/api/responses"
	"github.com/dmruiz/floresta-backend/internal/media"
	"github.com/dmruiz/floresta-backend/internal/product"
	"github.com/dmruiz/floresta-backend/pkg/config"
	pkgerrors "github.com/dmruiz/floresta-backend/pkg/errors"
	"github.com/dmruiz/floresta-backend/pkg/logger"
	"github.com/dmruiz/floresta-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	promRegistry *prometheus.Registry,
	mediaService media.Service,
	productService product.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	// Unmatched requests get the same error envelope as everything else.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("method %s not supported for this route", req.Method)))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if cfg.Metrics.Enabled && promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Post("/", controllers.CreateProduct(productService, logg))
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Get("/{id}", controllers.GetProduct(productService, logg))
		r.Patch("/{id}", controllers.UpdateProduct(productService, logg))
		r.Delete("/{id}", controllers.DeleteProduct(productService, logg))
	})

	r.Route("/api/v1/media", func(r chi.Router) {
		r.Post("/uploads", controllers.UploadMedia(mediaService, logg))
		r.Get("/", controllers.ListMedia(mediaService, logg))
		r.Get("/{id}", controllers.GetMedia(mediaService, logg))
		r.Patch("/{id}", controllers.UpdateMedia(mediaService, logg))
		r.Delete("/{id}", controllers.DeleteMedia(mediaService, logg))
		r.Post("/{id}/reorder", controllers.ReorderMedia(mediaService, logg))
	})

	// Serve stored files from the public directory under the same base URL
	// their locators carry.
	uploadsDir := filepath.Join(cfg.Storage.PublicDir, cfg.Storage.UploadsDirName)
	fileServer := http.StripPrefix(cfg.Storage.PublicBaseURL, http.FileServer(http.Dir(uploadsDir)))
	r.Get(cfg.Storage.PublicBaseURL+"/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}
