package transport

import (
	"net/http"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/middleware"
	"amber-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductDetail is a product with the packs it can be ordered in
type ProductDetail struct {
	domain.Product
	Packs []domain.Pack `json:"packs"`
}

// CatalogHandler serves the product list screen
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/filter", h.Filter)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/packs", h.Packs)
	})
}

// List reloads the catalog from the backend. A failed load still answers
// 200 with an empty list and a notice.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var view service.CatalogView
	switch {
	case q.Get("search") != "":
		view = h.catalog.Search(r.Context(), q.Get("search"))
	case q.Get("category") != "" && q.Get("page") == "" && q.Get("limit") == "":
		view = h.catalog.FilterCategory(r.Context(), q.Get("category"))
	default:
		view = h.catalog.Load(r.Context(), backend.ProductQuery{
			Category: q.Get("category"),
			Page:     queryInt(r, "page"),
			Limit:    queryInt(r, "limit"),
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// Filter narrows the loaded catalog without contacting the backend.
func (h *CatalogHandler) Filter(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Filter(r.URL.Query().Get("q"))
	middleware.RespondWithJSON(w, http.StatusOK, service.CatalogView{Products: products})
}

// Get returns one product of the loaded catalog.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, ok := h.catalog.Lookup(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithServiceError(w, h.logger, service.ErrProductNotFound)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ProductDetail{Product: product, Packs: product.Packs()})
}

func (h *CatalogHandler) Packs(w http.ResponseWriter, r *http.Request) {
	packs, err := h.catalog.Packs(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"packs": packs})
}
