package transport

import (
	"net/http"

	"amber-storefront/internal/middleware"
	"amber-storefront/internal/service"
	"amber-storefront/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler serves the admin product editor and the sales report
type AdminHandler struct {
	products service.AdminProductService
	reports  service.ReportService
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(products service.AdminProductService, reports service.ReportService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		products: products,
		reports:  reports,
		logger:   logger,
	}
}

// RegisterRoutes registers all admin routes
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.logger))

		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
		r.Get("/reports/sales", h.SalesReport)
	})
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var form validation.ProductForm
	if err := middleware.Decode(r, &form); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	result, err := h.products.Create(r.Context(), form)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var form validation.ProductForm
	if err := middleware.Decode(r, &form); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	result, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	message, err := h.products.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}

// SalesReport aggregates sold orders over ?range= (1day, 7days, 30days, 90days).
func (h *AdminHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	rangeKey := r.URL.Query().Get("range")
	if rangeKey == "" {
		rangeKey = service.DefaultRange
	}

	report, err := h.reports.Sales(r.Context(), rangeKey)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, report)
}
