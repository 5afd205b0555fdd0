package transport

import (
	"net/http"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/middleware"
	"amber-storefront/internal/order"
	"amber-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatusChangeRequest moves an order to Status. Current is optional; when
// empty the order is fetched first.
type StatusChangeRequest struct {
	Status  string `json:"status" validate:"required"`
	Current string `json:"current"`
}

// OrderDetail is an order with its display label and admin actions
type OrderDetail struct {
	domain.Order
	StatusLabel string         `json:"statusLabel"`
	Actions     []order.Action `json:"actions"`
}

// OrderHandler handles order history and admin order management
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.logger))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.logger))
			r.Put("/{id}/status", h.UpdateStatus)
			r.Post("/{id}/cancel", h.Cancel)
		})
	})
}

// List returns one page of orders. status=all or no status lists everything.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.orders.List(r.Context(), backend.OrderQuery{
		Status: r.URL.Query().Get("status"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	})
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, page)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, OrderDetail{
		Order:       o,
		StatusLabel: order.Label(o.Status),
		Actions:     h.orders.Actions(o),
	})
}

// UpdateStatus applies an allowed transition.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusChangeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	message, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Current), target)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": message,
		"status":  string(target),
	})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	current := r.URL.Query().Get("current")
	message, err := h.orders.Cancel(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(current))
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": message,
		"status":  string(domain.StatusCancelled),
	})
}
