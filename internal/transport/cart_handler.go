package transport

import (
	"net/http"

	"amber-storefront/internal/middleware"
	"amber-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartLineRequest adds units of a product; quantity 0 means one unit
type CartLineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Pack      string `json:"pack"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=999"`
}

// CartQuantityRequest sets a line's quantity. Zero or less removes the line.
type CartQuantityRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Pack      string `json:"pack"`
	Quantity  int    `json:"quantity" validate:"lte=999"`
}

// CartHandler handles HTTP requests for the device cart
type CartHandler struct {
	cart   service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cart:   cart,
		logger: logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.View)
		r.Delete("/", h.Clear)
		r.Post("/items", h.Add)
		r.Put("/items", h.UpdateQuantity)
		r.Delete("/items/{productID}", h.Remove)
	})
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.cart.View())
}

// Add puts a product in the cart, merging with an existing line.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req CartLineRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	snapshot, err := h.cart.Add(req.ProductID, req.Pack, req.Quantity)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, snapshot)
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req CartQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.cart.UpdateQuantity(req.ProductID, req.Pack, req.Quantity))
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	snapshot := h.cart.Remove(chi.URLParam(r, "productID"), r.URL.Query().Get("pack"))
	middleware.RespondWithJSON(w, http.StatusOK, snapshot)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	middleware.RespondWithJSON(w, http.StatusOK, h.cart.View())
}
