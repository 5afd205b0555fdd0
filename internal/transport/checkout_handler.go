package transport

import (
	"net/http"

	"amber-storefront/internal/messaging"
	"amber-storefront/internal/middleware"
	"amber-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest is the checkout form. WhatsAppInstalled tells whether the
// shell can open whatsapp:// links; when absent the link is only returned.
type CheckoutRequest struct {
	Address           string                  `json:"address"`
	AdditionalInfo    string                  `json:"additionalInfo"`
	PaymentMethod     messaging.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=qr card whatsapp"`
	WhatsAppInstalled *bool                   `json:"whatsappInstalled"`
}

// CheckoutResponse is the placed order plus the URL the shell should open
type CheckoutResponse struct {
	service.CheckoutResult
	OpenURL string `json:"openUrl,omitempty"`
}

// CheckoutHandler handles order placement
type CheckoutHandler struct {
	checkout service.CheckoutService
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

// RegisterRoutes registers the checkout route behind limiter
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	r.With(limiter).Post("/api/checkout", h.PlaceOrder)
}

// PlaceOrder registers the cart as an order and hands it to WhatsApp.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	in := service.CheckoutRequest{
		Address:        req.Address,
		AdditionalInfo: req.AdditionalInfo,
		PaymentMethod:  req.PaymentMethod,
	}
	var launcher *messaging.HandoffLauncher
	if req.WhatsAppInstalled != nil {
		launcher = messaging.NewHandoffLauncher(*req.WhatsAppInstalled)
		in.Launcher = launcher
	}

	result, err := h.checkout.PlaceOrder(r.Context(), in)
	if err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	resp := CheckoutResponse{CheckoutResult: result}
	if launcher != nil {
		resp.OpenURL = launcher.Opened()
	}
	middleware.RespondWithJSON(w, http.StatusCreated, resp)
}
