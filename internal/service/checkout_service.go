package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/config"
	"amber-storefront/internal/messaging"
	"amber-storefront/internal/session"
	"amber-storefront/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutRequest is what the customer confirms on the checkout screen.
// Launcher opens the WhatsApp link; without one the link is only returned.
type CheckoutRequest struct {
	Address        string
	AdditionalInfo string
	PaymentMethod  messaging.PaymentMethod
	Launcher       messaging.Launcher
}

// CheckoutResult is the outcome of a placed order
type CheckoutResult struct {
	OrderID  string              `json:"orderId"`
	Total    decimal.Decimal     `json:"total"`
	Message  string              `json:"message"`
	Link     messaging.Link      `json:"link"`
	Delivery *messaging.Delivery `json:"delivery,omitempty"`
	Sent     bool                `json:"sent"`
	Notice   Notice              `json:"notice"`
}

// CheckoutService defines the interface for placing orders
type CheckoutService interface {
	PlaceOrder(ctx context.Context, req CheckoutRequest) (CheckoutResult, error)
}

type checkoutService struct {
	api      backend.API
	session  *session.Store
	cart     CartService
	business config.BusinessConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	api backend.API,
	sess *session.Store,
	cartSvc CartService,
	business config.BusinessConfig,
	log *zap.Logger,
) CheckoutService {
	return &checkoutService{
		api:      api,
		session:  sess,
		cart:     cartSvc,
		business: business,
		logger:   log.Named("checkout"),
		now:      time.Now,
	}
}

// PlaceOrder registers the cart as an order with the backend, then hands
// the order text to WhatsApp. Once the backend accepts the order the cart is
// cleared, whether or not WhatsApp could be opened.
func (s *checkoutService) PlaceOrder(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	req.Address = strings.TrimSpace(req.Address)
	if err := validation.Validate(validation.CheckoutForm{Address: req.Address}); err != nil {
		return CheckoutResult{}, err
	}

	state := s.session.State()
	token, err := s.session.Token()
	if err != nil || state.User == nil {
		return CheckoutResult{}, &AlertError{
			Notice: Notice{
				Title: "Inicio de sesión requerido",
				Body:  "Debes iniciar sesión para realizar un pedido.",
			},
			Err: ErrNotAuthenticated,
		}
	}

	snap := s.cart.View()
	if len(snap.Items) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	input := backend.OrderInput{
		Items:           make([]backend.OrderItemInput, 0, len(snap.Items)),
		DeliveryAddress: req.Address,
		AdditionalInfo:  strings.TrimSpace(req.AdditionalInfo),
	}
	for _, item := range snap.Items {
		input.Items = append(input.Items, backend.OrderItemInput{ProductID: item.ID, Quantity: item.Quantity})
	}

	created, err := s.api.CreateOrder(ctx, token, input)
	if err != nil {
		s.logger.Error("Failed to create order",
			zap.Int("lines", len(input.Items)),
			zap.Error(err),
		)
		return CheckoutResult{}, orderAlert(err)
	}

	s.logger.Info("Order created",
		zap.String("order_id", created.ID),
		zap.String("user_id", state.User.ID),
		zap.String("total", snap.Total.StringFixed(2)),
	)

	method := req.PaymentMethod
	if method == "" {
		method = messaging.PaymentWhatsApp
	}
	text := messaging.FormatOrderMessage(messaging.OrderMessage{
		BusinessName:   s.business.Name,
		Currency:       s.business.Currency,
		OrderID:        created.ID,
		Customer:       state.User,
		Items:          snap.Items,
		Total:          snap.Total,
		Address:        req.Address,
		AdditionalInfo: input.AdditionalInfo,
		PaymentMethod:  method,
		PlacedAt:       s.now(),
	})

	result := CheckoutResult{
		OrderID: created.ID,
		Total:   snap.Total,
		Message: text,
		Link:    messaging.Links(s.business.WhatsAppNumber, text),
	}

	if req.Launcher != nil {
		sender := messaging.NewWhatsAppSender(s.business.WhatsAppNumber, req.Launcher, s.logger)
		delivery, err := sender.Send(ctx, text)
		if err != nil {
			s.logger.Warn("Order created but WhatsApp could not be opened",
				zap.String("order_id", created.ID),
				zap.Error(err),
			)
		} else {
			result.Delivery = &delivery
			result.Sent = true
		}
	}

	s.cart.Clear()

	if result.Sent {
		result.Notice = Notice{
			Title: "Pedido Creado y Enviado",
			Body:  "Tu pedido ha sido registrado en la base de datos y enviado por WhatsApp. Recibirás confirmación del comercio pronto.",
		}
	} else {
		result.Notice = Notice{
			Title: "Pedido Creado",
			Body: fmt.Sprintf("Tu pedido ha sido registrado exitosamente en la base de datos. "+
				"Por favor, contacta directamente al %s para confirmar tu pedido.", s.business.ContactPhone),
		}
	}
	return result, nil
}

// orderAlert wraps a failed order creation in the alert the checkout shows.
func orderAlert(err error) error {
	if apiErr, ok := backend.AsAPIError(err); ok {
		return &AlertError{
			Notice: Notice{
				Title: "Error al Crear Pedido",
				Body:  "No se pudo registrar el pedido en la base de datos: " + apiErr.Message,
			},
			Err: err,
		}
	}
	if errors.Is(err, backend.ErrConnection) {
		return &AlertError{
			Notice: Notice{
				Title: "Error de Conexión",
				Body:  "No se pudo conectar con el servidor para crear el pedido. Verifica tu conexión a internet.",
			},
			Err: err,
		}
	}
	return fmt.Errorf("failed to create order: %w", err)
}
