package service

import (
	"context"
	"fmt"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/order"
	"amber-storefront/internal/session"

	"go.uber.org/zap"
)

// OrderService defines the interface for order history and fulfilment
type OrderService interface {
	List(ctx context.Context, q backend.OrderQuery) (domain.OrderPage, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	Actions(o domain.Order) []order.Action
	UpdateStatus(ctx context.Context, id string, current, target domain.OrderStatus) (string, error)
	Cancel(ctx context.Context, id string, current domain.OrderStatus) (string, error)
}

type orderService struct {
	api     backend.API
	session *session.Store
	logger  *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(api backend.API, sess *session.Store, log *zap.Logger) OrderService {
	return &orderService{
		api:     api,
		session: sess,
		logger:  log.Named("orders"),
	}
}

func (s *orderService) List(ctx context.Context, q backend.OrderQuery) (domain.OrderPage, error) {
	token, err := s.session.Token()
	if err != nil {
		return domain.OrderPage{}, err
	}
	if q.Status != "" && q.Status != "all" {
		status, err := order.ParseStatus(q.Status)
		if err != nil {
			return domain.OrderPage{}, err
		}
		q.Status = string(status)
	}

	page, err := s.api.ListOrders(ctx, token, q)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("failed to list orders: %w", err)
	}
	return page, nil
}

func (s *orderService) Get(ctx context.Context, id string) (domain.Order, error) {
	token, err := s.session.Token()
	if err != nil {
		return domain.Order{}, err
	}

	o, err := s.api.GetOrder(ctx, token, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

// Actions lists the status changes the signed-in user may apply to o. Only
// administrators get any.
func (s *orderService) Actions(o domain.Order) []order.Action {
	if !s.session.State().IsAdmin() {
		return []order.Action{}
	}
	return order.Actions(canonical(o.Status))
}

// UpdateStatus moves an order to target. The transition table is checked
// before contacting the backend; an empty current status is fetched first.
func (s *orderService) UpdateStatus(ctx context.Context, id string, current, target domain.OrderStatus) (string, error) {
	token, err := requireAdmin(s.session)
	if err != nil {
		return "", err
	}

	if current == "" {
		o, err := s.api.GetOrder(ctx, token, id)
		if err != nil {
			return "", fmt.Errorf("failed to get order: %w", err)
		}
		current = o.Status
	}
	current, target = canonical(current), canonical(target)
	if err := order.CheckTransition(current, target); err != nil {
		return "", err
	}

	msg, err := s.api.UpdateOrderStatus(ctx, token, id, target)
	if err != nil {
		s.logger.Error("Failed to update order status",
			zap.String("order_id", id),
			zap.String("target", string(target)),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("from", string(current)),
		zap.String("to", string(target)),
	)
	return msg, nil
}

func (s *orderService) Cancel(ctx context.Context, id string, current domain.OrderStatus) (string, error) {
	return s.UpdateStatus(ctx, id, current, domain.StatusCancelled)
}

// canonical maps English or mixed-case statuses onto the Spanish ones.
func canonical(status domain.OrderStatus) domain.OrderStatus {
	if parsed, err := order.ParseStatus(string(status)); err == nil {
		return parsed
	}
	return status
}
