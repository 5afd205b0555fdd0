package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"amber-storefront/internal/domain"
	"amber-storefront/internal/normalize"
)

// OrderItemInput is one product line of a new order
type OrderItemInput struct {
	ProductID string `json:"productoId"`
	Quantity  int    `json:"cantidad"`
}

// OrderInput is the body of POST /pedidos
type OrderInput struct {
	Items           []OrderItemInput `json:"productos"`
	DeliveryAddress string           `json:"direccionEntrega"`
	AdditionalInfo  string           `json:"infoAdicional"`
}

// OrderCreated is the outcome of a successful order creation
type OrderCreated struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// OrderQuery filters the order listing. Status "all" means no filter.
type OrderQuery struct {
	Status string
	Page   int
	Limit  int
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" && q.Status != "all" {
		v.Set("status", q.Status)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type statusPayload struct {
	Status domain.OrderStatus `json:"status"`
}

func (c *client) CreateOrder(ctx context.Context, token string, in OrderInput) (OrderCreated, error) {
	resp, err := c.do(ctx, request{method: http.MethodPost, path: "/pedidos", token: token, body: in})
	if err != nil {
		return OrderCreated{}, err
	}
	if err := check(resp, "Error al crear el pedido", false); err != nil {
		return OrderCreated{}, err
	}

	return OrderCreated{
		ID:      normalize.OrderID(resp.body),
		Message: message(resp.body, "Pedido creado exitosamente"),
	}, nil
}

func (c *client) ListOrders(ctx context.Context, token string, q OrderQuery) (domain.OrderPage, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/pedidos", query: q.values(), token: token})
	if err != nil {
		return domain.OrderPage{}, err
	}
	if err := check(resp, "Error al obtener los pedidos", true); err != nil {
		return domain.OrderPage{}, err
	}

	page, err := normalize.Orders(resp.body)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("failed to read order list: %w", err)
	}
	return page, nil
}

func (c *client) GetOrder(ctx context.Context, token, id string) (domain.Order, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/pedidos/" + url.PathEscape(id), token: token})
	if err != nil {
		return domain.Order{}, err
	}
	if err := check(resp, "Error al obtener el pedido", true); err != nil {
		return domain.Order{}, err
	}

	o, err := normalize.Order(resp.body)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to read order: %w", err)
	}
	return o, nil
}

func (c *client) UpdateOrderStatus(ctx context.Context, token, id string, status domain.OrderStatus) (string, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/pedidos/" + url.PathEscape(id) + "/estado",
		token:  token,
		body:   statusPayload{Status: status},
	})
	if err != nil {
		return "", err
	}

	fallback := "Error al actualizar el estado del pedido"
	if status == domain.StatusCancelled {
		fallback = "Error al cancelar el pedido"
	}
	if err := check(resp, fallback, true); err != nil {
		return "", err
	}

	if status == domain.StatusCancelled {
		return message(resp.body, "Pedido cancelado exitosamente"), nil
	}
	return message(resp.body, "Estado del pedido actualizado"), nil
}
