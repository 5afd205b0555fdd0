// Package normalize maps the loosely shaped JSON returned by the coffee
// backend onto the canonical domain types. Every entry point either
// returns a typed value or ErrUnrecognizedShape.
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"amber-storefront/internal/domain"
	orderwf "amber-storefront/internal/order"

	"github.com/shopspring/decimal"
)

var ErrUnrecognizedShape = errors.New("unrecognized response shape")

// UnknownOrderID is used when a create-order response carries no id.
const UnknownOrderID = "N/A"

// Products extracts the product list from a catalog response.
func Products(raw []byte) ([]domain.Product, error) {
	root, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return ProductsFrom(root)
}

// ProductsFrom is Products over an already decoded body.
func ProductsFrom(root any) ([]domain.Product, error) {
	arr, ok := probeArray(root,
		[]string{"data", "productos"},
		[]string{"productos"},
		[]string{"data"},
		[]string{},
	)
	if !ok {
		return nil, fmt.Errorf("%w: no product list found", ErrUnrecognizedShape)
	}

	products := make([]domain.Product, 0, len(arr))
	for i, item := range arr {
		m, ok := asObject(item)
		if !ok {
			continue
		}
		products = append(products, product(m, i))
	}
	return products, nil
}

// Product extracts a single product, e.g. from a create or update response.
func Product(raw []byte) (domain.Product, error) {
	root, err := Decode(raw)
	if err != nil {
		return domain.Product{}, err
	}
	for _, keys := range [][]string{{"data", "producto"}, {"producto"}, {"data"}, {}} {
		if m, ok := asObject(path(root, keys...)); ok {
			if _, hasID := firstString(m, "_id", "id"); hasID {
				return product(m, 0), nil
			}
		}
	}
	return domain.Product{}, fmt.Errorf("%w: no product found", ErrUnrecognizedShape)
}

func product(m map[string]any, index int) domain.Product {
	price, _ := firstNumber(m, "precioProd", "precio", "price")
	stock, _ := integer(m["stock"])
	if stock < 0 {
		stock = 0
	}

	return domain.Product{
		ID:          stringOr(m, fmt.Sprintf("product_%d", index), "_id", "id"),
		Name:        stringOr(m, domain.UnnamedProduct, "nomProd", "nombre", "name"),
		Price:       price,
		Image:       stringOr(m, domain.PlaceholderImage, "imagen", "image"),
		Description: stringOr(m, "", "descripcionProd", "descripcion", "description"),
		Stock:       stock,
		Category:    stringOr(m, domain.DefaultCategory, "categoria", "category"),
	}
}

// Orders extracts one page of orders with its pagination counters.
func Orders(raw []byte) (domain.OrderPage, error) {
	root, err := Decode(raw)
	if err != nil {
		return domain.OrderPage{}, err
	}

	arr, ok := probeArray(root,
		[]string{"data", "pedidos"},
		[]string{"pedidos"},
		[]string{"data"},
		[]string{},
	)
	if !ok {
		return domain.OrderPage{}, fmt.Errorf("%w: no order list found", ErrUnrecognizedShape)
	}

	page := domain.OrderPage{Orders: make([]domain.Order, 0, len(arr))}
	for _, item := range arr {
		if m, ok := asObject(item); ok {
			page.Orders = append(page.Orders, order(m))
		}
	}

	meta, ok := asObject(path(root, "data"))
	if !ok {
		meta, _ = asObject(root)
	}
	page.TotalPages = 1
	page.CurrentPage = 1
	page.Total = len(page.Orders)
	if meta != nil {
		if n, ok := firstInt(meta, "totalPages"); ok {
			page.TotalPages = n
		}
		if n, ok := firstInt(meta, "currentPage", "page"); ok {
			page.CurrentPage = n
		}
		if n, ok := firstInt(meta, "total"); ok {
			page.Total = n
		}
	}
	return page, nil
}

// Order extracts a single order from a detail or status-update response.
func Order(raw []byte) (domain.Order, error) {
	root, err := Decode(raw)
	if err != nil {
		return domain.Order{}, err
	}
	for _, keys := range [][]string{{"data", "pedido"}, {"pedido"}, {"data"}, {}} {
		if m, ok := asObject(path(root, keys...)); ok {
			if _, hasID := firstString(m, "_id", "id"); hasID {
				return order(m), nil
			}
		}
	}
	if arr, ok := probeArray(root, []string{"data", "pedidos"}, []string{"pedidos"}); ok && len(arr) > 0 {
		if m, ok := asObject(arr[0]); ok {
			return order(m), nil
		}
	}
	return domain.Order{}, fmt.Errorf("%w: no order found", ErrUnrecognizedShape)
}

// OrderID pulls the id of a freshly created order, or UnknownOrderID.
func OrderID(raw []byte) string {
	root, err := Decode(raw)
	if err != nil {
		return UnknownOrderID
	}
	if arr, ok := probeArray(root, []string{"data", "pedidos"}); ok && len(arr) > 0 {
		if id, ok := str(path(arr[0], "_id")); ok {
			return id
		}
	}
	for _, keys := range [][]string{{"data", "_id"}, {"data", "pedido", "_id"}, {"pedido", "_id"}, {"_id"}} {
		if id, ok := str(path(root, keys...)); ok {
			return id
		}
	}
	return UnknownOrderID
}

func order(m map[string]any) domain.Order {
	o := domain.Order{
		ID:              stringOr(m, "", "_id", "id"),
		DeliveryAddress: stringOr(m, "", "direccionEntrega", "deliveryAddress"),
		AdditionalInfo:  stringOr(m, "", "infoAdicional", "additionalInfo"),
	}

	o.User = userRef(m["userId"])
	if o.User.ID == "" {
		o.User = userRef(m["usuario"])
	}

	o.Items = []domain.OrderLine{}
	lines, _ := probeArray(m, []string{"productos"}, []string{"items"})
	for _, item := range lines {
		if lm, ok := asObject(item); ok {
			o.Items = append(o.Items, orderLine(lm))
		}
	}

	if total, ok := number(m["total"]); ok {
		o.Total = total
	} else {
		o.Total = decimal.Zero
		for _, line := range o.Items {
			o.Total = o.Total.Add(line.Subtotal())
		}
	}

	if raw, ok := firstString(m, "status", "estado"); ok {
		status, err := orderwf.ParseStatus(raw)
		if err != nil {
			status = domain.OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
		}
		o.Status = status
	}

	o.CreatedAt, _ = firstTime(m, "createdAt", "fecha", "date")
	if updated, ok := firstTime(m, "updatedAt"); ok {
		o.UpdatedAt = &updated
	}
	return o
}

func userRef(v any) domain.UserRef {
	if id, ok := str(v); ok {
		return domain.UserRef{ID: id}
	}
	m, ok := asObject(v)
	if !ok {
		return domain.UserRef{}
	}
	return domain.UserRef{
		ID:       stringOr(m, "", "_id", "id"),
		Name:     stringOr(m, "", "nombreUsr", "name"),
		LastName: stringOr(m, "", "apellidoUsr", "lastName"),
		Email:    stringOr(m, "", "emailUsr", "email"),
		Phone:    stringOr(m, "", "celUsr", "phone"),
	}
}

func orderLine(m map[string]any) domain.OrderLine {
	line := domain.OrderLine{Quantity: 1}

	productObj, isObj := asObject(m["productoId"])
	switch {
	case isObj:
		line.ProductID = stringOr(productObj, "", "_id", "id")
		line.ProductName = stringOr(productObj, "", "nomProd", "name")
		line.Image = stringOr(productObj, "", "imagen", "image")
	default:
		line.ProductID, _ = str(m["productoId"])
	}
	if line.ProductName == "" {
		line.ProductName = stringOr(m, domain.UnnamedProduct, "name", "nomProd", "producto")
	}

	if n, ok := firstInt(m, "cantidad", "quantity"); ok && n > 0 {
		line.Quantity = n
	}

	if price, ok := firstNumber(m, "precio", "price"); ok {
		line.UnitPrice = price
	} else if isObj {
		line.UnitPrice, _ = firstNumber(productObj, "precioProd")
	}
	return line
}
