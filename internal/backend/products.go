package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"amber-storefront/internal/domain"
	"amber-storefront/internal/normalize"

	"github.com/shopspring/decimal"
)

// ProductQuery filters the catalog listing
type ProductQuery struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" && q.Category != "all" {
		v.Set("categoria", q.Category)
	}
	if q.Search != "" {
		v.Set("buscar", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// ProductInput is the admin product form
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Image       string
}

type productPayload struct {
	NomProd         string  `json:"nomProd"`
	DescripcionProd string  `json:"descripcionProd"`
	PrecioProd      float64 `json:"precioProd"`
	Stock           int     `json:"stock"`
	Categoria       string  `json:"categoria"`
	Imagen          string  `json:"imagen"`
}

func (in ProductInput) payload() productPayload {
	return productPayload{
		NomProd:         in.Name,
		DescripcionProd: in.Description,
		PrecioProd:      in.Price.InexactFloat64(),
		Stock:           in.Stock,
		Categoria:       in.Category,
		Imagen:          in.Image,
	}
}

// ProductResult is the outcome of a product write
type ProductResult struct {
	Message string          `json:"message"`
	Product *domain.Product `json:"product,omitempty"`
}

func (c *client) ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/productos", query: q.values()})
	if err != nil {
		return nil, err
	}
	if err := check(resp, fmt.Sprintf("Error del servidor: %d", resp.status), false); err != nil {
		return nil, err
	}

	products, err := normalize.Products(resp.body)
	if err != nil {
		return nil, fmt.Errorf("failed to read product list: %w", err)
	}
	return products, nil
}

func (c *client) CreateProduct(ctx context.Context, token string, in ProductInput) (ProductResult, error) {
	// the backend only serves one category
	in.Category = domain.DefaultCategory

	resp, err := c.do(ctx, request{method: http.MethodPost, path: "/productos", token: token, body: in.payload()})
	if err != nil {
		return ProductResult{}, err
	}
	if err := check(resp, "Error al crear el producto en la base de datos", false); err != nil {
		return ProductResult{}, err
	}
	return productResult(resp.body, "Producto creado correctamente en la base de datos"), nil
}

func (c *client) UpdateProduct(ctx context.Context, token, id string, in ProductInput) (ProductResult, error) {
	if in.Category == "" {
		in.Category = domain.DefaultCategory
	}

	resp, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/productos/" + url.PathEscape(id),
		token:  token,
		body:   in.payload(),
	})
	if err != nil {
		return ProductResult{}, err
	}
	if err := check(resp, "Error al actualizar el producto", false); err != nil {
		return ProductResult{}, err
	}
	return productResult(resp.body, "Producto actualizado correctamente"), nil
}

func (c *client) DeleteProduct(ctx context.Context, token, id string) (string, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/productos/" + url.PathEscape(id),
		token:  token,
	})
	if err != nil {
		return "", err
	}
	if err := check(resp, "Error al eliminar el producto", false); err != nil {
		return "", err
	}
	return message(resp.body, "Producto eliminado correctamente"), nil
}

func productResult(raw []byte, fallback string) ProductResult {
	result := ProductResult{Message: message(raw, fallback)}
	if p, err := normalize.Product(raw); err == nil {
		result.Product = &p
	}
	return result
}
