package domain

import "github.com/shopspring/decimal"

// CartItem is a product line in the shopping cart. Its identity is (ID, Pack).
type CartItem struct {
	Product
	Pack     string `json:"pack"`
	Quantity int    `json:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// SameLine reports whether two items share the (ID, Pack) key.
func (c CartItem) SameLine(other CartItem) bool {
	return c.ID == other.ID && c.Pack == other.Pack
}
