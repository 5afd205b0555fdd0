package domain

import "github.com/shopspring/decimal"

const (
	// DefaultPack is the only packaging offered for every product.
	DefaultPack = "50g"

	// DefaultCategory is assumed when the backend omits a category.
	DefaultCategory = "cafe"

	// PlaceholderImage is shown for products without an image.
	PlaceholderImage = "https://via.placeholder.com/300x200?text=Sin+Imagen"

	// UnnamedProduct is shown for products without a name.
	UnnamedProduct = "Producto sin nombre"
)

// Product represents a product in the catalog
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
}

// Pack is a packaging/size variant of a product
type Pack struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// Packs lists the packaging variants a product can be ordered in.
func (p Product) Packs() []Pack {
	return []Pack{{Label: DefaultPack, Price: p.Price}}
}

// PackPrice returns the unit price for the given pack label.
func (p Product) PackPrice(label string) (decimal.Decimal, bool) {
	for _, pack := range p.Packs() {
		if pack.Label == label {
			return pack.Price, true
		}
	}
	return decimal.Zero, false
}
