package cart

import (
	"sync"

	"amber-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the units of one cart line.
const MaxLineQuantity = 999

// Cart is an ordered list of lines keyed by (product id, pack).
type Cart struct {
	items []domain.CartItem
}

// Add merges item into the cart. A line with the same (id, pack) has its
// quantity increased, saturating at MaxLineQuantity; otherwise the item is
// appended. Non-positive quantities are ignored.
func (c *Cart) Add(item domain.CartItem) {
	if item.Quantity <= 0 {
		return
	}
	for i := range c.items {
		if c.items[i].SameLine(item) {
			c.items[i].Quantity = addCapped(c.items[i].Quantity, item.Quantity)
			return
		}
	}
	item.Quantity = min(item.Quantity, MaxLineQuantity)
	c.items = append(c.items, item)
}

// addCapped sums two positive quantities without passing MaxLineQuantity.
func addCapped(a, b int) int {
	if b >= MaxLineQuantity-a {
		return MaxLineQuantity
	}
	return a + b
}

// UpdateQuantity sets the quantity of the matching line to n clamped to
// [0, MaxLineQuantity] and drops every line whose quantity reaches zero.
func (c *Cart) UpdateQuantity(item domain.CartItem, n int) {
	n = max(0, min(n, MaxLineQuantity))
	kept := c.items[:0]
	for _, line := range c.items {
		if line.SameLine(item) {
			line.Quantity = n
		}
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	c.items = kept
}

// Remove drops the matching line.
func (c *Cart) Remove(item domain.CartItem) {
	c.UpdateQuantity(item, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is Σ price × quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.items {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, line := range c.items {
		n += line.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Snapshot is a read-only view of the cart
type Snapshot struct {
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

// Store serializes cart mutations. Every call is one atomic update.
type Store struct {
	mu   sync.Mutex
	cart Cart
}

// NewStore creates an empty cart store
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(item domain.CartItem) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(item)
	return s.snapshot()
}

func (s *Store) UpdateQuantity(item domain.CartItem, n int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.UpdateQuantity(item, n)
	return s.snapshot()
}

func (s *Store) Remove(item domain.CartItem) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(item)
	return s.snapshot()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() Snapshot {
	return Snapshot{
		Items: s.cart.Items(),
		Total: s.cart.Total(),
		Count: s.cart.Count(),
	}
}
