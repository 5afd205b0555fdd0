package service

import (
	"amber-storefront/internal/cart"
	"amber-storefront/internal/domain"

	"go.uber.org/zap"
)

// CartService defines the interface for the device shopping cart
type CartService interface {
	Add(productID, pack string, quantity int) (cart.Snapshot, error)
	UpdateQuantity(productID, pack string, quantity int) cart.Snapshot
	Remove(productID, pack string) cart.Snapshot
	View() cart.Snapshot
	Clear()
}

type cartService struct {
	store   *cart.Store
	catalog CatalogService
	logger  *zap.Logger
}

// NewCartService creates a new instance of CartService
func NewCartService(store *cart.Store, catalog CatalogService, log *zap.Logger) CartService {
	return &cartService{
		store:   store,
		catalog: catalog,
		logger:  log.Named("cart"),
	}
}

// Add puts quantity units of a catalog product into the cart. An empty pack
// means the default pack; a zero quantity means one unit.
func (s *cartService) Add(productID, pack string, quantity int) (cart.Snapshot, error) {
	product, ok := s.catalog.Lookup(productID)
	if !ok {
		return cart.Snapshot{}, ErrProductNotFound
	}

	if pack == "" {
		pack = domain.DefaultPack
	}
	price, ok := product.PackPrice(pack)
	if !ok {
		return cart.Snapshot{}, ErrPackUnavailable
	}
	if quantity == 0 {
		quantity = 1
	}

	item := domain.CartItem{Product: product, Pack: pack, Quantity: quantity}
	item.Price = price

	snap := s.store.Add(item)
	s.logger.Debug("Added to cart",
		zap.String("product_id", productID),
		zap.String("pack", pack),
		zap.Int("quantity", quantity),
		zap.Int("count", snap.Count),
	)
	return snap, nil
}

func (s *cartService) UpdateQuantity(productID, pack string, quantity int) cart.Snapshot {
	return s.store.UpdateQuantity(lineKey(productID, pack), quantity)
}

func (s *cartService) Remove(productID, pack string) cart.Snapshot {
	return s.store.Remove(lineKey(productID, pack))
}

func (s *cartService) View() cart.Snapshot {
	return s.store.Snapshot()
}

func (s *cartService) Clear() {
	s.store.Clear()
}

func lineKey(productID, pack string) domain.CartItem {
	if pack == "" {
		pack = domain.DefaultPack
	}
	return domain.CartItem{Product: domain.Product{ID: productID}, Pack: pack}
}
