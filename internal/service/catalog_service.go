package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/normalize"

	"go.uber.org/zap"
)

// CatalogView is the product list as the storefront shows it. Notice is set
// when loading failed and the list is empty.
type CatalogView struct {
	Products []domain.Product `json:"products"`
	Notice   string           `json:"notice,omitempty"`
}

// CatalogService defines the interface for browsing the product catalog
type CatalogService interface {
	Load(ctx context.Context, q backend.ProductQuery) CatalogView
	Search(ctx context.Context, query string) CatalogView
	FilterCategory(ctx context.Context, category string) CatalogView
	Filter(text string) []domain.Product
	Lookup(id string) (domain.Product, bool)
	Packs(id string) ([]domain.Pack, error)
	Products() []domain.Product
}

type catalogService struct {
	api    backend.API
	logger *zap.Logger

	mu       sync.RWMutex
	products []domain.Product
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(api backend.API, log *zap.Logger) CatalogService {
	return &catalogService{
		api:      api,
		logger:   log.Named("catalog"),
		products: []domain.Product{},
	}
}

// Load fetches the catalog and replaces the local snapshot. A failure leaves
// an empty catalog and a notice instead of an error.
func (s *catalogService) Load(ctx context.Context, q backend.ProductQuery) CatalogView {
	products, err := s.api.ListProducts(ctx, q)
	if err != nil {
		s.logger.Warn("Failed to load products",
			zap.String("category", q.Category),
			zap.String("search", q.Search),
			zap.Error(err),
		)
		s.replace([]domain.Product{})
		return CatalogView{Products: []domain.Product{}, Notice: loadNotice(err)}
	}

	s.logger.Debug("Products loaded", zap.Int("count", len(products)))
	s.replace(products)
	return CatalogView{Products: s.Products()}
}

// Search asks the backend for products matching query. A blank query
// reloads the whole catalog.
func (s *catalogService) Search(ctx context.Context, query string) CatalogView {
	return s.Load(ctx, backend.ProductQuery{Search: strings.TrimSpace(query)})
}

// FilterCategory reloads the catalog for one category; "all" means none.
func (s *catalogService) FilterCategory(ctx context.Context, category string) CatalogView {
	category = strings.TrimSpace(category)
	if category == "all" {
		category = ""
	}
	return s.Load(ctx, backend.ProductQuery{Category: category})
}

// Filter narrows the loaded catalog by name or description without a
// round trip.
func (s *catalogService) Filter(text string) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(text))
	products := s.Products()
	if needle == "" {
		return products
	}

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

func (s *catalogService) Lookup(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *catalogService) Packs(id string) ([]domain.Pack, error) {
	p, ok := s.Lookup(id)
	if !ok {
		return nil, ErrProductNotFound
	}
	return p.Packs(), nil
}

// Products returns a copy of the loaded catalog.
func (s *catalogService) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *catalogService) replace(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
}

func loadNotice(err error) string {
	if errors.Is(err, normalize.ErrUnrecognizedShape) || errors.Is(err, backend.ErrMalformedResponse) {
		return "Formato de respuesta inesperado"
	}
	if apiErr, ok := backend.AsAPIError(err); ok {
		return fmt.Sprintf("Error del servidor: %d", apiErr.StatusCode)
	}
	return "Error de conexión"
}
