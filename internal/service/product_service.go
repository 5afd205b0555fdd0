package service

import (
	"context"
	"fmt"
	"strings"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/session"
	"amber-storefront/internal/validation"

	"go.uber.org/zap"
)

// AdminProductService defines the interface for catalog maintenance
type AdminProductService interface {
	Create(ctx context.Context, form validation.ProductForm) (backend.ProductResult, error)
	Update(ctx context.Context, id string, form validation.ProductForm) (backend.ProductResult, error)
	Delete(ctx context.Context, id string) (string, error)
}

type adminProductService struct {
	api     backend.API
	session *session.Store
	catalog CatalogService
	logger  *zap.Logger
}

// NewAdminProductService creates a new instance of AdminProductService.
// Every successful write reloads the catalog.
func NewAdminProductService(api backend.API, sess *session.Store, catalog CatalogService, log *zap.Logger) AdminProductService {
	return &adminProductService{
		api:     api,
		session: sess,
		catalog: catalog,
		logger:  log.Named("admin"),
	}
}

func (s *adminProductService) Create(ctx context.Context, form validation.ProductForm) (backend.ProductResult, error) {
	token, err := requireAdmin(s.session)
	if err != nil {
		return backend.ProductResult{}, err
	}
	in, err := productInput(form)
	if err != nil {
		return backend.ProductResult{}, err
	}

	result, err := s.api.CreateProduct(ctx, token, in)
	if err != nil {
		return backend.ProductResult{}, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", zap.String("name", in.Name))
	s.refresh(ctx)
	return result, nil
}

func (s *adminProductService) Update(ctx context.Context, id string, form validation.ProductForm) (backend.ProductResult, error) {
	token, err := requireAdmin(s.session)
	if err != nil {
		return backend.ProductResult{}, err
	}
	in, err := productInput(form)
	if err != nil {
		return backend.ProductResult{}, err
	}

	result, err := s.api.UpdateProduct(ctx, token, id, in)
	if err != nil {
		return backend.ProductResult{}, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("Product updated", zap.String("product_id", id))
	s.refresh(ctx)
	return result, nil
}

func (s *adminProductService) Delete(ctx context.Context, id string) (string, error) {
	token, err := requireAdmin(s.session)
	if err != nil {
		return "", err
	}

	msg, err := s.api.DeleteProduct(ctx, token, id)
	if err != nil {
		return "", fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	s.refresh(ctx)
	return msg, nil
}

func (s *adminProductService) refresh(ctx context.Context) {
	if view := s.catalog.Load(ctx, backend.ProductQuery{}); view.Notice != "" {
		s.logger.Warn("Catalog refresh failed", zap.String("notice", view.Notice))
	}
}

func productInput(form validation.ProductForm) (backend.ProductInput, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	form.Image = strings.TrimSpace(form.Image)
	if err := validation.Validate(form); err != nil {
		return backend.ProductInput{}, err
	}

	return backend.ProductInput{
		Name:        form.Name,
		Description: form.Description,
		Price:       form.PriceValue(),
		Stock:       form.StockValue(),
		Category:    strings.TrimSpace(form.Category),
		Image:       form.Image,
	}, nil
}
