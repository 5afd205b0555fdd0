package service

import (
	"context"
	"testing"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/normalize"
	"amber-storefront/internal/session"
	"amber-storefront/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAPI is a scriptable backend. Unset funcs fail the test when called.
type mockAPI struct {
	t *testing.T

	listProducts      func(q backend.ProductQuery) ([]domain.Product, error)
	createProduct     func(token string, in backend.ProductInput) (backend.ProductResult, error)
	updateProduct     func(token, id string, in backend.ProductInput) (backend.ProductResult, error)
	deleteProduct     func(token, id string) (string, error)
	login             func(email, password string) (normalize.AuthPayload, error)
	register          func(in backend.RegisterInput) (normalize.AuthPayload, error)
	profile           func(token string) (domain.User, error)
	createOrder       func(token string, in backend.OrderInput) (backend.OrderCreated, error)
	listOrders        func(token string, q backend.OrderQuery) (domain.OrderPage, error)
	getOrder          func(token, id string) (domain.Order, error)
	updateOrderStatus func(token, id string, status domain.OrderStatus) (string, error)

	calls []string
}

func newMockAPI(t *testing.T) *mockAPI {
	return &mockAPI{t: t}
}

func (m *mockAPI) record(name string) {
	m.calls = append(m.calls, name)
}

func (m *mockAPI) unexpected(name string) {
	m.t.Helper()
	m.t.Fatalf("unexpected backend call: %s", name)
}

func (m *mockAPI) ListProducts(_ context.Context, q backend.ProductQuery) ([]domain.Product, error) {
	m.record("ListProducts")
	if m.listProducts == nil {
		m.unexpected("ListProducts")
	}
	return m.listProducts(q)
}

func (m *mockAPI) CreateProduct(_ context.Context, token string, in backend.ProductInput) (backend.ProductResult, error) {
	m.record("CreateProduct")
	if m.createProduct == nil {
		m.unexpected("CreateProduct")
	}
	return m.createProduct(token, in)
}

func (m *mockAPI) UpdateProduct(_ context.Context, token, id string, in backend.ProductInput) (backend.ProductResult, error) {
	m.record("UpdateProduct")
	if m.updateProduct == nil {
		m.unexpected("UpdateProduct")
	}
	return m.updateProduct(token, id, in)
}

func (m *mockAPI) DeleteProduct(_ context.Context, token, id string) (string, error) {
	m.record("DeleteProduct")
	if m.deleteProduct == nil {
		m.unexpected("DeleteProduct")
	}
	return m.deleteProduct(token, id)
}

func (m *mockAPI) Login(_ context.Context, email, password string) (normalize.AuthPayload, error) {
	m.record("Login")
	if m.login == nil {
		m.unexpected("Login")
	}
	return m.login(email, password)
}

func (m *mockAPI) Register(_ context.Context, in backend.RegisterInput) (normalize.AuthPayload, error) {
	m.record("Register")
	if m.register == nil {
		m.unexpected("Register")
	}
	return m.register(in)
}

func (m *mockAPI) Profile(_ context.Context, token string) (domain.User, error) {
	m.record("Profile")
	if m.profile == nil {
		m.unexpected("Profile")
	}
	return m.profile(token)
}

func (m *mockAPI) ValidateToken(_ context.Context, _ string) (bool, error) {
	m.record("ValidateToken")
	return true, nil
}

func (m *mockAPI) CreateOrder(_ context.Context, token string, in backend.OrderInput) (backend.OrderCreated, error) {
	m.record("CreateOrder")
	if m.createOrder == nil {
		m.unexpected("CreateOrder")
	}
	return m.createOrder(token, in)
}

func (m *mockAPI) ListOrders(_ context.Context, token string, q backend.OrderQuery) (domain.OrderPage, error) {
	m.record("ListOrders")
	if m.listOrders == nil {
		m.unexpected("ListOrders")
	}
	return m.listOrders(token, q)
}

func (m *mockAPI) GetOrder(_ context.Context, token, id string) (domain.Order, error) {
	m.record("GetOrder")
	if m.getOrder == nil {
		m.unexpected("GetOrder")
	}
	return m.getOrder(token, id)
}

func (m *mockAPI) UpdateOrderStatus(_ context.Context, token, id string, status domain.OrderStatus) (string, error) {
	m.record("UpdateOrderStatus")
	if m.updateOrderStatus == nil {
		m.unexpected("UpdateOrderStatus")
	}
	return m.updateOrderStatus(token, id, status)
}

func newTestSession() *session.Store {
	return session.NewStore(storage.NewMemoryStore(), zap.NewNop())
}

func signIn(sess *session.Store, role domain.Role) {
	sess.Login(context.Background(), domain.User{
		ID:    "u-1",
		Email: "ana@example.com",
		Name:  "Ana",
		Phone: "70000000",
		Role:  role,
	}, "token-123")
}

func newTestSentinel(t *testing.T) *session.Sentinel {
	t.Helper()
	s, err := session.NewSentinel("admin@gmail.com", "admin123", "")
	require.NoError(t, err)
	return s
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Café Caturra", Description: "Tostado medio", Price: decimal.NewFromInt(45), Category: "cafe", Stock: 10},
		{ID: "p2", Name: "Blend Yungas", Description: "Notas de chocolate", Price: decimal.NewFromInt(38), Category: "cafe", Stock: 4},
		{ID: "p3", Name: "Geisha", Description: "Floral y cítrico", Price: decimal.RequireFromString("120.50"), Category: "cafe", Stock: 2},
	}
}

// loadedCatalog returns a catalog already holding testProducts.
func loadedCatalog(t *testing.T) CatalogService {
	t.Helper()
	api := newMockAPI(t)
	api.listProducts = func(backend.ProductQuery) ([]domain.Product, error) {
		return testProducts(), nil
	}
	catalog := NewCatalogService(api, zap.NewNop())
	view := catalog.Load(context.Background(), backend.ProductQuery{})
	require.Empty(t, view.Notice)
	return catalog
}
