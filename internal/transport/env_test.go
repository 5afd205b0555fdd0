package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/cart"
	"amber-storefront/internal/config"
	"amber-storefront/internal/geo"
	"amber-storefront/internal/middleware"
	"amber-storefront/internal/service"
	"amber-storefront/internal/session"
	"amber-storefront/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const catalogJSON = `{"success":true,"data":{"productos":[
	{"_id":"p1","nomProd":"Espresso Amber","precioProd":45,"stock":10,"descripcionProd":"Tostado oscuro"},
	{"_id":"p2","nomProd":"Latte Vainilla","precioProd":38,"stock":5,"descripcionProd":"Suave y dulce"}
]}}`

// fakeBackend is a scripted coffee shop API. Handlers may be replaced per test.
type fakeBackend struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	bodies   map[string]string
	server   *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{
		handlers: map[string]http.HandlerFunc{},
		bodies:   map[string]string{},
	}
	fb.on("GET /productos", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, catalogJSON)
	})
	fb.on("POST /usuarios/login", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(fb.body("POST /usuarios/login"), `"ana@example.com"`) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Credenciales inválidas"}`)
			return
		}
		io.WriteString(w, `{"token":"jwt-ana","usuario":{"_id":"u1","nombreUsr":"Ana","emailUsr":"ana@example.com","roleUsr":false}}`)
	})
	fb.on("POST /pedidos", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"message":"Pedido creado","data":{"pedidos":[{"_id":"p-77"}]}}`)
	})
	fb.on("GET /reverse", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"address":{"road":"Av. Arce","house_number":"2519","suburb":"Sopocachi","city":"La Paz","state":"La Paz"}}`)
	})

	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		raw, _ := io.ReadAll(r.Body)

		fb.mu.Lock()
		fb.bodies[key] = string(raw)
		h, ok := fb.handlers[key]
		fb.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Ruta no encontrada"}`)
			return
		}
		h(w, r)
	}))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) on(route string, h http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.handlers[route] = h
}

// body returns the last request body received on route.
func (fb *fakeBackend) body(route string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.bodies[route]
}

type testEnv struct {
	backend *fakeBackend
	session *session.Store
	catalog service.CatalogService
	cart    service.CartService
	router  chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	fb := newFakeBackend(t)
	api := backend.New(config.BackendConfig{BaseURL: fb.server.URL, Timeout: 5 * time.Second}, log)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	sentinel, err := session.NewSentinel("admin@gmail.com", "", string(hash))
	require.NoError(t, err)

	sess := session.NewStore(storage.NewMemoryStore(), log)
	catalog := service.NewCatalogService(api, log)
	cartSvc := service.NewCartService(cart.NewStore(), catalog, log)
	auth := service.NewAuthService(api, sess, sentinel, log)
	business := config.BusinessConfig{
		Name:           "AMBER INFUSIÓN",
		WhatsAppNumber: "59172284092",
		ContactPhone:   "+591 72284092",
		Currency:       "Bs",
	}
	geocoder := geo.NewNominatim(config.GeocoderConfig{BaseURL: fb.server.URL, UserAgent: "test"}, log)

	passThrough := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(auth))
	NewCatalogHandler(catalog, log).RegisterRoutes(r)
	NewCartHandler(cartSvc, log).RegisterRoutes(r)
	NewAuthHandler(auth, log).RegisterRoutes(r, passThrough)
	NewCheckoutHandler(service.NewCheckoutService(api, sess, cartSvc, business, log), log).RegisterRoutes(r, passThrough)
	NewOrderHandler(service.NewOrderService(api, sess, log), log).RegisterRoutes(r)
	NewAdminHandler(
		service.NewAdminProductService(api, sess, catalog, log),
		service.NewReportService(api, sess, log),
		log,
	).RegisterRoutes(r)
	NewDeviceHandler(service.NewLocationService(geocoder, log), log).RegisterRoutes(r)

	return &testEnv{
		backend: fb,
		session: sess,
		catalog: catalog,
		cart:    cartSvc,
		router:  r,
	}
}

// do sends a request through the router; body is JSON-encoded unless nil.
func (e *testEnv) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) loginCustomer(t *testing.T) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ana@example.com", "password": "secreto1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (e *testEnv) loginAdmin(t *testing.T) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@gmail.com", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (e *testEnv) loadCatalog(t *testing.T) {
	t.Helper()
	view := e.catalog.Load(context.Background(), backend.ProductQuery{})
	require.Len(t, view.Products, 2)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp middleware.ErrorResponse
	decode(t, w, &resp)
	return resp.Error.Message
}
