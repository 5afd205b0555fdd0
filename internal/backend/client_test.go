package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"amber-storefront/internal/config"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/normalize"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.BackendConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, zap.NewNop())
}

func TestListProducts(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/productos", r.URL.Path)
		assert.Equal(t, "espresso", r.URL.Query().Get("buscar"))
		assert.Empty(t, r.URL.Query().Get("categoria"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"_id":"a1","nomProd":"Espresso","precioProd":45}]`))
	})

	products, err := api.ListProducts(context.Background(), ProductQuery{Search: "espresso", Category: "all"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Espresso", products[0].Name)
}

func TestListProducts_UnrecognizedShape(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})

	_, err := api.ListProducts(context.Background(), ProductQuery{})
	assert.True(t, errors.Is(err, normalize.ErrUnrecognizedShape))
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("connection", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		api := New(config.BackendConfig{BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())

		_, err := api.ListProducts(context.Background(), ProductQuery{})
		assert.True(t, errors.Is(err, ErrConnection))
	})

	t.Run("api error with message", func(t *testing.T) {
		api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Stock insuficiente"}`))
		})

		_, err := api.CreateOrder(context.Background(), "tok", OrderInput{})
		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Stock insuficiente", apiErr.Message)
	})

	t.Run("api error with errors list", func(t *testing.T) {
		api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"errors":["nombre requerido","precio inválido"]}`))
		})

		_, err := api.CreateProduct(context.Background(), "tok", ProductInput{})
		assert.EqualError(t, err, "nombre requerido, precio inválido")
	})

	t.Run("api error with errors map", func(t *testing.T) {
		api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"errors":{"stock":["debe ser positivo"],"imagen":"url inválida"}}`))
		})

		_, err := api.CreateProduct(context.Background(), "tok", ProductInput{})
		assert.EqualError(t, err, "url inválida, debe ser positivo")
	})

	t.Run("api error fallback", func(t *testing.T) {
		api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{}`))
		})

		_, err := api.Login(context.Background(), "a@b.com", "secret")
		assert.EqualError(t, err, "Error en el login")
	})

	t.Run("non-json error body", func(t *testing.T) {
		api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`<html>bad gateway</html>`))
		})

		_, err := api.CreateProduct(context.Background(), "tok", ProductInput{})
		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "Error del servidor: 502 - Respuesta no válida", apiErr.Message)
	})

	t.Run("malformed success", func(t *testing.T) {
		api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>ok</html>`))
		})

		_, err := api.ListProducts(context.Background(), ProductQuery{})
		assert.True(t, errors.Is(err, ErrMalformedResponse))
	})

	t.Run("success false on order endpoint", func(t *testing.T) {
		api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"message":"Transición inválida"}`))
		})

		_, err := api.UpdateOrderStatus(context.Background(), "tok", "o1", domain.StatusReady)
		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "Transición inválida", apiErr.Message)
	})
}

func TestCreateProduct_ForcesCategory(t *testing.T) {
	var got map[string]any
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Producto creado","producto":{"_id":"n1","nomProd":"Mocha","precioProd":55.5}}`))
	})

	result, err := api.CreateProduct(context.Background(), "admin-tok", ProductInput{
		Name:     "Mocha",
		Price:    decimal.RequireFromString("55.5"),
		Stock:    3,
		Category: "te",
		Image:    "https://x/m.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, "cafe", got["categoria"])
	assert.Equal(t, "Mocha", got["nomProd"])
	assert.Equal(t, 55.5, got["precioProd"])
	assert.Equal(t, float64(3), got["stock"])

	assert.Equal(t, "Producto creado", result.Message)
	require.NotNil(t, result.Product)
	assert.Equal(t, "n1", result.Product.ID)
}

func TestDeleteProduct_EmptyBody(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/productos/a1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	msg, err := api.DeleteProduct(context.Background(), "tok", "a1")
	require.NoError(t, err)
	assert.Equal(t, "Producto eliminado correctamente", msg)
}

func TestLogin_SendsNormalizedEmail(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"emailUsr":"ana@example.com","contraseña":"secret1"}`, string(body))
		w.Write([]byte(`{"token":"jwt","usuario":{"_id":"u1","nombreUsr":"Ana","roleUsr":false}}`))
	})

	payload, err := api.Login(context.Background(), "  Ana@Example.com ", "secret1")
	require.NoError(t, err)
	assert.True(t, payload.Accepted())
	assert.Equal(t, "jwt", payload.Token)
	assert.Equal(t, "ana@example.com", payload.User.Email)
}

func TestRegister(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/usuarios/registrar", r.URL.Path)
		var in RegisterInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Luis", in.Name)
		assert.Equal(t, "7123456789", in.Phone)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"usuario":{"_id":"u2","emailUsr":"luis@example.com"}}`))
	})

	payload, err := api.Register(context.Background(), RegisterInput{
		Name: "Luis", LastName: "Paz", Phone: "7123456789", Email: "luis@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", payload.User.ID)
}

func TestProfileAndValidate(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Token inválido"}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"_id":"u1","emailUsr":"ana@example.com","nombreUsr":"Ana"}}`))
	})

	user, err := api.Profile(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	ok, err := api.ValidateToken(context.Background(), "good")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = api.ValidateToken(context.Background(), "bad")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = api.Profile(context.Background(), "bad")
	assert.EqualError(t, err, "Token inválido")
}

func TestCreateOrder(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"productos":[{"productoId":"a1","cantidad":2}],"direccionEntrega":"Calle 1","infoAdicional":""}`, string(body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"message":"Pedido creado","data":{"pedidos":[{"_id":"p-77"}]}}`))
	})

	created, err := api.CreateOrder(context.Background(), "tok", OrderInput{
		Items:           []OrderItemInput{{ProductID: "a1", Quantity: 2}},
		DeliveryAddress: "Calle 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-77", created.ID)
	assert.Equal(t, "Pedido creado", created.Message)
}

func TestListOrders(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Empty(t, q.Get("status"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		w.Write([]byte(`{"success":true,"data":{"pedidos":[{"_id":"o1","status":"listo","total":10}],"totalPages":2,"currentPage":2,"total":11}}`))
	})

	page, err := api.ListOrders(context.Background(), "tok", OrderQuery{Status: "all", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, domain.StatusReady, page.Orders[0].Status)
}

func TestGetOrder(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pedidos/o9", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"_id":"o9","status":"pendiente","total":"45"}}`))
	})

	o, err := api.GetOrder(context.Background(), "tok", "o9")
	require.NoError(t, err)
	assert.Equal(t, "o9", o.ID)
	assert.True(t, decimal.NewFromInt(45).Equal(o.Total))
}

func TestUpdateOrderStatus(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/pedidos/o1/estado", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"cancelado"}`, string(body))
		w.Write([]byte(`{"success":true}`))
	})

	msg, err := api.UpdateOrderStatus(context.Background(), "tok", "o1", domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "Pedido cancelado exitosamente", msg)
}
