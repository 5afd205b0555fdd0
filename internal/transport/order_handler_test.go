package transport

import (
	"io"
	"net/http"
	"testing"

	"amber-storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withOrders(env *testEnv) {
	env.backend.on("GET /pedidos", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":{"pedidos":[{"_id":"o1","status":"pendiente","total":45}],"totalPages":1,"currentPage":1,"total":1}}`)
	})
	env.backend.on("GET /pedidos/o1", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":{"_id":"o1","status":"confirmed","total":"45"}}`)
	})
	env.backend.on("PUT /pedidos/o1/estado", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"message":"Estado actualizado"}`)
	})
}

func TestOrderHandler_CustomerHistory(t *testing.T) {
	env := newTestEnv(t)
	withOrders(env)

	w := env.do(t, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env.loginCustomer(t)

	w = env.do(t, http.MethodGet, "/api/orders?status=all&page=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page domain.OrderPage
	decode(t, w, &page)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "o1", page.Orders[0].ID)

	w = env.do(t, http.MethodGet, "/api/orders/o1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail OrderDetail
	decode(t, w, &detail)
	assert.Empty(t, detail.Actions, "customers get no status actions")

	w = env.do(t, http.MethodPut, "/api/orders/o1/status", StatusChangeRequest{Status: "preparando"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/orders?status=perdido", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_AdminTransitions(t *testing.T) {
	env := newTestEnv(t)
	withOrders(env)
	env.loginAdmin(t)

	w := env.do(t, http.MethodGet, "/api/orders/o1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail OrderDetail
	decode(t, w, &detail)
	require.NotEmpty(t, detail.Actions)
	assert.Equal(t, domain.StatusPreparing, detail.Actions[0].Target)

	w = env.do(t, http.MethodPut, "/api/orders/o1/status", StatusChangeRequest{Status: "preparing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":"preparando"}`, env.backend.body("PUT /pedidos/o1/estado"))

	w = env.do(t, http.MethodPut, "/api/orders/o1/status", StatusChangeRequest{Status: "pendiente", Current: "entregado"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/orders/o1/cancel?current=pendiente", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"cancelado"}`, env.backend.body("PUT /pedidos/o1/estado"))

	w = env.do(t, http.MethodPost, "/api/orders/o1/cancel?current=listo", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderHandler_EnglishStatusIsCanonical(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on("GET /pedidos", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":{"pedidos":[{"_id":"o1","status":"delivered","total":45}],"totalPages":1,"currentPage":1,"total":1}}`)
	})
	env.backend.on("GET /pedidos/o1", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":{"_id":"o1","status":"delivered","total":45}}`)
	})
	env.loginAdmin(t)

	w := env.do(t, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page domain.OrderPage
	decode(t, w, &page)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, domain.StatusDelivered, page.Orders[0].Status)

	w = env.do(t, http.MethodGet, "/api/orders/o1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var detail OrderDetail
	decode(t, w, &detail)
	assert.Equal(t, domain.StatusDelivered, detail.Status)
	assert.Equal(t, "Entregado", detail.StatusLabel)
	assert.Empty(t, detail.Actions)
}
