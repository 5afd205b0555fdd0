package transport

import (
	"math"
	"net/http"
	"testing"

	"amber-storefront/internal/cart"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_AddUpdateRemove(t *testing.T) {
	env := newTestEnv(t)
	env.loadCatalog(t)

	w := env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "p1", Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "p2", Pack: "50g", Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)

	var snap cart.Snapshot
	decode(t, w, &snap)
	assert.Equal(t, 3, snap.Count)
	assert.True(t, snap.Total.Equal(decimal.NewFromInt(128)), snap.Total.String())

	w = env.do(t, http.MethodPut, "/api/cart/items", CartQuantityRequest{ProductID: "p1", Quantity: 5})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	assert.Equal(t, 6, snap.Count)

	w = env.do(t, http.MethodDelete, "/api/cart/items/p2?pack=50g", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	require.Len(t, snap.Items, 1)
	assert.True(t, snap.Total.Equal(decimal.NewFromInt(225)))

	w = env.do(t, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	assert.Empty(t, snap.Items)
	assert.True(t, snap.Total.IsZero())
}

func TestCartHandler_Rejections(t *testing.T) {
	env := newTestEnv(t)
	env.loadCatalog(t)

	w := env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "ghost", Quantity: 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "p1", Pack: "1kg", Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "p1", Quantity: -3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_NegativeUpdateRemovesLine(t *testing.T) {
	env := newTestEnv(t)
	env.loadCatalog(t)

	env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "p1", Quantity: 2})
	env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "p2", Quantity: 1})

	w := env.do(t, http.MethodPut, "/api/cart/items", CartQuantityRequest{ProductID: "p1", Quantity: -1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var snap cart.Snapshot
	decode(t, w, &snap)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "p2", snap.Items[0].ID)
	assert.Equal(t, 1, snap.Count)
}

func TestCartHandler_QuantityCap(t *testing.T) {
	env := newTestEnv(t)
	env.loadCatalog(t)

	env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "p1", Quantity: 2})

	w := env.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"productId": "p1", "quantity": math.MaxInt64})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "quantity debe ser menor o igual a 999", errorMessage(t, w))

	w = env.do(t, http.MethodPut, "/api/cart/items", CartQuantityRequest{ProductID: "p1", Quantity: 1000})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// merges saturate instead of wrapping
	w = env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "p1", Quantity: 999})
	require.Equal(t, http.StatusOK, w.Code)

	var snap cart.Snapshot
	decode(t, w, &snap)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, cart.MaxLineQuantity, snap.Items[0].Quantity)
	assert.True(t, snap.Total.Equal(decimal.NewFromInt(45*cart.MaxLineQuantity)), snap.Total.String())
}

// Property: the cart total equals the sum of price × quantity over its lines
func TestProperty_CartTotalMatchesLines(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("view total is the sum of line subtotals", prop.ForAll(
		func(espresso, latte int) bool {
			env := newTestEnv(t)
			env.loadCatalog(t)

			env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "p1", Quantity: espresso})
			env.do(t, http.MethodPost, "/api/cart/items", CartLineRequest{ProductID: "p2", Quantity: latte})

			var snap cart.Snapshot
			decode(t, env.do(t, http.MethodGet, "/api/cart", nil), &snap)

			want := decimal.NewFromInt(int64(45*espresso + 38*latte))
			return snap.Total.Equal(want) && snap.Count == espresso+latte
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
