package httpx_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/backoffice/internal/catalog"
	"github.com/jcmexdev/backoffice/internal/cep"
	"github.com/jcmexdev/backoffice/internal/customer"
	"github.com/jcmexdev/backoffice/internal/httpx"
	"github.com/jcmexdev/backoffice/internal/order"
	"github.com/jcmexdev/backoffice/internal/store"
)

// newAPI wires the full stack against an in-memory database and a stubbed
// postal-code provider.
func newAPI(t *testing.T) http.Handler {
	t.Helper()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cepSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"logradouro": "Praça da Sé",
			"bairro": "Sé",
			"localidade": "São Paulo",
			"uf": "SP"
		}`))
	}))
	t.Cleanup(cepSrv.Close)

	customers := customer.NewService(st.Customers(), cep.NewClient(cepSrv.URL, nil))
	products := catalog.NewService(st.Products())
	orders := order.NewService(st, st.Orders(), st.Customers(), st.Products())

	return httpx.NewRouter(
		httpx.NewCustomerHandler(customers),
		httpx.NewProductHandler(products),
		httpx.NewOrderHandler(orders),
	)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func createCustomer(t *testing.T, h http.Handler) httpx.CustomerResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/customers", httpx.CustomerRequest{
		Name:  "Ana Souza",
		Email: "ana@example.com",
		TaxID: "111",
		Address: httpx.AddressDTO{
			Number:     "42",
			PostalCode: "01001000",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[httpx.CustomerResponse](t, rec)
}

func createProduct(t *testing.T, h http.Handler, sku, price string, stock int) httpx.ProductResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/products", httpx.ProductRequest{
		SKU:          sku,
		Name:         "Widget",
		GrossPrice:   decimal.RequireFromString(price),
		Stock:        stock,
		MinimumStock: 1,
		Active:       true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[httpx.ProductResponse](t, rec)
}

func TestCustomerEndpoints(t *testing.T) {
	h := newAPI(t)

	c := createCustomer(t, h)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "Praça da Sé", c.Address.Street, "lookup fills the blank street")
	assert.Equal(t, "42", c.Address.Number)

	t.Run("get", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, fmt.Sprintf("/api/v1/customers/%d", c.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[httpx.CustomerResponse](t, rec)
		assert.Equal(t, "ana@example.com", got.Email)
	})

	t.Run("duplicate email answers 422", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/customers", httpx.CustomerRequest{
			Name:    "Outra Ana",
			Email:   "ana@example.com",
			TaxID:   "333",
			Address: httpx.AddressDTO{PostalCode: "01001000"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode[httpx.ErrorResponse](t, rec)
		assert.Equal(t, "business_rule_violation", body.Error)
	})

	t.Run("missing fields answer 400", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/customers", httpx.CustomerRequest{Name: "No Email"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("search", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/customers?q=ana", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[httpx.PageResponse[httpx.CustomerResponse]](t, rec)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("unknown id answers 404", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/customers/9999", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		body := decode[httpx.ErrorResponse](t, rec)
		assert.Equal(t, "not_found", body.Error)
	})

	t.Run("non-numeric id answers 400", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/customers/abc", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductEndpoints(t *testing.T) {
	h := newAPI(t)

	p := createProduct(t, h, "SKU-1", "19.90", 5)
	assert.NotZero(t, p.ID)

	t.Run("list with paging", func(t *testing.T) {
		createProduct(t, h, "SKU-2", "9.90", 5)

		rec := do(t, h, http.MethodGet, "/api/v1/products?page=0&size=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[httpx.PageResponse[httpx.ProductResponse]](t, rec)
		assert.Equal(t, int64(2), page.Total)
		assert.Len(t, page.Items, 1)
	})

	t.Run("update", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", p.ID), httpx.ProductRequest{
			SKU:          "SKU-1",
			Name:         "Widget v2",
			GrossPrice:   decimal.RequireFromString("21.00"),
			Stock:        5,
			MinimumStock: 1,
			Active:       true,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[httpx.ProductResponse](t, rec)
		assert.Equal(t, "Widget v2", got.Name)
	})

	t.Run("delete", func(t *testing.T) {
		doomed := createProduct(t, h, "SKU-DEL", "1.00", 0)
		rec := do(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", doomed.ID), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", doomed.ID), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrderEndpoints(t *testing.T) {
	h := newAPI(t)
	c := createCustomer(t, h)
	p := createProduct(t, h, "SKU-1", "59.90", 10)

	createOrder := func(t *testing.T) httpx.OrderResponse {
		t.Helper()
		rec := do(t, h, http.MethodPost, "/api/v1/orders", httpx.CreateOrderRequest{
			CustomerID: c.ID,
			Items: []httpx.OrderItemRequest{
				{ProductID: p.ID, Quantity: 2, Discount: decimal.RequireFromString("5.00")},
			},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return decode[httpx.OrderResponse](t, rec)
	}

	o := createOrder(t)
	assert.Equal(t, "CREATED", o.Status)
	assert.True(t, o.Subtotal.Equal(decimal.RequireFromString("119.80")), "subtotal: %s", o.Subtotal)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("114.80")), "total: %s", o.Total)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "SKU-1", o.Items[0].SKU)

	t.Run("pay", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/pay", o.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[httpx.OrderResponse](t, rec)
		assert.Equal(t, "PAID", got.Status)
		assert.NotNil(t, got.PaidAt)
	})

	t.Run("cancel paid answers 422", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", o.ID), nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode[httpx.ErrorResponse](t, rec)
		assert.Equal(t, "business_rule_violation", body.Error)
	})

	t.Run("cancel restores stock", func(t *testing.T) {
		o2 := createOrder(t)
		rec := do(t, h, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", o2.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[httpx.OrderResponse](t, rec)
		assert.Equal(t, "CANCELLED", got.Status)

		rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", p.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		prod := decode[httpx.ProductResponse](t, rec)
		assert.Equal(t, 8, prod.Stock, "only the paid order's quantity stays deducted")
	})

	t.Run("empty order answers 422", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/orders", httpx.CreateOrderRequest{CustomerID: c.ID})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing customer_id answers 400", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/orders", httpx.CreateOrderRequest{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list filters by status", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/orders?status=PAID", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[httpx.PageResponse[httpx.OrderResponse]](t, rec)
		assert.Equal(t, int64(1), page.Total)

		rec = do(t, h, http.MethodGet, "/api/v1/orders?status=BOGUS", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
