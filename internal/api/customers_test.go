package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kskeerthana/billing-management/domain"
	"github.com/kskeerthana/billing-management/internal/store"
)

func customerPayload(name, email string) map[string]any {
	return map[string]any{
		"name":  name,
		"email": email,
		"phone": "555-0100",
		"billing_address": map[string]any{
			"line1":       "1 Main St",
			"city":        "Springfield",
			"state":       "IL",
			"postal_code": "62701",
			"country":     "US",
		},
		"shipping_address":         map[string]any{},
		"shipping_same_as_billing": true,
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, "production")
	rr := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCustomerLifecycle(t *testing.T) {
	router := newTestRouter(t, "production")

	rr := doJSON(t, router, http.MethodPost, "/customers", customerPayload("Alice", "Alice@Example.com"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created domain.Customer
	decodeBody(t, rr, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, created.BillingAddress, created.ShippingAddress)

	t.Run("duplicate email differs only by case", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/customers", customerPayload("Imposter", "ALICE@example.COM"))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/customers/"+created.ID, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var got domain.Customer
		decodeBody(t, rr, &got)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("list with search", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/customers?q=alice", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var page store.CustomerPage
		decodeBody(t, rr, &page)
		require.Len(t, page.Customers, 1)
		assert.Equal(t, 1, page.Total)
	})

	t.Run("update", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPut, "/customers/"+created.ID, customerPayload("Alice Smith", "alice@example.com"))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var got domain.Customer
		decodeBody(t, rr, &got)
		assert.Equal(t, "Alice Smith", got.Name)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("delete", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodDelete, "/customers/"+created.ID, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(t, router, http.MethodGet, "/customers/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCreateCustomerValidation(t *testing.T) {
	router := newTestRouter(t, "production")

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"missing name", customerPayload("", "a@example.com")},
		{"missing email", customerPayload("Alice", "")},
		{"malformed email", customerPayload("Alice", "not-an-email")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, router, http.MethodPost, "/customers", tc.payload)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	t.Run("unknown field rejected", func(t *testing.T) {
		payload := customerPayload("Alice", "alice@example.com")
		payload["admin"] = true
		rr := doJSON(t, router, http.MethodPost, "/customers", payload)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
