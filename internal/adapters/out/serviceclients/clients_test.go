package serviceclients_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"foodorder/internal/adapters/out/serviceclients"
	"foodorder/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCartClient_GetOrCreateCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/carts/1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"userId": 1,
			"restaurantId": 2,
			"items": [
				{"menuItemId": 10, "name": "Margherita", "quantity": 2, "price": "150.00"},
				{"menuItemId": 11, "name": "Caesar Salad", "quantity": 1, "price": "95.50"}
			]
		}`))
	}))
	defer server.Close()

	client := serviceclients.NewHTTPCartClient(server.URL)
	cart, err := client.GetOrCreateCart(t.Context(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), cart.UserID)
	assert.Equal(t, int64(2), cart.RestaurantID)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Margherita", cart.Items[0].Name)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(150)))
	assert.True(t, cart.Items[1].Price.Equal(decimal.RequireFromString("95.50")))
}

func TestHTTPCartClient_GetOrCreateCart_MalformedPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"userId":1,"restaurantId":2,"items":[{"menuItemId":10,"name":"X","quantity":1,"price":"lots"}]}`))
	}))
	defer server.Close()

	client := serviceclients.NewHTTPCartClient(server.URL)
	_, err := client.GetOrCreateCart(t.Context(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed price")
}

func TestHTTPCartClient_ClearCart(t *testing.T) {
	var cleared atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/carts/1/items", r.URL.Path)
		cleared.Store(true)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := serviceclients.NewHTTPCartClient(server.URL)
	require.NoError(t, client.ClearCart(t.Context(), 1))
	assert.True(t, cleared.Load())
}

func TestHTTPPaymentClient_ProcessPayment_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/payments", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "300", body["amount"])
		assert.Equal(t, "CARD", body["paymentMethod"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"paymentId": 77, "status": "SUCCESS"}`))
	}))
	defer server.Close()

	client := serviceclients.NewHTTPPaymentClient(server.URL)
	result, err := client.ProcessPayment(t.Context(), ports.PaymentRequest{
		OrderID: 41,
		Amount:  decimal.NewFromInt(300),
		Method:  ports.PaymentMethodCard,
		PayerID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), result.PaymentID)
	assert.Equal(t, "SUCCESS", result.Status)
}

func TestHTTPPaymentClient_ProcessPayment_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"paymentId": 77, "status": "SUCCESS"}`))
	}))
	defer server.Close()

	client := serviceclients.NewHTTPPaymentClient(server.URL)
	start := time.Now()
	result, err := client.ProcessPayment(t.Context(), ports.PaymentRequest{
		OrderID: 41, Amount: decimal.NewFromInt(300), Method: ports.PaymentMethodCard, PayerID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), result.PaymentID)
	assert.Equal(t, int32(3), calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Second)
}

func TestHTTPPaymentClient_ProcessPayment_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := serviceclients.NewHTTPPaymentClient(server.URL)
	_, err := client.ProcessPayment(t.Context(), ports.PaymentRequest{
		OrderID: 41, Amount: decimal.NewFromInt(300), Method: ports.PaymentMethodCard, PayerID: 1,
	})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPPaymentClient_ProcessPayment_DoesNotRetryRejection(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := serviceclients.NewHTTPPaymentClient(server.URL)
	_, err := client.ProcessPayment(t.Context(), ports.PaymentRequest{
		OrderID: 41, Amount: decimal.NewFromInt(300), Method: ports.PaymentMethodCard, PayerID: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment rejected")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPDeliveryClient_AssignAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/deliveries", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(41), body["orderId"])
		assert.Equal(t, "42 Main St", body["deliveryAddress"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"agentId": 5, "deliveryId": 9}`))
	}))
	defer server.Close()

	client := serviceclients.NewHTTPDeliveryClient(server.URL)
	result, err := client.AssignAgent(t.Context(), ports.AgentAssignment{
		OrderID: 41, RestaurantID: 2, DeliveryAddress: "42 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.AgentID)
	assert.Equal(t, int64(9), result.DeliveryID)
}

func TestHTTPDeliveryClient_AssignAgent_NoAgents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := serviceclients.NewHTTPDeliveryClient(server.URL)
	_, err := client.AssignAgent(t.Context(), ports.AgentAssignment{
		OrderID: 41, RestaurantID: 2, DeliveryAddress: "42 Main St",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestHTTPDeliveryClient_NotifyDelivered(t *testing.T) {
	deliveredAt := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/deliveries/9/complete", r.URL.Path)

		var body struct {
			DeliveredAt time.Time `json:"deliveredAt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, deliveredAt.Equal(body.DeliveredAt))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := serviceclients.NewHTTPDeliveryClient(server.URL)
	require.NoError(t, client.NotifyDelivered(t.Context(), 9, deliveredAt))
}
