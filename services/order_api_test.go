package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kendall-kelly/tailoring-orders-portal/models"
	"github.com/kendall-kelly/tailoring-orders-portal/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "token-123"

func sampleOrders() []models.Order {
	return []models.Order{
		{
			ID:        "o1",
			Status:    models.StatusPending,
			Gender:    models.GenderMale,
			OrderDate: time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
			Customer:  models.Customer{Name: "Ada", Email: "ada@example.com", Contact: "555-0100"},
			Location:  &models.Coordinates{Latitude: 6.9, Longitude: 79.8},
			Garment:   models.Garment{FabricType: "wool", Color: "navy", Fit: "slim", Sizing: models.StandardSizing(models.SizeM)},
			Style:     models.MaleStyle{CollarStyle: "spread", CuffType: "barrel", PocketStyle: "flap", TrouserFit: "slim", JacketStyle: "blazer", ButtonCount: 2},
		},
		{
			ID:        "o2",
			Status:    models.StatusDelivered,
			Gender:    models.GenderFemale,
			OrderDate: time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC),
			Style:     models.FemaleStyle{Neckline: "round"},
		},
	}
}

func newClient(t *testing.T, baseURL string) *HTTPOrderAPI {
	t.Helper()
	client, err := NewHTTPOrderAPI(baseURL, 5*time.Second, nil)
	require.NoError(t, err)
	return client
}

func TestNewHTTPOrderAPIValidatesURL(t *testing.T) {
	_, err := NewHTTPOrderAPI("://bad-url", time.Second, nil)
	assert.Error(t, err)

	_, err = NewHTTPOrderAPI("/relative", time.Second, nil)
	assert.Error(t, err)
}

func TestListMyOrders(t *testing.T) {
	fake := testutil.NewFakeOrderService(t, sampleOrders()...)
	client := newClient(t, fake.URL())

	orders, err := client.ListMyOrders(context.Background(), testToken)
	require.NoError(t, err)

	require.Len(t, orders, 2)
	assert.Equal(t, "o1", orders[0].ID)
	assert.Equal(t, "o2", orders[1].ID)
	assert.Equal(t, sampleOrders()[0].Style, orders[0].Style)

	req, ok := fake.LastRequest()
	require.True(t, ok)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/orders/my-orders", req.Path)
	assert.Equal(t, "Bearer "+testToken, req.Authorization)
	assert.Len(t, req.RequestID, 36, "request id should be a uuid")
}

func TestListMyOrdersEmpty(t *testing.T) {
	fake := testutil.NewFakeOrderService(t)
	fake.RespondNext(http.StatusOK, `{"success":true}`)
	client := newClient(t, fake.URL())

	orders, err := client.ListMyOrders(context.Background(), testToken)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderAPIFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"success false with message", http.StatusOK, `{"success":false,"message":"X"}`, http.StatusOK, "X"},
		{"server error with message", http.StatusInternalServerError, `{"success":false,"message":"Database unavailable"}`, http.StatusInternalServerError, "Database unavailable"},
		{"server error without body", http.StatusBadGateway, ``, http.StatusBadGateway, ""},
		{"unreadable success body", http.StatusOK, `<html>`, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeOrderService(t, sampleOrders()...)
			fake.RespondNext(tt.status, tt.body)
			client := newClient(t, fake.URL())

			_, err := client.ListMyOrders(context.Background(), testToken)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected APIError, got %T", err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestOrderAPITransportFailure(t *testing.T) {
	fake := testutil.NewFakeOrderService(t)
	url := fake.URL()
	fake.Server.Close()

	client := newClient(t, url)
	err := client.DeleteOrder(context.Background(), testToken, "abc")

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr), "expected TransportError, got %T", err)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestOrderAPIRequiresToken(t *testing.T) {
	fake := testutil.NewFakeOrderService(t)
	client := newClient(t, fake.URL())

	_, err := client.ListMyOrders(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Empty(t, fake.Requests(), "no request should be sent without a token")
}

func TestDeleteOrder(t *testing.T) {
	fake := testutil.NewFakeOrderService(t, sampleOrders()...)
	client := newClient(t, fake.URL())

	require.NoError(t, client.DeleteOrder(context.Background(), testToken, "o1"))

	req, _ := fake.LastRequest()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/api/orders/o1", req.Path)
	require.Len(t, fake.Orders(), 1)
	assert.Equal(t, "o2", fake.Orders()[0].ID)

	err := client.DeleteOrder(context.Background(), testToken, "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Order not found", apiErr.Message)
}

func TestDeleteOrderEscapesID(t *testing.T) {
	fake := testutil.NewFakeOrderService(t)
	client := newClient(t, fake.URL())

	_ = client.DeleteOrder(context.Background(), testToken, "a/b")

	req, _ := fake.LastRequest()
	assert.Equal(t, "/api/orders/a/b", req.Path, "decoded path keeps the slash inside one segment")
	assert.Equal(t, 1, len(fake.Requests()))
}

func TestUpdateOrder(t *testing.T) {
	fake := testutil.NewFakeOrderService(t, sampleOrders()...)
	client := newClient(t, fake.URL())

	update := models.OrderUpdate{
		ID:               "o1",
		Gender:           models.GenderMale,
		Customer:         models.Customer{Name: "Ada L.", Email: "ada@example.com", Contact: "555-0101"},
		Location:         &models.Coordinates{Latitude: 6.9, Longitude: 79.8},
		DeliveryLocation: "12 Galle Road",
		Garment:          models.Garment{FabricType: "linen", Color: "white", Fit: "regular", Sizing: models.StandardSizing(models.SizeL)},
		Style:            models.MaleStyle{CollarStyle: "mandarin", CuffType: "french", PocketStyle: "none", TrouserFit: "straight", JacketStyle: "nehru", ButtonCount: 4},
	}

	updated, err := client.UpdateOrder(context.Background(), testToken, update)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Customer.Name)
	assert.Equal(t, models.StatusPending, updated.Status, "status is preserved by the service")
	assert.Equal(t, update.Style, updated.Style)

	req, _ := fake.LastRequest()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/api/orders/o1", req.Path)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	want := map[string]interface{}{
		"_id":              "o1",
		"gender":           "male",
		"customerName":     "Ada L.",
		"customerEmail":    "ada@example.com",
		"customerContact":  "555-0101",
		"location":         map[string]interface{}{"lat": 6.9, "lng": 79.8},
		"deliveryLocation": "12 Galle Road",
		"description":      "",
		"fabricType":       "linen",
		"color":            "white",
		"fit":              "regular",
		"sizingType":       "standard",
		"standardSize":     "L",
		"collarStyle":      "mandarin",
		"cuffType":         "french",
		"pocketStyle":      "none",
		"trouserFit":       "straight",
		"jacketStyle":      "nehru",
		"buttonCount":      float64(4),
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("update body mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateOrderWithoutOrderInResponse(t *testing.T) {
	fake := testutil.NewFakeOrderService(t, sampleOrders()...)
	fake.RespondNext(http.StatusOK, `{"success":true}`)
	client := newClient(t, fake.URL())

	_, err := client.UpdateOrder(context.Background(), testToken, models.OrderUpdate{ID: "o1"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
}

func TestOrderAPIRespectsBasePath(t *testing.T) {
	fake := testutil.NewFakeOrderService(t)
	client := newClient(t, fake.URL()+"/")

	_, err := client.ListMyOrders(context.Background(), testToken)
	require.NoError(t, err)

	req, _ := fake.LastRequest()
	assert.Equal(t, "/api/orders/my-orders", req.Path)
}
