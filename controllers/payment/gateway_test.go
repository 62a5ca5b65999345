package paymentControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asekrisaif/mediasoft-api/config"
	"github.com/Asekrisaif/mediasoft-api/models"
)

func testGateway(url string) *Gateway {
	return NewGateway(config.GatewayConfig{
		StoreID: 12345,
		AuthKey: "key",
		APIURL:  url,
		Mode:    "sandbox",
	})
}

func TestMinorUnits(t *testing.T) {
	assert.EqualValues(t, 18300, MinorUnits(183.00))
	assert.EqualValues(t, 9999, MinorUnits(99.99))
	assert.EqualValues(t, 10, MinorUnits(0.1))
	assert.EqualValues(t, 0, MinorUnits(0))
}

func TestCreateSession(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"order": map[string]interface{}{
				"ref": "sess-001",
				"url": "https://pay.example/sess-001",
			},
		})
	}))
	defer server.Close()

	order := models.Order{OrderRef: "20250901120000-x", AmountDue: 183.00}
	user := models.User{Name: "Test User", Email: "u@example.com"}

	url, ref, err := testGateway(server.URL).CreateSession(order, user)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/sess-001", url)
	assert.Equal(t, "sess-001", ref)

	assert.Equal(t, "create", captured["method"])
	orderPayload := captured["order"].(map[string]interface{})
	assert.Equal(t, "20250901120000-x", orderPayload["cartid"])
	assert.EqualValues(t, 18300, orderPayload["amount"]) // minor units
	assert.EqualValues(t, 1, orderPayload["test"])       // sandbox mode
}

func TestCreateSession_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": "E04", "message": "invalid store"},
		})
	}))
	defer server.Close()

	_, _, err := testGateway(server.URL).CreateSession(models.Order{}, models.User{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid store")
}

func TestCreateSession_MissingConfig(t *testing.T) {
	gw := NewGateway(config.GatewayConfig{})
	_, _, err := gw.CreateSession(models.Order{}, models.User{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration missing")
}

func TestCheckSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"order": map[string]interface{}{
				"ref":    "sess-001",
				"cartid": "20250901120000-x",
				"amount": 18300,
				"status": map[string]interface{}{"code": 3, "text": "Paid"},
				"card":   map[string]interface{}{"brand": "Visa", "last4": "4242", "expiry": "12/27"},
			},
		})
	}))
	defer server.Close()

	status, err := testGateway(server.URL).CheckSession("sess-001")
	require.NoError(t, err)
	assert.True(t, status.Succeeded())
	assert.Equal(t, "20250901120000-x", status.OrderRef)
	assert.EqualValues(t, 18300, status.AmountMinor)
	assert.Equal(t, "Visa", status.CardBrand)
	assert.Equal(t, "4242", status.CardLast4)
	assert.Equal(t, "12/27", status.CardExpiry)
}

func TestCheckSession_NotPaid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"order": map[string]interface{}{
				"ref":    "sess-002",
				"status": map[string]interface{}{"code": 6, "text": "Declined"},
			},
		})
	}))
	defer server.Close()

	status, err := testGateway(server.URL).CheckSession("sess-002")
	require.NoError(t, err)
	assert.False(t, status.Succeeded())
	assert.Equal(t, "Declined", status.StatusText)
}

func TestCheckSession_EmptyRef(t *testing.T) {
	_, err := testGateway("http://unused").CheckSession("")
	require.Error(t, err)
}
