package paymentControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/Asekrisaif/mediasoft-api/config"
	"github.com/Asekrisaif/mediasoft-api/models"
)

// StatusPaid is the gateway status code for a captured payment.
const StatusPaid = 3

// Gateway talks to the hosted-page card gateway: "create" opens a payment
// session and returns the page the customer is redirected to, "check"
// retrieves the session so a capture can be verified server-side.
type Gateway struct {
	cfg    config.GatewayConfig
	client *http.Client
}

func NewGateway(cfg config.GatewayConfig) *Gateway {
	return &Gateway{
		cfg: cfg,
		// Gateway calls happen outside any DB transaction; the timeout only
		// bounds the caller's wait.
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type gatewayResponse struct {
	Order struct {
		Ref    string `json:"ref"`
		URL    string `json:"url"`
		CartID string `json:"cartid"`
		Amount int64  `json:"amount"`
		Status struct {
			Code int    `json:"code"`
			Text string `json:"text"`
		} `json:"status"`
		Card struct {
			Brand  string `json:"brand"`
			Last4  string `json:"last4"`
			Expiry string `json:"expiry"`
		} `json:"card"`
	} `json:"order"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// SessionStatus is the checked state of a payment session.
type SessionStatus struct {
	Ref         string
	OrderRef    string
	StatusCode  int
	StatusText  string
	AmountMinor int64
	CardBrand   string
	CardLast4   string
	CardExpiry  string
}

// Succeeded reports whether the session captured the payment.
func (s *SessionStatus) Succeeded() bool {
	return s.StatusCode == StatusPaid
}

// MinorUnits converts a two-decimal amount to minor currency units.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (g *Gateway) testMode() int {
	if g.cfg.Mode == "sandbox" || g.cfg.Mode == "dev" {
		return 1 // test mode even on the live endpoint
	}
	return 0
}

// CreateSession opens a payment session for the order's amount due and
// returns the hosted page URL plus the session reference.
func (g *Gateway) CreateSession(order models.Order, user models.User) (string, string, error) {
	if g.cfg.StoreID == 0 || g.cfg.AuthKey == "" || g.cfg.APIURL == "" {
		return "", "", fmt.Errorf("gateway configuration missing")
	}

	payload := map[string]interface{}{
		"method":  "create",
		"store":   g.cfg.StoreID,
		"authkey": g.cfg.AuthKey,
		"order": map[string]interface{}{
			"cartid":      order.OrderRef,
			"test":        g.testMode(),
			"amount":      MinorUnits(order.AmountDue),
			"description": fmt.Sprintf("Order %s (%d items)", order.OrderRef, len(order.Items)),
		},
		"customer": map[string]interface{}{
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
			"address": map[string]string{
				"street":   user.Address.Street,
				"city":     user.Address.City,
				"region":   user.Address.State,
				"country":  user.Address.Country,
				"postcode": user.Address.PostalCode,
			},
		},
		"return": map[string]string{
			"authorised": g.cfg.SuccessURL,
			"declined":   g.cfg.FailureURL,
			"cancelled":  g.cfg.CancelURL,
		},
	}

	resp, err := g.post(payload)
	if err != nil {
		return "", "", err
	}
	if resp.Order.URL == "" {
		return "", "", fmt.Errorf("gateway returned empty payment URL")
	}
	return resp.Order.URL, resp.Order.Ref, nil
}

// CheckSession retrieves a payment session by its reference.
func (g *Gateway) CheckSession(ref string) (*SessionStatus, error) {
	if ref == "" {
		return nil, fmt.Errorf("payment reference is required")
	}
	payload := map[string]interface{}{
		"method":  "check",
		"store":   g.cfg.StoreID,
		"authkey": g.cfg.AuthKey,
		"order": map[string]interface{}{
			"ref": ref,
		},
	}

	resp, err := g.post(payload)
	if err != nil {
		return nil, err
	}
	return &SessionStatus{
		Ref:         resp.Order.Ref,
		OrderRef:    resp.Order.CartID,
		StatusCode:  resp.Order.Status.Code,
		StatusText:  resp.Order.Status.Text,
		AmountMinor: resp.Order.Amount,
		CardBrand:   resp.Order.Card.Brand,
		CardLast4:   resp.Order.Card.Last4,
		CardExpiry:  resp.Order.Card.Expiry,
	}, nil
}

func (g *Gateway) post(payload map[string]interface{}) (*gatewayResponse, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", g.cfg.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway API error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed gatewayResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %v", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("gateway error: %s", parsed.Error.Message)
	}
	return &parsed, nil
}
