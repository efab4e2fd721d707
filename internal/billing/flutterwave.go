// Package billing creates Flutterwave checkout links for agent plans.
// This is a single linear call to the payment gateway; all branching in the
// backend stays at the validation boundary.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odiadev/odia-backend/internal/agent"
)

// Client calls the Flutterwave v3 payments API.
type Client struct {
	Endpoint    string
	SecretKey   string
	RedirectURL string
	HTTP        *http.Client
}

// CheckoutRequest is the validated input for one payment link.
type CheckoutRequest struct {
	Phone string
	Plan  string
	Email string
}

// Checkout is the caller-facing result.
type Checkout struct {
	CheckoutLink string `json:"checkout_link"`
	TxRef        string `json:"tx_ref"`
	Amount       int    `json:"amount"`
}

type paymentPayload struct {
	TxRef       string         `json:"tx_ref"`
	Amount      int            `json:"amount"`
	Currency    string         `json:"currency"`
	RedirectURL string         `json:"redirect_url"`
	Customer    customer       `json:"customer"`
	Meta        map[string]any `json:"meta"`
}

type customer struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Name        string `json:"name"`
}

type paymentResponse struct {
	Status string `json:"status"`
	Data   struct {
		Link string `json:"link"`
	} `json:"data"`
}

// CreatePayment creates a payment and returns the hosted checkout link.
// Success requires both a 2xx response and a literal "success" status field
// in the body.
func (c *Client) CreatePayment(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	amount := planAmount(req.Plan)
	txRef := fmt.Sprintf("ODIA-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])

	payload := paymentPayload{
		TxRef:       txRef,
		Amount:      amount,
		Currency:    "NGN",
		RedirectURL: c.RedirectURL,
		Customer: customer{
			Email:       req.Email,
			PhoneNumber: req.Phone,
			Name:        emailLocalPart(req.Email),
		},
		Meta: map[string]any{"plan": req.Plan},
	}

	body, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/v3/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("flutterwave: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.client().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("flutterwave: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("flutterwave: read response: %w", err)
	}

	var fwResp paymentResponse
	if err := json.Unmarshal(respBody, &fwResp); err != nil {
		return nil, fmt.Errorf("flutterwave: decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || fwResp.Status != "success" {
		return nil, fmt.Errorf("flutterwave: status %d: %s", resp.StatusCode, string(respBody))
	}

	return &Checkout{
		CheckoutLink: fwResp.Data.Link,
		TxRef:        txRef,
		Amount:       amount,
	}, nil
}

// planAmount maps a plan name to its monthly price, defaulting to the
// default persona's price for unknown plans.
func planAmount(plan string) int {
	if def, ok := agent.Get(agent.ID(plan)); ok {
		return def.MonthlyPrice
	}
	def, _ := agent.Get(agent.Default)
	return def.MonthlyPrice
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

func (c *Client) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 30 * time.Second}
}
