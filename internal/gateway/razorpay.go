package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// Razorpay is the live gateway backend. It mints hosted payment links via
// the Payment Links API and verifies webhooks with the shared webhook
// secret.
type Razorpay struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

func NewRazorpay(keyID, keySecret, webhookSecret string) *Razorpay {
	return &Razorpay{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		baseURL:       razorpayBaseURL,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

type razorpayLinkRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Description    string            `json:"description"`
	ReferenceID    string            `json:"reference_id"`
	Customer       razorpayCustomer  `json:"customer"`
	CallbackURL    string            `json:"callback_url,omitempty"`
	CallbackMethod string            `json:"callback_method,omitempty"`
	Notes          map[string]string `json:"notes,omitempty"`
}

type razorpayCustomer struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

type razorpayLinkResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
	Error    struct {
		Description string `json:"description"`
	} `json:"error"`
}

func (r *Razorpay) CreateLink(ctx context.Context, req LinkRequest) (*Link, error) {
	payload := razorpayLinkRequest{
		Amount:      RupeesToPaise(req.Amount),
		Currency:    "INR",
		Description: req.Description,
		ReferenceID: req.Reference,
		Customer: razorpayCustomer{
			Name:    req.CustomerName,
			Email:   req.CustomerEmail,
			Contact: req.CustomerPhone,
		},
	}
	if req.ReturnURL != "" {
		payload.CallbackURL = req.ReturnURL
		payload.CallbackMethod = "get"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/payment_links", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.keyID, r.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment link request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var linkResp razorpayLinkResponse
	if err := json.Unmarshal(respBody, &linkResp); err != nil {
		return nil, fmt.Errorf("decode razorpay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("razorpay returned %d: %s", resp.StatusCode, linkResp.Error.Description)
	}
	if linkResp.ID == "" || linkResp.ShortURL == "" {
		return nil, fmt.Errorf("razorpay returned no usable payment link")
	}

	return &Link{GatewayOrderID: linkResp.ID, URL: linkResp.ShortURL}, nil
}

func (r *Razorpay) VerifySignature(body []byte, signature string) error {
	return verifyHMAC(r.webhookSecret, body, signature)
}

func (r *Razorpay) ParseEvent(body []byte) (*Event, error) {
	return parseEnvelope(body)
}
