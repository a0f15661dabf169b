// Package gateway wraps the external payment gateway behind a single
// interface so order placement and webhook reconciliation never know which
// backend is live. Two implementations exist: the Razorpay REST client and a
// deterministic in-memory mock for integration testing.
package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// Webhook event kinds, normalized across backends.
const (
	EventPaid    = "paid"
	EventExpired = "expired"
)

// ErrBadSignature is returned when a webhook signature does not match.
// Verification fails closed: an unverifiable payload is never processed.
var ErrBadSignature = errors.New("webhook signature mismatch")

// LinkRequest asks the gateway to mint a hosted payment link.
type LinkRequest struct {
	Amount        float64 // rupees
	Description   string
	Reference     string // our receipt id, echoed back by the gateway
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ReturnURL     string
	CancelURL     string
}

// Link is a minted hosted payment link. GatewayOrderID is the
// gateway-assigned id webhooks are matched against.
type Link struct {
	GatewayOrderID string
	URL            string
}

// Event is a normalized, signature-verified webhook payload.
type Event struct {
	Type           string
	GatewayOrderID string
	Amount         float64 // rupees, as confirmed by the gateway
}

// Gateway is the contract both backends satisfy.
type Gateway interface {
	// CreateLink mints a hosted payment link. Network I/O; callers must
	// invoke it outside any held database transaction.
	CreateLink(ctx context.Context, req LinkRequest) (*Link, error)

	// VerifySignature checks the webhook body against its signature header
	// and returns ErrBadSignature on mismatch.
	VerifySignature(body []byte, signature string) error

	// ParseEvent decodes a verified webhook body into a normalized Event.
	ParseEvent(body []byte) (*Event, error)
}

// webhookEnvelope is the wire shape shared by both backends (the mock emits
// payloads in the Razorpay payment_link envelope).
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		PaymentLink struct {
			Entity struct {
				ID     string `json:"id"`
				Amount int64  `json:"amount"` // paise
				Status string `json:"status"`
			} `json:"entity"`
		} `json:"payment_link"`
	} `json:"payload"`
}

func parseEnvelope(body []byte) (*Event, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	if env.Payload.PaymentLink.Entity.ID == "" {
		return nil, errors.New("webhook payload has no payment link id")
	}

	event := &Event{
		GatewayOrderID: env.Payload.PaymentLink.Entity.ID,
		Amount:         PaiseToRupees(env.Payload.PaymentLink.Entity.Amount),
	}
	switch env.Event {
	case "payment_link.paid":
		event.Type = EventPaid
	case "payment_link.expired", "payment_link.cancelled":
		event.Type = EventExpired
	default:
		return nil, fmt.Errorf("unsupported webhook event %q", env.Event)
	}
	return event, nil
}

func verifyHMAC(secret string, body []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

func signHMAC(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// RupeesToPaise converts a rupee amount to the integer paise the gateway
// works in.
func RupeesToPaise(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

// PaiseToRupees converts gateway paise back to rupees.
func PaiseToRupees(paise int64) float64 {
	return float64(paise) / 100
}
