package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Mock is the deterministic test backend. Links are held in memory and
// confirmed by the caller through SimulateSuccess/SimulateFailure, which
// return signed webhook payloads replayable against the real webhook
// endpoint.
type Mock struct {
	secret string

	mu    sync.Mutex
	links map[string]LinkRequest
}

func NewMock(secret string) *Mock {
	return &Mock{
		secret: secret,
		links:  make(map[string]LinkRequest),
	}
}

func (m *Mock) CreateLink(_ context.Context, req LinkRequest) (*Link, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %v", req.Amount)
	}

	id := "mocklink_" + uuid.NewString()

	m.mu.Lock()
	m.links[id] = req
	m.mu.Unlock()

	return &Link{
		GatewayOrderID: id,
		URL:            "https://pay.mock.local/" + id,
	}, nil
}

func (m *Mock) VerifySignature(body []byte, signature string) error {
	return verifyHMAC(m.secret, body, signature)
}

func (m *Mock) ParseEvent(body []byte) (*Event, error) {
	return parseEnvelope(body)
}

// SimulateSuccess produces the signed "paid" webhook for a minted link.
func (m *Mock) SimulateSuccess(gatewayOrderID string) (body []byte, signature string, err error) {
	return m.simulate(gatewayOrderID, "payment_link.paid", "paid")
}

// SimulateFailure produces the signed "expired" webhook for a minted link.
func (m *Mock) SimulateFailure(gatewayOrderID string) (body []byte, signature string, err error) {
	return m.simulate(gatewayOrderID, "payment_link.expired", "expired")
}

func (m *Mock) simulate(gatewayOrderID, event, status string) ([]byte, string, error) {
	m.mu.Lock()
	req, ok := m.links[gatewayOrderID]
	m.mu.Unlock()
	if !ok {
		return nil, "", fmt.Errorf("unknown payment link %q", gatewayOrderID)
	}

	var env webhookEnvelope
	env.Event = event
	env.Payload.PaymentLink.Entity.ID = gatewayOrderID
	env.Payload.PaymentLink.Entity.Amount = RupeesToPaise(req.Amount)
	env.Payload.PaymentLink.Entity.Status = status

	body, err := json.Marshal(env)
	if err != nil {
		return nil, "", err
	}
	return body, signHMAC(m.secret, body), nil
}
