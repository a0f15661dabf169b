package gateway

import (
	"context"
	"strings"
	"testing"
)

func TestMockLinkAndPaidWebhookRoundTrip(t *testing.T) {
	m := NewMock("whsec_test")

	link, err := m.CreateLink(context.Background(), LinkRequest{
		Amount:      649.50,
		Description: "order receipt #42",
		Reference:   "rcpt_42",
	})
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	if !strings.HasPrefix(link.GatewayOrderID, "mocklink_") {
		t.Fatalf("unexpected gateway order id %q", link.GatewayOrderID)
	}

	body, signature, err := m.SimulateSuccess(link.GatewayOrderID)
	if err != nil {
		t.Fatalf("SimulateSuccess failed: %v", err)
	}
	if err := m.VerifySignature(body, signature); err != nil {
		t.Fatalf("signature should verify: %v", err)
	}

	event, err := m.ParseEvent(body)
	if err != nil {
		t.Fatalf("ParseEvent failed: %v", err)
	}
	if event.Type != EventPaid {
		t.Fatalf("expected paid event, got %q", event.Type)
	}
	if event.GatewayOrderID != link.GatewayOrderID {
		t.Fatalf("event id %q does not match link %q", event.GatewayOrderID, link.GatewayOrderID)
	}
	if event.Amount != 649.50 {
		t.Fatalf("expected amount 649.50 back from paise, got %v", event.Amount)
	}
}

func TestMockExpiredWebhook(t *testing.T) {
	m := NewMock("whsec_test")
	link, err := m.CreateLink(context.Background(), LinkRequest{Amount: 100})
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}

	body, _, err := m.SimulateFailure(link.GatewayOrderID)
	if err != nil {
		t.Fatalf("SimulateFailure failed: %v", err)
	}
	event, err := m.ParseEvent(body)
	if err != nil {
		t.Fatalf("ParseEvent failed: %v", err)
	}
	if event.Type != EventExpired {
		t.Fatalf("expected expired event, got %q", event.Type)
	}
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	m := NewMock("whsec_test")
	link, err := m.CreateLink(context.Background(), LinkRequest{Amount: 100})
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	body, signature, err := m.SimulateSuccess(link.GatewayOrderID)
	if err != nil {
		t.Fatalf("SimulateSuccess failed: %v", err)
	}

	tampered := []byte(strings.Replace(string(body), `"amount":10000`, `"amount":1`, 1))
	if err := m.VerifySignature(tampered, signature); err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature for tampered body, got %v", err)
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	m := NewMock("whsec_test")
	link, err := m.CreateLink(context.Background(), LinkRequest{Amount: 100})
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	body, signature, err := m.SimulateSuccess(link.GatewayOrderID)
	if err != nil {
		t.Fatalf("SimulateSuccess failed: %v", err)
	}

	other := NewMock("whsec_other")
	if err := other.VerifySignature(body, signature); err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature across secrets, got %v", err)
	}
}

func TestMockRejectsNonPositiveAmount(t *testing.T) {
	m := NewMock("whsec_test")
	if _, err := m.CreateLink(context.Background(), LinkRequest{Amount: 0}); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestMockSimulateUnknownLink(t *testing.T) {
	m := NewMock("whsec_test")
	if _, _, err := m.SimulateSuccess("mocklink_missing"); err == nil {
		t.Fatal("expected error for unknown link")
	}
}

func TestPaiseConversionRoundsHalfUp(t *testing.T) {
	tests := []struct {
		rupees float64
		paise  int64
	}{
		{0, 0},
		{1, 100},
		{649.50, 64950},
		{0.01, 1},
		{129.99, 12999},
	}
	for _, tc := range tests {
		if got := RupeesToPaise(tc.rupees); got != tc.paise {
			t.Fatalf("RupeesToPaise(%v) = %d, want %d", tc.rupees, got, tc.paise)
		}
		if got := PaiseToRupees(tc.paise); got != tc.rupees {
			t.Fatalf("PaiseToRupees(%d) = %v, want %v", tc.paise, got, tc.rupees)
		}
	}
}

func TestParseEventRejectsUnknownEvent(t *testing.T) {
	body := []byte(`{"event":"payment_link.partially_paid","payload":{"payment_link":{"entity":{"id":"plink_1","amount":100}}}}`)
	if _, err := parseEnvelope(body); err == nil {
		t.Fatal("expected error for unsupported event type")
	}
}

func TestParseEventRejectsMissingLinkID(t *testing.T) {
	body := []byte(`{"event":"payment_link.paid","payload":{"payment_link":{"entity":{"amount":100}}}}`)
	if _, err := parseEnvelope(body); err == nil {
		t.Fatal("expected error for payload without link id")
	}
}
