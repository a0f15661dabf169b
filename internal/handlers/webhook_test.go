package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/PremPMehta/food-del-be-sub000/internal/gateway"
)

func newWebhookRouter(gw gateway.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// nil orchestrator/notifier are safe here: rejected deliveries never
	// reach reconciliation.
	r.POST("/payments/webhook", PaymentWebhook(gw, nil, nil))
	return r
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	r := newWebhookRouter(gateway.NewMock("whsec_test"))

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook",
		bytes.NewBufferString(`{"event":"payment_link.paid"}`))
	req.Header.Set("X-Razorpay-Signature", "deadbeef")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad signature, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestPaymentWebhookRejectsMissingSignature(t *testing.T) {
	r := newWebhookRouter(gateway.NewMock("whsec_test"))

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook",
		bytes.NewBufferString(`{"event":"payment_link.paid"}`))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing signature, got %d", w.Code)
	}
}

func TestPaymentWebhookRejectsUnparseablePayload(t *testing.T) {
	r := newWebhookRouter(gateway.NewMock("whsec_test"))

	// Correctly signed garbage: signature check passes, parsing must fail.
	garbage := []byte(`{"event":"payment_link.refunded","payload":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBuffer(garbage))
	req.Header.Set("X-Razorpay-Signature", signBody("whsec_test", garbage))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unparseable payload, got %d (%s)", w.Code, w.Body.String())
	}
}
