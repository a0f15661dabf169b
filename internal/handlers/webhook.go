package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PremPMehta/food-del-be-sub000/internal/finance"
	"github.com/PremPMehta/food-del-be-sub000/internal/gateway"
	"github.com/PremPMehta/food-del-be-sub000/internal/metrics"
	"github.com/PremPMehta/food-del-be-sub000/internal/notify"
)

const signatureHeader = "X-Razorpay-Signature"

// PaymentWebhook consumes signed gateway callbacks. The signature is
// verified before anything touches the database; a replayed delivery is
// acknowledged without reapplying effects.
func PaymentWebhook(gw gateway.Gateway, orch *finance.Orchestrator, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payments/webhook"
		defer handlePanic(c, route)

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "unreadable body")
			return
		}

		signature := c.GetHeader(signatureHeader)
		if err := gw.VerifySignature(body, signature); err != nil {
			log.Printf("[%s] signature rejected: %v", route, err)
			metrics.WebhooksProcessedTotal.WithLabelValues("unknown", "bad_signature").Inc()
			respondWithError(c, http.StatusBadRequest, route, "invalid signature")
			return
		}

		event, err := gw.ParseEvent(body)
		if err != nil {
			log.Printf("[%s] unparseable event: %v", route, err)
			metrics.WebhooksProcessedTotal.WithLabelValues("unknown", "bad_payload").Inc()
			respondWithError(c, http.StatusBadRequest, route, "invalid payload")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		outcome, err := orch.Reconcile(ctx, event)
		if err != nil {
			respondReconcileError(c, route, err)
			return
		}

		purpose := outcome.Purpose
		if purpose == "" {
			purpose = "unknown"
		}

		if outcome.AlreadyTerminal {
			metrics.WebhooksProcessedTotal.WithLabelValues(purpose, "replayed").Inc()
			c.JSON(http.StatusOK, gin.H{"status": "ok", "note": "already reconciled"})
			return
		}

		metrics.WebhooksProcessedTotal.WithLabelValues(purpose, outcome.EventType).Inc()
		if outcome.RewardsPaid > 0 {
			metrics.ReferralPayoutsTotal.Add(float64(outcome.RewardsPaid))
			metrics.ReferralPayoutAmountTotal.Add(outcome.RewardAmount)
		}

		if outcome.OrderID != nil {
			status := "pending"
			if outcome.EventType == gateway.EventExpired {
				status = "cancelled"
			}
			go notifier.PublishOrder(notify.OrderEvent{
				OrderID: outcome.OrderID.Hex(),
				Status:  status,
			})
		}

		log.Printf("[%s] reconciled %s event for %s (purpose=%s)", route, outcome.EventType, event.GatewayOrderID, purpose)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func respondReconcileError(c *gin.Context, route string, err error) {
	var mismatch finance.AmountMismatchError
	switch {
	case errors.Is(err, finance.ErrPaymentNotFound):
		metrics.WebhooksProcessedTotal.WithLabelValues("unknown", "not_found").Inc()
		respondWithError(c, http.StatusNotFound, route, "payment not found")
	case errors.As(err, &mismatch):
		log.Printf("[%s] amount mismatch: %v", route, err)
		metrics.WebhooksProcessedTotal.WithLabelValues("unknown", "amount_mismatch").Inc()
		respondWithError(c, http.StatusConflict, route, "amount mismatch")
	case errors.Is(err, finance.ErrUnreconcilable):
		log.Printf("[%s] unreconcilable payment: %v", route, err)
		metrics.WebhooksProcessedTotal.WithLabelValues("unknown", "unreconcilable").Inc()
		respondWithError(c, http.StatusUnprocessableEntity, route, "unreconcilable payment")
	default:
		log.Printf("[%s] reconciliation failed: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "db error")
	}
}
