package handlers

import (
	"testing"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

func TestCanTransitionAllowsOperatorFlow(t *testing.T) {
	allowed := [][2]string{
		{models.OrderStatusPending, models.OrderStatusAccepted},
		{models.OrderStatusPending, models.OrderStatusRejected},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusAccepted, models.OrderStatusCompleted},
		{models.OrderStatusAccepted, models.OrderStatusCancelled},
		{models.OrderStatusPaymentPending, models.OrderStatusCancelled},
	}
	for _, tc := range allowed {
		if !canTransition(tc[0], tc[1]) {
			t.Fatalf("expected %s -> %s to be allowed", tc[0], tc[1])
		}
	}
}

func TestCanTransitionBlocksWebhookOwnedAndTerminalStates(t *testing.T) {
	blocked := [][2]string{
		{models.OrderStatusPaymentPending, models.OrderStatusPending},
		{models.OrderStatusPaymentPending, models.OrderStatusAccepted},
		{models.OrderStatusCompleted, models.OrderStatusPending},
		{models.OrderStatusCancelled, models.OrderStatusPending},
		{models.OrderStatusRejected, models.OrderStatusAccepted},
		{models.OrderStatusPending, models.OrderStatusCompleted},
	}
	for _, tc := range blocked {
		if canTransition(tc[0], tc[1]) {
			t.Fatalf("expected %s -> %s to be blocked", tc[0], tc[1])
		}
	}
}
