package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders placed, by kind and payment mode.",
	}, []string{"kind", "payment_mode"})

	OrdersPlacedAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_amount_total",
		Help: "Total rupee amount of placed orders, by payment mode.",
	}, []string{"payment_mode"})

	WebhooksProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhooks_processed_total",
		Help: "Gateway webhooks processed, by purpose and outcome.",
	}, []string{"purpose", "outcome"})

	ReferralPayoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "referral_payouts_total",
		Help: "Referral reward transactions created.",
	})

	ReferralPayoutAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "referral_payout_amount_total",
		Help: "Total rupee amount paid out as referral rewards.",
	})
)
