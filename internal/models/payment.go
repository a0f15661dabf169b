package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses mirror the transaction statuses; a payment is terminal
// once completed or failed and is never reopened.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is one external-gateway charge attempt. GatewayOrderID is the
// gateway-assigned order/link id and is unique across all payments; webhook
// reconciliation looks payments up by it.
type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GatewayOrderID string             `bson:"gatewayOrderId" json:"gatewayOrderId"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	Amount         float64            `bson:"amount" json:"amount"`
	Purpose        string             `bson:"purpose" json:"purpose"`
	Description    string             `bson:"description" json:"description"`
	Status         string             `bson:"status" json:"status"`
	TransactionID  primitive.ObjectID `bson:"transactionId" json:"transactionId"`
	Link           string             `bson:"link" json:"link"`
	ConfirmedAt    *time.Time         `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
