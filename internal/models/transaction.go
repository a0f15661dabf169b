package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction directions.
const (
	TxnDirectionCredit = "credit"
	TxnDirectionDebit  = "debit"
)

// Transaction payment methods.
const (
	TxnMethodWallet   = "wallet"
	TxnMethodGateway  = "gateway"
	TxnMethodReferral = "referral"
)

// Transaction statuses. Synchronous wallet movements are created completed;
// anything awaiting external confirmation starts pending.
const (
	TxnStatusPending   = "pending"
	TxnStatusCompleted = "completed"
	TxnStatusFailed    = "failed"
)

// Transaction purposes. The reconciliation handler switches on this field to
// route a confirmed payment to the right effect.
const (
	TxnPurposeOrder          = "order"
	TxnPurposeTopup          = "topup"
	TxnPurposeMembership     = "membership"
	TxnPurposeReferralReward = "referral_reward"
	TxnPurposeRefund         = "refund"
)

// Transaction is one atomic ledger movement. StartingBalance and
// ClosingBalance snapshot the wallet around a wallet-touching movement;
// closing = starting + amount for credits and starting - amount for debits.
type Transaction struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"userId" json:"userId"`
	Direction       string              `bson:"direction" json:"direction"`
	Amount          float64             `bson:"amount" json:"amount"`
	Method          string              `bson:"method" json:"method"`
	Purpose         string              `bson:"purpose" json:"purpose"`
	Status          string              `bson:"status" json:"status"`
	PaymentID       *primitive.ObjectID `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	OrderID         *primitive.ObjectID `bson:"orderId,omitempty" json:"orderId,omitempty"`
	Description     string              `bson:"description" json:"description"`
	StartingBalance *float64            `bson:"startingBalance,omitempty" json:"startingBalance,omitempty"`
	ClosingBalance  *float64            `bson:"closingBalance,omitempty" json:"closingBalance,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}
