package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User account statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// Address represents a single delivery address entry for a user.
type Address struct {
	ID        string `bson:"id" json:"id"`
	Title     string `bson:"title" json:"title"`
	Detail    string `bson:"detail" json:"detail"`
	Pincode   string `bson:"pincode" json:"pincode"`
	Note      string `bson:"note,omitempty" json:"note,omitempty"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// ReferralParent is one precomputed ancestor in the user's referral chain.
// The chain is fixed at registration time and capped at three levels;
// level 1 is the direct referrer.
type ReferralParent struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Level  int                `bson:"level" json:"level"`
}

// User represents the application user account. WalletBalance is the
// current spendable amount; wallet history is read from the transactions
// collection, never duplicated here.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email           string             `bson:"email" json:"email"`
	PasswordHash    string             `bson:"passwordHash" json:"-"`
	Name            string             `bson:"name" json:"name"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status          string             `bson:"status" json:"status"`
	WalletBalance   float64            `bson:"walletBalance" json:"walletBalance"`
	IsPrimeMember   bool               `bson:"isPrimeMember" json:"isPrimeMember"`
	ReferralCode    string             `bson:"referralCode" json:"referralCode"`
	ReferralParents []ReferralParent   `bson:"referralParents" json:"referralParents"`
	Addresses       []Address          `bson:"addresses" json:"addresses"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
