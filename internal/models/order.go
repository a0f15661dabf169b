package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order kinds. Thal orders are scheduled multi-category meals priced on the
// thal tier; fastfood orders are immediate and priced on the normal tier.
const (
	OrderKindThal     = "thal"
	OrderKindFastfood = "fastfood"
)

// Order statuses. An order starts at payment_pending whenever any gateway
// leg exists, and at pending only when it was fully wallet-funded.
const (
	OrderStatusPaymentPending = "payment_pending"
	OrderStatusPending        = "pending"
	OrderStatusAccepted       = "accepted"
	OrderStatusCompleted      = "completed"
	OrderStatusCancelled      = "cancelled"
	OrderStatusRejected       = "rejected"
)

// Payment modes.
const (
	PaymentModeWallet  = "wallet"
	PaymentModeGateway = "gateway"
	PaymentModeSplit   = "split"
)

// OrderCustomization is a selected customize option, with its price add-on
// snapshotted at order time.
type OrderCustomization struct {
	CategoryID primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	Title      string             `bson:"title" json:"title"`
	OptionID   primitive.ObjectID `bson:"optionId" json:"optionId"`
	Option     string             `bson:"option" json:"option"`
	PriceAddOn float64            `bson:"priceAddOn" json:"priceAddOn"`
}

// OrderItem represents a single dish entry within an order. UnitPrice is the
// catalog price for the order's tier at placement time and is never re-read.
type OrderItem struct {
	CategoryID     primitive.ObjectID   `bson:"categoryId" json:"categoryId"`
	DishID         primitive.ObjectID   `bson:"dishId" json:"dishId"`
	Title          string               `bson:"title" json:"title"`
	Diet           string               `bson:"diet" json:"diet"`
	UnitPrice      float64              `bson:"unitPrice" json:"unitPrice"`
	Quantity       int                  `bson:"quantity" json:"quantity"`
	Customizations []OrderCustomization `bson:"customizations,omitempty" json:"customizations,omitempty"`
}

// OrderCombo is a combo-meal selection with its amount snapshotted from the
// catalog combo record.
type OrderCombo struct {
	ComboID  primitive.ObjectID `bson:"comboId" json:"comboId"`
	Title    string             `bson:"title" json:"title"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Amount   float64            `bson:"amount" json:"amount"`
}

// OrderContact captures denormalized customer contact details for receipts.
type OrderContact struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// OrderDelivery is the delivery destination used for kitchen routing.
type OrderDelivery struct {
	Address string `bson:"address" json:"address"`
	Pincode string `bson:"pincode" json:"pincode"`
	Note    string `bson:"note,omitempty" json:"note,omitempty"`
}

// Order defines the persisted order document. Monetary fields are immutable
// after creation; only Status is mutated afterwards, by admin actions or by
// webhook reconciliation.
type Order struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID   `bson:"userId" json:"userId"`
	Kind         string               `bson:"kind" json:"kind"`
	Contact      OrderContact         `bson:"contact" json:"contact"`
	Delivery     OrderDelivery        `bson:"delivery" json:"delivery"`
	Items        []OrderItem          `bson:"items" json:"items"`
	Combos       []OrderCombo         `bson:"combos,omitempty" json:"combos,omitempty"`
	TotalAmount  float64              `bson:"totalAmount" json:"totalAmount"`
	IsJain       bool                 `bson:"isJain" json:"isJain"`
	KitchenID    primitive.ObjectID   `bson:"kitchenId" json:"kitchenId"`
	PaymentMode  string               `bson:"paymentMode" json:"paymentMode"`
	PaymentRefs  []primitive.ObjectID `bson:"paymentRefs" json:"paymentRefs"`
	Status       string               `bson:"status" json:"status"`
	ScheduledFor *time.Time           `bson:"scheduledFor,omitempty" json:"scheduledFor,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}
