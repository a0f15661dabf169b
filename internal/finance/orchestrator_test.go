package finance

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
	"github.com/PremPMehta/food-del-be-sub000/internal/pricing"
)

func placementInput(total float64) PlacementInput {
	return PlacementInput{
		User:    models.User{ID: primitive.NewObjectID(), Status: models.UserStatusActive},
		Kind:    models.OrderKindFastfood,
		Priced:  &pricing.PricedCart{Total: total, AllVeg: true, IsJain: false},
		Contact: models.OrderContact{Name: "Asha", Email: "asha@example.com"},
		Delivery: models.OrderDelivery{
			Address: "12 MG Road",
			Pincode: "400001",
		},
		Kitchen: models.Kitchen{ID: primitive.NewObjectID()},
	}
}

func TestNewOrderWalletModeStartsPending(t *testing.T) {
	in := placementInput(700)
	plan := Decide(700, 1000)

	order := newOrder(in, plan, primitive.NewObjectID(), time.Now())
	if order.Status != models.OrderStatusPending {
		t.Fatalf("wallet-funded order must start pending, got %q", order.Status)
	}
	if order.PaymentMode != models.PaymentModeWallet {
		t.Fatalf("expected wallet mode, got %q", order.PaymentMode)
	}
}

func TestNewOrderGatewayLegsWaitOnPayment(t *testing.T) {
	tests := []struct {
		balance float64
		mode    string
	}{
		{200, models.PaymentModeSplit},
		{0, models.PaymentModeGateway},
	}
	for _, tc := range tests {
		in := placementInput(700)
		plan := Decide(700, tc.balance)

		order := newOrder(in, plan, primitive.NewObjectID(), time.Now())
		if order.Status != models.OrderStatusPaymentPending {
			t.Fatalf("%s order must start payment_pending, got %q", tc.mode, order.Status)
		}
		if order.PaymentMode != tc.mode {
			t.Fatalf("expected mode %q, got %q", tc.mode, order.PaymentMode)
		}
	}
}

func TestNewOrderSnapshotsPricedCart(t *testing.T) {
	in := placementInput(649.50)
	in.Priced.Items = []models.OrderItem{{Title: "Paneer Tikka", UnitPrice: 150, Quantity: 2}}
	plan := Decide(649.50, 0)
	orderID := primitive.NewObjectID()

	order := newOrder(in, plan, orderID, time.Now())
	if order.ID != orderID || order.UserID != in.User.ID || order.KitchenID != in.Kitchen.ID {
		t.Fatal("order must carry the placement identifiers")
	}
	if order.TotalAmount != 649.50 {
		t.Fatalf("expected total 649.50, got %v", order.TotalAmount)
	}
	if len(order.Items) != 1 || order.Items[0].Title != "Paneer Tikka" {
		t.Fatalf("expected priced items snapshot, got %+v", order.Items)
	}
	if order.Delivery.Pincode != "400001" {
		t.Fatalf("expected delivery snapshot, got %+v", order.Delivery)
	}
}
