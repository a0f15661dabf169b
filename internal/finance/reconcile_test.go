package finance

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

func TestConfirmationEffectTopupCreditsWallet(t *testing.T) {
	txn := models.Transaction{Purpose: models.TxnPurposeTopup, Amount: 500}

	effect, err := confirmationEffect(txn, models.User{}, 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !effect.creditWallet {
		t.Fatal("confirmed top-up must credit the wallet")
	}
	if effect.grantMembership || effect.advanceOrder {
		t.Fatalf("top-up must not grant membership or touch orders: %+v", effect)
	}
	if effect.referralCategory != models.ReferralCategoryTopup {
		t.Fatalf("expected topup referral rates, got %q", effect.referralCategory)
	}
}

func TestConfirmationEffectMembership(t *testing.T) {
	txn := models.Transaction{Purpose: models.TxnPurposeMembership, Amount: 999}

	effect, err := confirmationEffect(txn, models.User{}, 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !effect.creditWallet || !effect.grantMembership {
		t.Fatalf("membership must credit the wallet and grant prime: %+v", effect)
	}
	if effect.referralCategory != models.ReferralCategoryMembership {
		t.Fatalf("expected membership referral rates, got %q", effect.referralCategory)
	}
}

func TestConfirmationEffectMembershipAlreadyPrime(t *testing.T) {
	txn := models.Transaction{Purpose: models.TxnPurposeMembership, Amount: 999}
	user := models.User{IsPrimeMember: true}

	if _, err := confirmationEffect(txn, user, 999); !errors.Is(err, ErrUnreconcilable) {
		t.Fatalf("expected ErrUnreconcilable for existing member, got %v", err)
	}
}

func TestConfirmationEffectMembershipWrongAmount(t *testing.T) {
	txn := models.Transaction{Purpose: models.TxnPurposeMembership, Amount: 500}

	if _, err := confirmationEffect(txn, models.User{}, 999); !errors.Is(err, ErrUnreconcilable) {
		t.Fatalf("expected ErrUnreconcilable for wrong membership amount, got %v", err)
	}
}

func TestConfirmationEffectOrderAdvances(t *testing.T) {
	orderID := primitive.NewObjectID()
	txn := models.Transaction{Purpose: models.TxnPurposeOrder, Amount: 700, OrderID: &orderID}

	effect, err := confirmationEffect(txn, models.User{}, 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !effect.advanceOrder {
		t.Fatal("confirmed order leg must advance the order")
	}
	if effect.creditWallet || effect.referralCategory != "" {
		t.Fatalf("an order leg never credits the wallet or pays referrals: %+v", effect)
	}
}

func TestConfirmationEffectOrderWithoutOrderID(t *testing.T) {
	txn := models.Transaction{Purpose: models.TxnPurposeOrder, Amount: 700}

	if _, err := confirmationEffect(txn, models.User{}, 999); !errors.Is(err, ErrUnreconcilable) {
		t.Fatalf("expected ErrUnreconcilable for order leg without order, got %v", err)
	}
}

func TestConfirmationEffectUnknownPurpose(t *testing.T) {
	for _, purpose := range []string{models.TxnPurposeRefund, models.TxnPurposeReferralReward, "gift"} {
		txn := models.Transaction{Purpose: purpose, Amount: 100}
		if _, err := confirmationEffect(txn, models.User{}, 999); !errors.Is(err, ErrUnreconcilable) {
			t.Fatalf("expected ErrUnreconcilable for purpose %q, got %v", purpose, err)
		}
	}
}

func TestSplitRefundAmountReturnsWalletLeg(t *testing.T) {
	order := models.Order{PaymentMode: models.PaymentModeSplit, TotalAmount: 700}
	if got := splitRefundAmount(order, 500); got != 200 {
		t.Fatalf("expected wallet leg 200, got %v", got)
	}
}

func TestSplitRefundAmountZeroForOtherModes(t *testing.T) {
	wallet := models.Order{PaymentMode: models.PaymentModeWallet, TotalAmount: 700}
	if got := splitRefundAmount(wallet, 0); got != 0 {
		t.Fatalf("wallet-only order has no gateway refund leg, got %v", got)
	}

	gw := models.Order{PaymentMode: models.PaymentModeGateway, TotalAmount: 500}
	if got := splitRefundAmount(gw, 500); got != 0 {
		t.Fatalf("gateway-only order has no wallet leg, got %v", got)
	}
}

func TestSplitRefundAmountNeverNegative(t *testing.T) {
	order := models.Order{PaymentMode: models.PaymentModeSplit, TotalAmount: 300}
	if got := splitRefundAmount(order, 500); got != 0 {
		t.Fatalf("refund must clamp at zero, got %v", got)
	}
}
