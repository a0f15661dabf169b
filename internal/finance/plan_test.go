package finance

import (
	"testing"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

func TestDecideWalletCoversTotal(t *testing.T) {
	plan := Decide(120, 500)
	if plan.Mode != models.PaymentModeWallet {
		t.Fatalf("expected wallet mode, got %q", plan.Mode)
	}
	if plan.WalletLeg != 120 || plan.GatewayLeg != 0 {
		t.Fatalf("expected wallet leg 120 and no gateway leg, got %v/%v", plan.WalletLeg, plan.GatewayLeg)
	}
}

func TestDecideExactBalanceIsWalletOnly(t *testing.T) {
	plan := Decide(500, 500)
	if plan.Mode != models.PaymentModeWallet {
		t.Fatalf("expected wallet mode on exact balance, got %q", plan.Mode)
	}
	if plan.WalletLeg != 500 {
		t.Fatalf("expected full wallet leg 500, got %v", plan.WalletLeg)
	}
}

func TestDecideSplitZeroesWallet(t *testing.T) {
	plan := Decide(800, 300)
	if plan.Mode != models.PaymentModeSplit {
		t.Fatalf("expected split mode, got %q", plan.Mode)
	}
	if plan.WalletLeg != 300 {
		t.Fatalf("split must consume the entire balance, got wallet leg %v", plan.WalletLeg)
	}
	if plan.GatewayLeg != 500 {
		t.Fatalf("expected gateway leg 500, got %v", plan.GatewayLeg)
	}
}

func TestDecideEmptyWalletGoesToGateway(t *testing.T) {
	plan := Decide(250, 0)
	if plan.Mode != models.PaymentModeGateway {
		t.Fatalf("expected gateway mode, got %q", plan.Mode)
	}
	if plan.WalletLeg != 0 || plan.GatewayLeg != 250 {
		t.Fatalf("expected no wallet leg and gateway leg 250, got %v/%v", plan.WalletLeg, plan.GatewayLeg)
	}
}

func TestDecideLegsAlwaysSumToTotal(t *testing.T) {
	tests := []struct {
		total   float64
		balance float64
	}{
		{100, 0},
		{100, 50},
		{100, 100},
		{100, 250},
		{999.50, 499.25},
	}
	for _, tc := range tests {
		plan := Decide(tc.total, tc.balance)
		if plan.WalletLeg+plan.GatewayLeg != tc.total {
			t.Fatalf("legs %v + %v do not sum to total %v (balance %v)",
				plan.WalletLeg, plan.GatewayLeg, tc.total, tc.balance)
		}
	}
}
