package finance

import (
	"testing"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

func TestRewardPercentageOfAmount(t *testing.T) {
	setting := models.ReferralLevelSetting{Level: 1, Percentage: 10, MaxBonus: 500}
	if got := Reward(1000, setting); got != 100 {
		t.Fatalf("expected 10%% of 1000 = 100, got %v", got)
	}
}

func TestRewardCappedAtMaxBonus(t *testing.T) {
	setting := models.ReferralLevelSetting{Level: 1, Percentage: 10, MaxBonus: 50}
	if got := Reward(1000, setting); got != 50 {
		t.Fatalf("expected reward capped at 50, got %v", got)
	}
}

func TestRewardNeverNegative(t *testing.T) {
	setting := models.ReferralLevelSetting{Level: 2, Percentage: -5, MaxBonus: 100}
	if got := Reward(1000, setting); got != 0 {
		t.Fatalf("expected floor at zero, got %v", got)
	}
}

func TestRewardZeroAmount(t *testing.T) {
	setting := models.ReferralLevelSetting{Level: 3, Percentage: 2, MaxBonus: 25}
	if got := Reward(0, setting); got != 0 {
		t.Fatalf("expected zero reward for zero amount, got %v", got)
	}
}
