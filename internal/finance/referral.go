package finance

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

// Reward computes the bonus for one referral level: a percentage of the
// confirmed payment amount, capped at the level's maximum.
func Reward(amount float64, setting models.ReferralLevelSetting) float64 {
	reward := amount * setting.Percentage / 100
	if reward > setting.MaxBonus {
		reward = setting.MaxBonus
	}
	if reward < 0 {
		return 0
	}
	return reward
}

// fanOutReferralBonus pays each prime ancestor in the payer's referral chain
// after a confirmed top-up or membership purchase. Non-prime ancestors are
// skipped outright, not queued. Runs inside the reconciliation transaction.
func (o *Orchestrator) fanOutReferralBonus(sessCtx mongo.SessionContext, payer models.User, amount float64, category string, outcome *ReconcileOutcome, now time.Time) error {
	if len(payer.ReferralParents) == 0 {
		return nil
	}

	var settings models.ReferralSettings
	err := o.db.Collection("referralsettings").FindOne(sessCtx, bson.M{"category": category}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return err
	}

	for _, parent := range payer.ReferralParents {
		if parent.Level < 1 || parent.Level > models.MaxReferralLevels {
			continue
		}
		setting := settings.LevelSetting(parent.Level)
		if setting == nil {
			continue
		}

		ancestor, err := o.loadUser(sessCtx, parent.UserID)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return err
		}
		if !ancestor.IsPrimeMember {
			continue
		}

		reward := Reward(amount, *setting)
		if reward <= 0 {
			continue
		}

		description := fmt.Sprintf("level %d referral bonus for %s by %s", parent.Level, category, payer.Name)
		if _, err := o.creditWallet(sessCtx, ancestor.ID, reward,
			models.TxnMethodReferral, models.TxnPurposeReferralReward,
			description, nil, nil, now); err != nil {
			return err
		}

		outcome.RewardsPaid++
		outcome.RewardAmount += reward
	}
	return nil
}
