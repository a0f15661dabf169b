package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Referral bonus categories. Membership rates apply after a membership
// purchase, topup rates after a wallet top-up.
const (
	ReferralCategoryMembership = "membership"
	ReferralCategoryTopup      = "topup"
)

// MaxReferralLevels caps the referral chain depth.
const MaxReferralLevels = 3

// ReferralLevelSetting is the bonus rate for one level of the chain.
// Percentage applies to the confirmed payment amount; MaxBonus caps the
// computed reward.
type ReferralLevelSetting struct {
	Level      int     `bson:"level" json:"level"`
	Percentage float64 `bson:"percentage" json:"percentage"`
	MaxBonus   float64 `bson:"maxBonus" json:"maxBonus"`
}

// ReferralSettings holds the per-level bonus rates for one category.
// Read-only at order-processing time.
type ReferralSettings struct {
	ID       primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Category string                 `bson:"category" json:"category"`
	Levels   []ReferralLevelSetting `bson:"levels" json:"levels"`
}

// LevelSetting returns the setting for the given level, or nil when the
// level is not configured.
func (s *ReferralSettings) LevelSetting(level int) *ReferralLevelSetting {
	for i := range s.Levels {
		if s.Levels[i].Level == level {
			return &s.Levels[i]
		}
	}
	return nil
}
