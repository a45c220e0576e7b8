package models

import "time"

// Referral is the model for the 'referrals' table. One row per
// successful redemption: the new user claimed an invite code and both
// sides received their reward.
type Referral struct {
	ID             int64     `json:"id" db:"id"`
	ReferrerID     int64     `json:"referrerId" db:"referrer_id"`
	ReferredUserID int64     `json:"referredUserId" db:"referred_user_id"`
	Code           string    `json:"code" db:"code"`
	RewardCredits  int       `json:"rewardCredits" db:"reward_credits"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`

	// Flattened for the referral dashboard
	ReferredName string `json:"referredName,omitempty" db:"-"`
}

// Referral reward tiers: the referrer earns more per redemption as
// their total count grows.
var referralRewardTiers = []struct {
	MinRedemptions int
	Credits        int
}{
	{MinRedemptions: 10, Credits: 30},
	{MinRedemptions: 3, Credits: 20},
	{MinRedemptions: 0, Credits: 10},
}

// ReferralRewardFor returns the credits the referrer earns for their
// next redemption, given how many they already have.
func ReferralRewardFor(priorRedemptions int) int {
	for _, tier := range referralRewardTiers {
		if priorRedemptions >= tier.MinRedemptions {
			return tier.Credits
		}
	}
	return 0
}
