package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanionAvailability(t *testing.T) {
	tests := []struct {
		name      string
		companion string
		plan      string
		want      bool
	}{
		{"free companion on free plan", "blayzo", "bronze", true},
		{"free companion on gold plan", "blayzo", "gold", true},
		{"silver companion on free plan", "crimson", "bronze", false},
		{"silver companion on silver plan", "crimson", "silver", true},
		{"gold companion on silver plan", "galaxy", "silver", false},
		{"gold companion on gold plan", "galaxy", "gold", true},
		{"unknown plan treated as lowest tier", "violet", "platinum", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			companion := FindCompanion(tt.companion)
			assert.NotNil(t, companion)
			assert.Equal(t, tt.want, companion.AvailableTo(tt.plan))
		})
	}
}

func TestFindCompanionUnknownID(t *testing.T) {
	assert.Nil(t, FindCompanion("does-not-exist"))
}

func TestCompanionPersonaNotSerialized(t *testing.T) {
	// The persona is the system prompt and must never reach clients.
	companion := FindCompanion("galaxy")
	assert.NotNil(t, companion)
	assert.NotEmpty(t, companion.Persona)

	out, err := json.Marshal(companion)
	assert.NoError(t, err)
	assert.NotContains(t, string(out), companion.Persona)
}

func TestReferralRewardTiers(t *testing.T) {
	tests := []struct {
		prior int
		want  int
	}{
		{0, 10},
		{1, 10},
		{2, 10},
		{3, 20},
		{9, 20},
		{10, 30},
		{50, 30},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReferralRewardFor(tt.prior), "prior=%d", tt.prior)
	}
}
