package models

// PlanInfo is a row of the public plan catalog returned by
// GET /v1/subscriptions/plans. The credit allowances themselves live in
// the credits package config; this is the marketing-facing view.
type PlanInfo struct {
	ID             string  `json:"id"`   // bronze, silver, gold
	Name           string  `json:"name"` // display name
	PriceUSD       float64 `json:"priceUsd"`
	MonthlyCredits int     `json:"monthlyCredits"`
	Description    string  `json:"description"`
	StripePriceID  string  `json:"-"` // configured via env, not exposed
}

// ChatMessage is the model for the 'chat_history' table.
type ChatMessage struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"userId" db:"user_id"`
	CompanionID string `json:"companionId" db:"companion_id"`
	UserMessage string `json:"userMessage" db:"user_message"`
	AIResponse  string `json:"aiResponse" db:"ai_response"`
	TokensUsed  int    `json:"tokensUsed" db:"tokens_used"`
	CreditsUsed int    `json:"creditsUsed" db:"credits_used"`
}
