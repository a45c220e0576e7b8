package credits

// Plan is a subscription tier. Bronze is the free tier; Silver and Gold
// are the paid tiers with a monthly "Artistic Time" allowance.
type Plan string

const (
	PlanBronze Plan = "bronze"
	PlanSilver Plan = "silver"
	PlanGold   Plan = "gold"
)

// Feature identifies a credit-gated action. Using typed constants
// instead of free strings means a typo fails to compile instead of
// silently costing 0 credits.
type Feature string

const (
	FeatureChatMessage     Feature = "chat_message"
	FeatureImageGeneration Feature = "image_generation"
	FeatureMeditation      Feature = "meditation"
	FeatureVoiceJournal    Feature = "voice_journal"
	FeatureMiniStudio      Feature = "mini_studio"
)

// Config holds the allowance and cost tables. It is built once at
// startup and injected into the Ledger; nothing reads it from globals.
type Config struct {
	// Allowances maps a plan to the credits granted at each monthly
	// reset. A zero allowance means the plan never resets.
	Allowances map[Plan]int

	// Costs maps a feature to its credit cost. Features missing from
	// the table are free.
	Costs map[Feature]int

	// TrialGrant is the one-time credit grant when a trial activates.
	TrialGrant int
}

// DefaultConfig returns the production allowance and cost tables.
func DefaultConfig() Config {
	return Config{
		Allowances: map[Plan]int{
			PlanBronze: 0,
			PlanSilver: 300,
			PlanGold:   750,
		},
		Costs: map[Feature]int{
			FeatureChatMessage:     1,
			FeatureImageGeneration: 15,
			FeatureMeditation:      8,
			FeatureVoiceJournal:    3,
			FeatureMiniStudio:      10,
		},
		TrialGrant: 60,
	}
}

// AllowanceFor returns the monthly allowance for a plan, 0 if unknown.
func (c Config) AllowanceFor(p Plan) int {
	return c.Allowances[p]
}

// CostOf returns the credit cost of a feature. Unknown features cost 0
// and are treated as free.
func (c Config) CostOf(f Feature) int {
	return c.Costs[f]
}
