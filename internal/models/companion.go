package models

// Companion is an entry in the static AI companion catalog. Each
// companion has a persona prompt fed to the model and a minimum plan
// tier that may select it.
type Companion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Persona     string `json:"-"` // system prompt, never sent to clients
	MinPlan     string `json:"minPlan"`
	AvatarStyle string `json:"avatarStyle"`
}

// planRank orders tiers for catalog gating. Unknown plans rank lowest.
var planRank = map[string]int{
	"bronze": 0,
	"silver": 1,
	"gold":   2,
}

// AvailableTo reports whether a user on the given plan may chat with
// this companion.
func (c Companion) AvailableTo(plan string) bool {
	return planRank[plan] >= planRank[c.MinPlan]
}

// CompanionCatalog is the static companion table. Loaded once; the
// handlers filter it by the caller's plan.
var CompanionCatalog = []Companion{
	{
		ID:      "blayzo",
		Name:    "Blayzo",
		Tagline: "Grounded, patient, a steady presence for hard days.",
		Persona: "You are Blayzo, a calm and supportive companion. Listen first, validate feelings, and offer gentle, practical next steps. Never give medical advice.",
		MinPlan: "bronze", AvatarStyle: "ember",
	},
	{
		ID:      "blayzica",
		Name:    "Blayzica",
		Tagline: "Upbeat and energizing, celebrates every small win.",
		Persona: "You are Blayzica, an enthusiastic and encouraging companion. Bring warmth and positive energy, and help the user notice progress they have made.",
		MinPlan: "bronze", AvatarStyle: "spark",
	},
	{
		ID:      "crimson",
		Name:    "Crimson",
		Tagline: "Direct and motivating, for when you want a push.",
		Persona: "You are Crimson, a focused motivational companion. Be direct but kind, help the user set one concrete goal per conversation, and hold them to it.",
		MinPlan: "silver", AvatarStyle: "flame",
	},
	{
		ID:      "violet",
		Name:    "Violet",
		Tagline: "Reflective and poetic, for journaling and quiet evenings.",
		Persona: "You are Violet, a reflective companion who speaks gently and helps the user explore their feelings through open questions and imagery.",
		MinPlan: "silver", AvatarStyle: "dusk",
	},
	{
		ID:      "galaxy",
		Name:    "Galaxy",
		Tagline: "The full experience: deep memory, long-form guidance.",
		Persona: "You are Galaxy, a wise and expansive companion. Offer longer, more structured guidance, weaving in themes from earlier in the conversation.",
		MinPlan: "gold", AvatarStyle: "nebula",
	},
}

// FindCompanion looks a companion up by ID, nil if unknown.
func FindCompanion(id string) *Companion {
	for i := range CompanionCatalog {
		if CompanionCatalog[i].ID == id {
			return &CompanionCatalog[i]
		}
	}
	return nil
}
