package models

type Tier string

const (
	TierManual Tier = "manual"
	TierAssist Tier = "assist"
	TierAuto   Tier = "auto"
)

// LoadFactor is one capped contribution to the cognitive-load score.
type LoadFactor struct {
	Value int `json:"value"`
	Cap   int `json:"cap"`
}

// LoadBreakdown explains how the score was assembled.
type LoadBreakdown struct {
	Decisions  LoadFactor `json:"decisions"`
	Overrides  LoadFactor `json:"overrides"`
	TimeOnSite LoadFactor `json:"time_on_site"`
	TimeOfDay  LoadFactor `json:"time_of_day"`
}

// CognitiveLoadResult is recomputed per request and is informational, not
// authoritative. It may be stored for audit but is never read back as state.
type CognitiveLoadResult struct {
	Score     int           `json:"score"` // 0..100
	Tier      Tier          `json:"tier"`
	Breakdown LoadBreakdown `json:"breakdown"`
}

// CardItem is one entry on a compressed card.
type CardItem struct {
	Kind       ItemKind `json:"kind"`
	ItemID     string   `json:"item_id"`
	Title      string   `json:"title"`
	ActionText string   `json:"action_text"`
}

// CompressedCard bundles one or more recommended items into a single decision
// point. Ephemeral output of a plan-generation call; a snapshot may be
// persisted for the day but is never authoritative.
type CompressedCard struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Items       []CardItem `json:"items"`
	DurationMin int        `json:"duration_min"`
	Rationale   string     `json:"rationale"`
	ReasonCodes []string   `json:"reason_codes,omitempty"`
	Tier        Tier       `json:"tier"`
	Priority    int        `json:"priority"`
}

// CardSnapshot is the persisted copy of one day's generated cards.
type CardSnapshot struct {
	Day     string           `json:"day"` // YYYY-MM-DD format
	Cards   []CompressedCard `json:"cards"`
	Message string           `json:"message,omitempty"`
}
