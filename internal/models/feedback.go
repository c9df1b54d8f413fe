package models

import "time"

type FeedbackAction string

const (
	FeedbackAccept   FeedbackAction = "accept"
	FeedbackOverride FeedbackAction = "override"
	FeedbackIgnore   FeedbackAction = "ignore"
)

// ValidFeedbackAction reports whether the action is one the learner accepts.
// Callers validate before submitting; the learner never sees anything else.
func ValidFeedbackAction(a FeedbackAction) bool {
	switch a {
	case FeedbackAccept, FeedbackOverride, FeedbackIgnore:
		return true
	}
	return false
}

// FeedbackContext carries the situation at the time of feedback: the
// cognitive-load score, the hour, and the items that were on the card. ItemID
// is the stable join key back to a candidate; ItemTitle is kept as a fallback
// for freeform records.
type FeedbackContext struct {
	ItemID            string   `json:"item_id,omitempty"`
	ItemTitle         string   `json:"item_title,omitempty"`
	ChosenAlternative string   `json:"chosen_alternative,omitempty"`
	CognitiveLoad     int      `json:"cognitive_load"`
	Hour              int      `json:"hour"`
	SuggestedItems    []string `json:"suggested_items,omitempty"`
}

// FeedbackEvent is immutable once recorded. It is the only input the learner
// consumes besides the current preference vector.
type FeedbackEvent struct {
	ID        string          `json:"id"`
	Action    FeedbackAction  `json:"action"`
	Context   FeedbackContext `json:"context"`
	CreatedAt time.Time       `json:"created_at"`
}

// SessionRecord is a session-end activity record. Accumulated duration feeds
// the time-on-site factor of the cognitive-load estimate.
type SessionRecord struct {
	ID         string    `json:"id"`
	Day        string    `json:"day"` // YYYY-MM-DD format
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActivitySummary aggregates today's activity for the load estimator.
type ActivitySummary struct {
	Decisions  int
	Overrides  int
	DurationMs int64
	Hour       int
}
