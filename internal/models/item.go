package models

import "time"

type ItemKind string

const (
	ItemKindTask  ItemKind = "task"
	ItemKindMeal  ItemKind = "meal"
	ItemKindBreak ItemKind = "break"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekends Frequency = "weekends"
)

// CandidateItem is a recurring activity eligible for recommendation.
// Items are created and edited by the user; the engine never mutates them.
type CandidateItem struct {
	ID               string    `json:"id"`
	Kind             ItemKind  `json:"kind"`
	Title            string    `json:"title"`
	Effort           int       `json:"effort,omitempty"` // 1-5, 0 when unset
	EstimatedMinutes int       `json:"estimated_minutes,omitempty"`
	MealType         MealType  `json:"meal_type,omitempty"`
	BreakDurationMin int       `json:"break_duration_min,omitempty"`
	PreferredTime    string    `json:"preferred_time,omitempty"` // HH:MM format
	Tags             []string  `json:"tags,omitempty"`
	Frequency        Frequency `json:"frequency"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	DeletedAt        *string   `json:"deleted_at,omitempty"` // RFC3339 timestamp
}

// HasTag reports whether the item carries the given tag.
func (c CandidateItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// EligibleOn reports whether the item's frequency admits the given weekday.
// Weekly items are user-curated and always eligible; per-weekday masks for
// them are out of scope.
func (c CandidateItem) EligibleOn(day time.Weekday) bool {
	switch c.Frequency {
	case FrequencyWeekdays:
		return day != time.Saturday && day != time.Sunday
	case FrequencyWeekends:
		return day == time.Saturday || day == time.Sunday
	default:
		return true
	}
}
