package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/marcwilhite/daycard/internal/models"
)

// Reason codes attached to a score. Human phrasing lives in the presentation
// layer; the engine only says which rules fired.
const (
	ReasonTimeBand        = "time_band"
	ReasonEffortFit       = "effort_fit"
	ReasonFeedbackHistory = "feedback_history"
	ReasonPreferredTime   = "preferred_time"
	ReasonMealWindow      = "meal_window"
	ReasonTag             = "tag"
)

type hourBand int

const (
	bandMorning hourBand = iota
	bandAfternoon
	bandEvening
)

// bandFor picks the scoring band for an hour. Anything outside morning and
// afternoon uses the evening weight.
func bandFor(hour int) hourBand {
	switch {
	case hour >= 6 && hour < 12:
		return bandMorning
	case hour >= 12 && hour < 17:
		return bandAfternoon
	default:
		return bandEvening
	}
}

func bandWeight(prefs models.PreferenceVector, band hourBand) float64 {
	switch band {
	case bandMorning:
		return prefs.MorningWeight
	case bandAfternoon:
		return prefs.AfternoonWeight
	default:
		return prefs.EveningWeight
	}
}

// ScoredItem pairs a candidate with its ranking score and the reasons that
// contributed.
type ScoredItem struct {
	Item    models.CandidateItem
	Score   int
	Reasons []string
}

// Score ranks a candidate against the preference vector and current context.
// The value is only meaningful relative to other candidates scored with the
// same inputs. Deterministic: identical inputs yield identical scores.
func Score(item models.CandidateItem, prefs models.PreferenceVector, hour int, recent []models.FeedbackEvent) (int, []string) {
	score := 50.0
	var reasons []string

	// Time-of-day band weight.
	band := bandFor(hour)
	weight := bandWeight(prefs, band)
	score += weight * 30
	if band == bandMorning && weight > 0.6 {
		score += 10
	}
	if weight > 0.6 {
		reasons = append(reasons, ReasonTimeBand)
	}
	if band == bandEvening && item.Effort >= 4 {
		score -= 15
	}

	// Effort alignment.
	if item.Effort >= 4 {
		score += prefs.HighEffortPreference * 20
		if prefs.HighEffortPreference < 0.4 {
			score -= 10
		} else {
			reasons = append(reasons, ReasonEffortFit)
		}
	} else if item.Effort >= 1 && item.Effort <= 2 {
		score += prefs.LowEffortPreference * 20
		if prefs.LowEffortPreference > 0.5 {
			reasons = append(reasons, ReasonEffortFit)
		}
	}

	// Feedback history.
	if adj, matched := feedbackAdjustment(item, recent); matched {
		score += adj
		if adj > 0 {
			reasons = append(reasons, ReasonFeedbackHistory)
		}
	}

	// Preferred-time proximity.
	if prefHour, ok := parseHour(item.PreferredTime); ok {
		switch dist := abs(hour - prefHour); {
		case dist <= 1:
			score += 35
		case dist <= 2:
			score += 25
		case dist <= 3:
			score += 10
		}
		if abs(hour-prefHour) <= 3 {
			reasons = append(reasons, ReasonPreferredTime)
		}

		// Favor explicit signals when the model is unsure.
		if prefs.SuggestionConfidence < 0.3 {
			score += 10
		}
	}

	// Meal timing.
	if item.Kind == models.ItemKindMeal {
		if mealWindowMatches(item.MealType, hour) {
			score += 35
			reasons = append(reasons, ReasonMealWindow)
		} else if item.MealType == models.MealSnack {
			score += 10
		}
	}

	// Tag bonuses.
	tagged := false
	if item.HasTag("urgent") {
		score += 20
		tagged = true
	}
	if item.HasTag("important") {
		score += 15
		tagged = true
	}
	if item.HasTag("quick") {
		score += 5
		tagged = true
	}
	if tagged {
		reasons = append(reasons, ReasonTag)
	}

	if score < 0 {
		score = 0
	}
	return int(math.Round(score)), reasons
}

// ScoreAll scores every candidate and sorts descending. The sort is stable:
// equal-score items keep their input order, so ties never flip between runs.
func ScoreAll(items []models.CandidateItem, prefs models.PreferenceVector, hour int, recent []models.FeedbackEvent) []ScoredItem {
	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		s, reasons := Score(item, prefs, hour, recent)
		scored = append(scored, ScoredItem{Item: item, Score: s, Reasons: reasons})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// feedbackAdjustment correlates recent feedback with a candidate. The stable
// item ID on the feedback context is the primary join; title substring match
// remains as a fallback for freeform records, which can over-match when
// titles overlap.
func feedbackAdjustment(item models.CandidateItem, recent []models.FeedbackEvent) (float64, bool) {
	adj := 0.0
	matched := false
	title := strings.ToLower(item.Title)

	for _, ev := range recent {
		if feedbackMatches(ev, item.ID, title) {
			matched = true
			switch ev.Action {
			case models.FeedbackAccept:
				adj += 8
			case models.FeedbackOverride:
				adj -= 12
			case models.FeedbackIgnore:
				adj -= 5
			}
		}
		// The user actively picked this item over what was suggested; a
		// strong positive signal regardless of what the event pointed at.
		if ev.Context.ChosenAlternative != "" && strings.EqualFold(ev.Context.ChosenAlternative, item.Title) {
			adj += 15
			matched = true
		}
	}
	return adj, matched
}

func feedbackMatches(ev models.FeedbackEvent, itemID, lowerTitle string) bool {
	if ev.Context.ItemID != "" {
		return ev.Context.ItemID == itemID
	}
	if lowerTitle == "" {
		return false
	}
	if strings.Contains(strings.ToLower(ev.Context.ItemTitle), lowerTitle) {
		return true
	}
	for _, s := range ev.Context.SuggestedItems {
		if strings.Contains(strings.ToLower(s), lowerTitle) {
			return true
		}
	}
	return false
}

// mealWindowMatches reports whether the hour falls in the meal's canonical
// window: breakfast [6,10), lunch [11,14), dinner [17,21).
func mealWindowMatches(meal models.MealType, hour int) bool {
	switch meal {
	case models.MealBreakfast:
		return hour >= 6 && hour < 10
	case models.MealLunch:
		return hour >= 11 && hour < 14
	case models.MealDinner:
		return hour >= 17 && hour < 21
	}
	return false
}

// parseHour extracts the hour from an HH:MM preferred time.
func parseHour(timeStr string) (int, bool) {
	if timeStr == "" {
		return 0, false
	}
	parts := strings.SplitN(timeStr, ":", 2)
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
