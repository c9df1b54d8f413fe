package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/marcwilhite/daycard/internal/models"
)

// NoCandidatesMessage is returned instead of cards when the profile has no
// active items. Plan generation degrades rather than failing.
const NoCandidatesMessage = "No active items to suggest yet. Add tasks, meals, or breaks with 'daycard item add'."

// reasonPhrases maps reason codes to plain rationale clauses, in the fixed
// order they are considered for a card's rationale. The first matching reason
// becomes the lead clause; the rest are appended comma-separated.
var reasonOrder = []string{
	ReasonTimeBand,
	ReasonEffortFit,
	ReasonFeedbackHistory,
	ReasonPreferredTime,
	ReasonMealWindow,
	ReasonTag,
}

var reasonPhrases = map[string]string{
	ReasonTimeBand:        "it fits your usual rhythm this time of day",
	ReasonEffortFit:       "the effort level matches your preference right now",
	ReasonFeedbackHistory: "you've responded well to it recently",
	ReasonPreferredTime:   "it's close to its preferred time",
	ReasonMealWindow:      "it's the usual window for this meal",
	ReasonTag:             "it's tagged as a priority",
}

// MaxCards returns how many cards a tier may surface. Higher autonomy means
// fewer, more compressed decisions.
func MaxCards(tier models.Tier, confidence float64) int {
	switch tier {
	case models.TierAuto:
		return 2
	case models.TierAssist:
		if confidence > 0.6 {
			return 3
		}
		return 4
	default:
		return 4
	}
}

// Assemble bundles scored candidates into at most MaxCards compressed cards.
// Input must already be sorted descending by score (ScoreAll output). The
// block order is fixed: primary, meal, secondary, manual-only extra.
func Assemble(scored []ScoredItem, prefs models.PreferenceVector, hour int, tier models.Tier) ([]models.CompressedCard, string) {
	if len(scored) == 0 {
		return nil, NoCandidatesMessage
	}

	var tasks, meals, breaks []ScoredItem
	for _, s := range scored {
		switch s.Item.Kind {
		case models.ItemKindTask:
			tasks = append(tasks, s)
		case models.ItemKindMeal:
			meals = append(meals, s)
		case models.ItemKindBreak:
			breaks = append(breaks, s)
		}
	}

	var cards []models.CompressedCard

	// Primary block: top task, with the top break attached when the profile
	// leans toward frequent breaks.
	if len(tasks) > 0 {
		blocks := []ScoredItem{tasks[0]}
		if prefs.BreakFrequency > 0.3 && len(breaks) > 0 {
			blocks = append(blocks, breaks[0])
		}
		cards = append(cards, buildCard("Focus block", blocks, tier))
	}

	// Meal block: only when the current hour is actually relevant.
	if len(meals) > 0 && mealRelevance(meals[0].Item.MealType, hour) > 0.5 {
		cards = append(cards, buildCard("Meal", meals[0:1], tier))
	}

	// Secondary block: second task, plus a break unless the tier is auto.
	if len(tasks) > 1 {
		blocks := []ScoredItem{tasks[1]}
		if tier != models.TierAuto {
			if len(breaks) > 1 {
				blocks = append(blocks, breaks[1])
			} else if len(breaks) > 0 {
				blocks = append(blocks, breaks[0])
			}
		}
		cards = append(cards, buildCard("Next up", blocks, tier))
	}

	// Manual-only extra: wind-down in the evening, bonus capacity otherwise.
	if tier == models.TierManual {
		if hour >= 18 {
			rest := tasks
			if len(rest) > 2 {
				rest = rest[2:]
			} else {
				rest = nil
			}
			if s, ok := lowEffortTask(rest); ok {
				cards = append(cards, buildCard("Wind down", []ScoredItem{s}, tier))
			}
		} else if len(tasks) > 2 {
			cards = append(cards, buildCard("Bonus", tasks[2:3], tier))
		}
	}

	limit := MaxCards(tier, prefs.SuggestionConfidence)
	if len(cards) > limit {
		cards = cards[:limit]
	}
	for i := range cards {
		cards[i].Priority = i + 1
	}

	if len(cards) == 0 {
		return nil, "Nothing to suggest right now. Check back later or add more items."
	}
	return cards, ""
}

func buildCard(title string, blocks []ScoredItem, tier models.Tier) models.CompressedCard {
	card := models.CompressedCard{
		ID:    uuid.New().String(),
		Title: title,
		Tier:  tier,
	}

	seen := map[string]bool{}
	for _, b := range blocks {
		card.Items = append(card.Items, models.CardItem{
			Kind:       b.Item.Kind,
			ItemID:     b.Item.ID,
			Title:      b.Item.Title,
			ActionText: actionText(b.Item),
		})
		card.DurationMin += itemMinutes(b.Item)
		for _, r := range b.Reasons {
			if !seen[r] {
				seen[r] = true
				card.ReasonCodes = append(card.ReasonCodes, r)
			}
		}
	}

	card.Rationale = rationaleText(card.ReasonCodes)
	return card
}

// rationaleText assembles the human-readable explanation from reason codes.
func rationaleText(codes []string) string {
	var clauses []string
	for _, code := range reasonOrder {
		for _, c := range codes {
			if c == code {
				clauses = append(clauses, reasonPhrases[code])
				break
			}
		}
	}
	if len(clauses) == 0 {
		return "Suggested as the best fit among your active items."
	}
	return "Suggested because " + strings.Join(clauses, ", ") + "."
}

func actionText(item models.CandidateItem) string {
	switch item.Kind {
	case models.ItemKindMeal:
		return "Eat " + item.Title
	case models.ItemKindBreak:
		return "Take " + item.Title
	default:
		return "Start " + item.Title
	}
}

func itemMinutes(item models.CandidateItem) int {
	if item.Kind == models.ItemKindBreak && item.BreakDurationMin > 0 {
		return item.BreakDurationMin
	}
	return item.EstimatedMinutes
}

// mealRelevance scores how relevant a meal type is for the hour, 0..1. Inside
// the canonical window it is fully relevant; one hour either side it tapers;
// snacks are mildly relevant at any hour.
func mealRelevance(meal models.MealType, hour int) float64 {
	if mealWindowMatches(meal, hour) {
		return 1.0
	}
	if meal == models.MealSnack {
		return 0.6
	}
	if mealWindowMatches(meal, hour+1) || mealWindowMatches(meal, hour-1) {
		return 0.4
	}
	return 0.0
}

func lowEffortTask(tasks []ScoredItem) (ScoredItem, bool) {
	for _, t := range tasks {
		if t.Item.Effort >= 1 && t.Item.Effort <= 2 {
			return t, true
		}
	}
	return ScoredItem{}, false
}
