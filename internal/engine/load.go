package engine

import (
	"math"

	"github.com/marcwilhite/daycard/internal/models"
)

// Factor caps for the cognitive-load estimate. The four contributions are
// computed independently, capped, summed, and clamped to 100.
const (
	capDecisions  = 30
	capOverrides  = 25
	capTimeOnSite = 20
	capTimeOfDay  = 25
)

// EstimateLoad converts today's activity into a 0..100 fatigue score and an
// autonomy tier. Pure; callers that read activity from a store fall back to
// DefaultLoad on read failure instead of propagating it.
func EstimateLoad(a models.ActivitySummary) models.CognitiveLoadResult {
	// Decisions: saturates at 10+ decisions per day.
	decisions := int(math.Round(float64(a.Decisions) / 10 * capDecisions))
	if decisions > capDecisions {
		decisions = capDecisions
	}

	// Overrides: saturates at a 50% override rate.
	overrides := 0
	if a.Decisions > 0 {
		rate := float64(a.Overrides) / float64(a.Decisions)
		overrides = int(math.Round(rate / 0.5 * capOverrides))
		if overrides > capOverrides {
			overrides = capOverrides
		}
	}

	// Time on site: zero below 15 minutes, saturates at 60.
	minutes := float64(a.DurationMs) / 60000
	onSite := int(math.Round(math.Max(0, minutes-15) / 45 * capTimeOnSite))
	if onSite > capTimeOnSite {
		onSite = capTimeOnSite
	}

	timeOfDay := timeOfDayLoad(a.Hour)

	score := decisions + overrides + onSite + timeOfDay
	if score > 100 {
		score = 100
	}

	return models.CognitiveLoadResult{
		Score: score,
		Tier:  TierForScore(score),
		Breakdown: models.LoadBreakdown{
			Decisions:  models.LoadFactor{Value: decisions, Cap: capDecisions},
			Overrides:  models.LoadFactor{Value: overrides, Cap: capOverrides},
			TimeOnSite: models.LoadFactor{Value: onSite, Cap: capTimeOnSite},
			TimeOfDay:  models.LoadFactor{Value: timeOfDay, Cap: capTimeOfDay},
		},
	}
}

// timeOfDayLoad interpolates linearly across each hour band: morning 0..5,
// afternoon 10..15, evening 15..20, night 20..25.
func timeOfDayLoad(hour int) int {
	interp := func(pos, width, lo, hi int) int {
		if width <= 1 {
			return lo
		}
		return lo + int(math.Round(float64(pos)/float64(width-1)*float64(hi-lo)))
	}

	switch {
	case hour >= 6 && hour < 12:
		return interp(hour-6, 6, 0, 5)
	case hour >= 12 && hour < 17:
		return interp(hour-12, 5, 10, 15)
	case hour >= 17 && hour < 21:
		return interp(hour-17, 4, 15, 20)
	default:
		// Night wraps midnight: hours 21..23 then 0..5.
		return interp((hour+24-21)%24, 9, 20, 25)
	}
}

// TierForScore maps a load score to an autonomy tier.
func TierForScore(score int) models.Tier {
	switch {
	case score <= 33:
		return models.TierManual
	case score <= 66:
		return models.TierAssist
	default:
		return models.TierAuto
	}
}

// DefaultLoad is the safe fallback when activity history cannot be read. The
// estimate is informational, not authoritative, so a neutral answer beats a
// failed request.
func DefaultLoad() models.CognitiveLoadResult {
	return models.CognitiveLoadResult{
		Score: 50,
		Tier:  models.TierAssist,
		Breakdown: models.LoadBreakdown{
			Decisions:  models.LoadFactor{Cap: capDecisions},
			Overrides:  models.LoadFactor{Cap: capOverrides},
			TimeOnSite: models.LoadFactor{Cap: capTimeOnSite},
			TimeOfDay:  models.LoadFactor{Cap: capTimeOfDay},
		},
	}
}
