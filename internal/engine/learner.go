package engine

import (
	"strings"
	"time"

	"github.com/marcwilhite/daycard/internal/models"
)

// LearningRate is the step applied to weight adjustments on each feedback
// action.
const LearningRate = 0.1

// Streak thresholds that move suggestion confidence or flag recalibration.
const (
	acceptStreakForConfidence   = 3
	overrideStreakForConfidence = 3
	ignoreStreakForRecalibrate  = 5
)

// Apply folds one feedback action into the preference vector and returns the
// updated copy. Pure and deterministic; the caller must persist the result
// against the same profile's record. Every bounded weight is re-clamped
// before returning.
func Apply(prefs models.PreferenceVector, action models.FeedbackAction, ctx models.FeedbackContext, now time.Time) models.PreferenceVector {
	next := prefs
	next.PreferredAlternatives = append([]models.PreferredAlternative(nil), prefs.PreferredAlternatives...)

	switch action {
	case models.FeedbackAccept:
		adjustBand(&next, ctx.Hour, LearningRate)
		if mentionsFocusWork(ctx) {
			next.HighEffortPreference += LearningRate / 2
		}
		next.ConsecutiveAccepts++
		next.ConsecutiveOverrides = 0
		if next.ConsecutiveAccepts >= acceptStreakForConfidence {
			next.SuggestionConfidence += LearningRate
		}
		next.TotalAccepts++

	case models.FeedbackOverride:
		adjustBand(&next, ctx.Hour, -LearningRate)
		if ctx.CognitiveLoad > 66 {
			next.HighLoadOverrideTendency += LearningRate
		}
		next.ConsecutiveOverrides++
		next.ConsecutiveAccepts = 0
		if next.ConsecutiveOverrides >= overrideStreakForConfidence {
			next.SuggestionConfidence -= LearningRate
		}
		if ctx.ChosenAlternative != "" {
			next.PreferredAlternatives = append(next.PreferredAlternatives, models.PreferredAlternative{
				Original:      ctx.ItemTitle,
				Chosen:        ctx.ChosenAlternative,
				Hour:          ctx.Hour,
				CognitiveLoad: ctx.CognitiveLoad,
			})
			if excess := len(next.PreferredAlternatives) - models.PreferredAlternativesMax; excess > 0 {
				next.PreferredAlternatives = next.PreferredAlternatives[excess:]
			}
		}
		next.TotalOverrides++

	case models.FeedbackIgnore:
		// Softer signal than an override.
		adjustBand(&next, ctx.Hour, -0.3*LearningRate)
		next.ConsecutiveIgnores++
		if next.ConsecutiveIgnores >= ignoreStreakForRecalibrate {
			next.NeedsRecalibration = true
		}
		next.TotalIgnores++
	}

	next.TotalDecisions++
	total := float64(next.TotalDecisions)
	next.AcceptRate = float64(next.TotalAccepts) / total
	next.OverrideRate = float64(next.TotalOverrides) / total
	next.IgnoreRate = float64(next.TotalIgnores) / total
	next.LastLearnedAt = &now

	next.Clamp()
	return next
}

// adjustBand shifts the weight for the hour's band by delta.
func adjustBand(prefs *models.PreferenceVector, hour int, delta float64) {
	switch bandFor(hour) {
	case bandMorning:
		prefs.MorningWeight += delta
	case bandAfternoon:
		prefs.AfternoonWeight += delta
	default:
		prefs.EveningWeight += delta
	}
}

// mentionsFocusWork reports whether the feedback context names card items
// that signal sustained-effort work.
func mentionsFocusWork(ctx models.FeedbackContext) bool {
	texts := append([]string{ctx.ItemTitle}, ctx.SuggestedItems...)
	for _, t := range texts {
		lower := strings.ToLower(t)
		if strings.Contains(lower, "focus") || strings.Contains(lower, "deep work") {
			return true
		}
	}
	return false
}
