package engine

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/marcwilhite/daycard/internal/models"
)

var learnTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestApply_AcceptRaisesBandWeight(t *testing.T) {
	prefs := models.DefaultPreferences()

	updated := Apply(prefs, models.FeedbackAccept, models.FeedbackContext{Hour: 8}, learnTime)

	if math.Abs(updated.MorningWeight-0.6) > 1e-9 {
		t.Errorf("expected morning weight 0.6, got %v", updated.MorningWeight)
	}
	if updated.ConsecutiveAccepts != 1 {
		t.Errorf("expected accept streak 1, got %d", updated.ConsecutiveAccepts)
	}
	if updated.LastLearnedAt == nil || !updated.LastLearnedAt.Equal(learnTime) {
		t.Errorf("expected last_learned_at set to %v", learnTime)
	}
}

func TestApply_AcceptStreakRaisesConfidence(t *testing.T) {
	prefs := models.DefaultPreferences()
	ctx := models.FeedbackContext{Hour: 8}

	// Two accepts leave confidence untouched; the third raises it by exactly
	// one learning-rate step.
	prefs = Apply(prefs, models.FeedbackAccept, ctx, learnTime)
	prefs = Apply(prefs, models.FeedbackAccept, ctx, learnTime)
	if math.Abs(prefs.SuggestionConfidence-0.5) > 1e-9 {
		t.Fatalf("confidence moved early: %v", prefs.SuggestionConfidence)
	}

	prefs = Apply(prefs, models.FeedbackAccept, ctx, learnTime)
	if prefs.ConsecutiveAccepts != 3 {
		t.Errorf("expected accept streak 3, got %d", prefs.ConsecutiveAccepts)
	}
	if math.Abs(prefs.SuggestionConfidence-0.6) > 1e-9 {
		t.Errorf("expected confidence 0.6, got %v", prefs.SuggestionConfidence)
	}
}

func TestApply_FocusWorkRaisesHighEffort(t *testing.T) {
	prefs := models.DefaultPreferences()
	ctx := models.FeedbackContext{Hour: 14, SuggestedItems: []string{"Deep work sprint", "Coffee break"}}

	updated := Apply(prefs, models.FeedbackAccept, ctx, learnTime)
	if math.Abs(updated.HighEffortPreference-0.55) > 1e-9 {
		t.Errorf("expected high-effort preference 0.55, got %v", updated.HighEffortPreference)
	}
}

func TestApply_OverrideLowersBandAndTracksHighLoad(t *testing.T) {
	prefs := models.DefaultPreferences()

	updated := Apply(prefs, models.FeedbackOverride, models.FeedbackContext{Hour: 13, CognitiveLoad: 80}, learnTime)

	if math.Abs(updated.AfternoonWeight-0.4) > 1e-9 {
		t.Errorf("expected afternoon weight 0.4, got %v", updated.AfternoonWeight)
	}
	if math.Abs(updated.HighLoadOverrideTendency-0.1) > 1e-9 {
		t.Errorf("expected high-load tendency 0.1, got %v", updated.HighLoadOverrideTendency)
	}
	if updated.ConsecutiveAccepts != 0 {
		t.Errorf("override must reset the accept streak, got %d", updated.ConsecutiveAccepts)
	}
}

func TestApply_OverrideStreakLowersConfidence(t *testing.T) {
	prefs := models.DefaultPreferences()
	ctx := models.FeedbackContext{Hour: 13, CognitiveLoad: 40}

	for i := 0; i < 3; i++ {
		prefs = Apply(prefs, models.FeedbackOverride, ctx, learnTime)
	}
	if math.Abs(prefs.SuggestionConfidence-0.4) > 1e-9 {
		t.Errorf("expected confidence 0.4 after 3 overrides, got %v", prefs.SuggestionConfidence)
	}
}

func TestApply_PreferredAlternativesBounded(t *testing.T) {
	prefs := models.DefaultPreferences()

	for i := 0; i < 25; i++ {
		ctx := models.FeedbackContext{
			Hour:              10,
			ItemTitle:         "Suggested",
			ChosenAlternative: fmt.Sprintf("alt-%d", i),
		}
		prefs = Apply(prefs, models.FeedbackOverride, ctx, learnTime)
	}

	if len(prefs.PreferredAlternatives) != models.PreferredAlternativesMax {
		t.Fatalf("expected %d alternatives, got %d", models.PreferredAlternativesMax, len(prefs.PreferredAlternatives))
	}
	// Oldest evicted first.
	if prefs.PreferredAlternatives[0].Chosen != "alt-5" {
		t.Errorf("expected oldest surviving entry alt-5, got %s", prefs.PreferredAlternatives[0].Chosen)
	}
	if prefs.PreferredAlternatives[19].Chosen != "alt-24" {
		t.Errorf("expected newest entry alt-24, got %s", prefs.PreferredAlternatives[19].Chosen)
	}
}

func TestApply_IgnoreSoftensBandAndFlagsRecalibration(t *testing.T) {
	prefs := models.DefaultPreferences()
	ctx := models.FeedbackContext{Hour: 9}

	updated := Apply(prefs, models.FeedbackIgnore, ctx, learnTime)
	if math.Abs(updated.MorningWeight-0.47) > 1e-9 {
		t.Errorf("expected morning weight 0.47 (0.3*alpha step), got %v", updated.MorningWeight)
	}
	if updated.NeedsRecalibration {
		t.Error("recalibration flag set too early")
	}

	for i := 0; i < 4; i++ {
		updated = Apply(updated, models.FeedbackIgnore, ctx, learnTime)
	}
	if !updated.NeedsRecalibration {
		t.Error("expected recalibration flag after 5 consecutive ignores")
	}
}

func TestApply_CountersStayConsistent(t *testing.T) {
	prefs := models.DefaultPreferences()
	actions := []models.FeedbackAction{
		models.FeedbackAccept, models.FeedbackOverride, models.FeedbackIgnore,
		models.FeedbackAccept, models.FeedbackAccept, models.FeedbackOverride,
		models.FeedbackIgnore, models.FeedbackAccept,
	}

	for i, action := range actions {
		prev := prefs
		prefs = Apply(prefs, action, models.FeedbackContext{Hour: i % 24}, learnTime)

		if prefs.TotalDecisions != prev.TotalDecisions+1 {
			t.Fatalf("step %d: total_decisions must increment by 1", i)
		}
		if prefs.TotalDecisions != prefs.TotalAccepts+prefs.TotalOverrides+prefs.TotalIgnores {
			t.Fatalf("step %d: counters out of balance: %d != %d+%d+%d",
				i, prefs.TotalDecisions, prefs.TotalAccepts, prefs.TotalOverrides, prefs.TotalIgnores)
		}
		wantRate := float64(prefs.TotalAccepts) / float64(prefs.TotalDecisions)
		if math.Abs(prefs.AcceptRate-wantRate) > 1e-9 {
			t.Fatalf("step %d: accept rate %v, want %v", i, prefs.AcceptRate, wantRate)
		}
	}
}

func TestApply_WeightsStayClamped(t *testing.T) {
	prefs := models.DefaultPreferences()

	// Hammer the same band from both directions; no weight may ever leave
	// [0,1].
	for i := 0; i < 30; i++ {
		action := models.FeedbackAccept
		if i%4 == 0 {
			action = models.FeedbackOverride
		}
		prefs = Apply(prefs, action, models.FeedbackContext{Hour: 8, CognitiveLoad: 90}, learnTime)

		for name, w := range map[string]float64{
			"morning":            prefs.MorningWeight,
			"afternoon":          prefs.AfternoonWeight,
			"evening":            prefs.EveningWeight,
			"high_effort":        prefs.HighEffortPreference,
			"low_effort":         prefs.LowEffortPreference,
			"break_frequency":    prefs.BreakFrequency,
			"confidence":         prefs.SuggestionConfidence,
			"high_load_tendency": prefs.HighLoadOverrideTendency,
		} {
			if w < 0 || w > 1 {
				t.Fatalf("step %d: %s weight %v out of [0,1]", i, name, w)
			}
		}
	}
}

func TestApply_ConfidenceClampsAtOne(t *testing.T) {
	prefs := models.DefaultPreferences()
	prefs.SuggestionConfidence = 0.95
	prefs.ConsecutiveAccepts = 2

	updated := Apply(prefs, models.FeedbackAccept, models.FeedbackContext{Hour: 8}, learnTime)
	if updated.SuggestionConfidence != 1.0 {
		t.Errorf("expected confidence clamped at 1.0, got %v", updated.SuggestionConfidence)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	prefs := models.DefaultPreferences()
	prefs.PreferredAlternatives = []models.PreferredAlternative{{Original: "a", Chosen: "b"}}
	before := prefs

	Apply(prefs, models.FeedbackOverride, models.FeedbackContext{Hour: 10, ChosenAlternative: "c"}, learnTime)

	if prefs.MorningWeight != before.MorningWeight || prefs.TotalDecisions != before.TotalDecisions {
		t.Error("Apply mutated its input vector")
	}
	if len(prefs.PreferredAlternatives) != 1 {
		t.Errorf("Apply mutated the input alternatives list: %d entries", len(prefs.PreferredAlternatives))
	}
}
