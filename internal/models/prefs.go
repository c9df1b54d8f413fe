package models

import "time"

// PreferredAlternativesMax bounds the rolling list of alternatives the user
// actively chose over what was suggested. Oldest entries are evicted first.
const PreferredAlternativesMax = 20

// PreferredAlternative records one override where the user named what they
// did instead of the suggestion.
type PreferredAlternative struct {
	Original      string `json:"original"`
	Chosen        string `json:"chosen"`
	Hour          int    `json:"hour"`
	CognitiveLoad int    `json:"cognitive_load"`
}

// PreferenceVector is the learned set of weights and counters representing a
// profile's inferred behavioral preferences. All weight fields stay within
// [0,1] after every update; counters never decrease within a vector's
// lifetime. Only the learner mutates it.
type PreferenceVector struct {
	MorningWeight   float64 `json:"morning_weight"`
	AfternoonWeight float64 `json:"afternoon_weight"`
	EveningWeight   float64 `json:"evening_weight"`

	HighEffortPreference float64 `json:"high_effort_preference"`
	LowEffortPreference  float64 `json:"low_effort_preference"`

	BreakFrequency           float64 `json:"break_frequency"`
	FocusDurationMin         float64 `json:"focus_duration_min"` // minutes, unbounded positive
	SuggestionConfidence     float64 `json:"suggestion_confidence"`
	HighLoadOverrideTendency float64 `json:"high_load_override_tendency"`

	ConsecutiveAccepts   int `json:"consecutive_accepts"`
	ConsecutiveOverrides int `json:"consecutive_overrides"`
	ConsecutiveIgnores   int `json:"consecutive_ignores"`

	TotalDecisions int `json:"total_decisions"`
	TotalAccepts   int `json:"total_accepts"`
	TotalOverrides int `json:"total_overrides"`
	TotalIgnores   int `json:"total_ignores"`

	AcceptRate   float64 `json:"accept_rate"`
	OverrideRate float64 `json:"override_rate"`
	IgnoreRate   float64 `json:"ignore_rate"`

	NeedsRecalibration bool       `json:"needs_recalibration"`
	LastLearnedAt      *time.Time `json:"last_learned_at,omitempty"`

	PreferredAlternatives []PreferredAlternative `json:"preferred_alternatives,omitempty"`
}

// DefaultPreferences returns the neutral starting vector assigned at profile
// creation. Defaults are applied here, once, rather than at read sites.
func DefaultPreferences() PreferenceVector {
	return PreferenceVector{
		MorningWeight:        0.5,
		AfternoonWeight:      0.5,
		EveningWeight:        0.5,
		HighEffortPreference: 0.5,
		LowEffortPreference:  0.5,
		BreakFrequency:       0.5,
		FocusDurationMin:     45,
		SuggestionConfidence: 0.5,
	}
}

// Clamp forces every bounded weight field back into [0,1]. The learner calls
// it after every mutation; unclamped weights would destabilize the scorer's
// additive model.
func (p *PreferenceVector) Clamp() {
	p.MorningWeight = clamp01(p.MorningWeight)
	p.AfternoonWeight = clamp01(p.AfternoonWeight)
	p.EveningWeight = clamp01(p.EveningWeight)
	p.HighEffortPreference = clamp01(p.HighEffortPreference)
	p.LowEffortPreference = clamp01(p.LowEffortPreference)
	p.BreakFrequency = clamp01(p.BreakFrequency)
	p.SuggestionConfidence = clamp01(p.SuggestionConfidence)
	p.HighLoadOverrideTendency = clamp01(p.HighLoadOverrideTendency)
	if p.FocusDurationMin < 0 {
		p.FocusDurationMin = 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
