package engine

import (
	"fmt"
	"time"

	"github.com/marcwilhite/daycard/internal/models"
)

// DefaultRecentFeedbackLimit bounds how much feedback history the scorer
// considers.
const DefaultRecentFeedbackLimit = 20

// Narrow store contracts the engine consumes. A nil preference vector means
// the profile has no learned state yet and the defaults apply; that is not an
// error. Store failures are returned as-is so callers can distinguish them
// from missing data.
//
// Concurrency: SubmitFeedback is a read-modify-write with no compare-and-swap.
// Concurrent submissions for the same profile are last-write-wins; a store
// that needs stronger guarantees must serialize writers per profile.
type PreferenceStore interface {
	GetPreferences(profile string) (*models.PreferenceVector, error)
	SavePreferences(profile string, prefs models.PreferenceVector) error
}

type ItemStore interface {
	ActiveItems(profile string) ([]models.CandidateItem, error)
}

type FeedbackStore interface {
	RecentFeedback(profile string, limit int) ([]models.FeedbackEvent, error)
	CountFeedbackToday(profile, day string) (total, overrides int, err error)
	AddFeedback(profile string, ev models.FeedbackEvent) error
}

type SessionStore interface {
	SumSessionDurationToday(profile, day string) (int64, error)
}

type Store interface {
	PreferenceStore
	ItemStore
	FeedbackStore
	SessionStore
}

// PlanResult is the outcome of one plan-generation request.
type PlanResult struct {
	Cards   []models.CompressedCard
	Message string
	Load    models.CognitiveLoadResult
	Prefs   models.PreferenceVector
}

// Engine orchestrates the pure estimator, scorer, assembler, and learner over
// an external store.
type Engine struct {
	store       Store
	now         func() time.Time
	recentLimit int
}

func New(store Store) *Engine {
	return NewWithClock(store, time.Now)
}

func NewWithClock(store Store, now func() time.Time) *Engine {
	return &Engine{store: store, now: now, recentLimit: DefaultRecentFeedbackLimit}
}

// SetRecentFeedbackLimit overrides how much feedback history ranking
// considers. Non-positive values are ignored.
func (e *Engine) SetRecentFeedbackLimit(n int) {
	if n > 0 {
		e.recentLimit = n
	}
}

// CognitiveLoad estimates the profile's current load from today's activity.
// Activity reads that fail fall back to a neutral estimate instead of
// propagating, since the estimate is informational.
func (e *Engine) CognitiveLoad(profile string) models.CognitiveLoadResult {
	now := e.now()
	day := now.Format("2006-01-02")

	total, overrides, err := e.store.CountFeedbackToday(profile, day)
	if err != nil {
		return DefaultLoad()
	}
	durationMs, err := e.store.SumSessionDurationToday(profile, day)
	if err != nil {
		return DefaultLoad()
	}

	return EstimateLoad(models.ActivitySummary{
		Decisions:  total,
		Overrides:  overrides,
		DurationMs: durationMs,
		Hour:       now.Hour(),
	})
}

// Plan generates today's compressed decision cards for the profile. A missing
// preference vector falls back to defaults; an empty candidate list degrades
// to zero cards with an explanatory message. Store failures on the candidate
// read propagate.
func (e *Engine) Plan(profile string) (PlanResult, error) {
	prefs, err := e.loadPreferences(profile)
	if err != nil {
		return PlanResult{}, err
	}

	items, err := e.store.ActiveItems(profile)
	if err != nil {
		return PlanResult{}, fmt.Errorf("listing candidates: %w", err)
	}

	// Feedback history only tunes ranking; a failed read degrades to none.
	recent, err := e.store.RecentFeedback(profile, e.recentLimit)
	if err != nil {
		recent = nil
	}

	now := e.now()
	hour := now.Hour()
	load := e.CognitiveLoad(profile)

	eligible := make([]models.CandidateItem, 0, len(items))
	for _, item := range items {
		if item.Active && item.EligibleOn(now.Weekday()) {
			eligible = append(eligible, item)
		}
	}

	scored := ScoreAll(eligible, prefs, hour, recent)
	cards, message := Assemble(scored, prefs, hour, load.Tier)

	return PlanResult{Cards: cards, Message: message, Load: load, Prefs: prefs}, nil
}

// SubmitFeedback validates and applies one feedback action, persists the
// updated vector, and records the event for future ranking and load
// estimates. The vector write is a single save, so counters never advance
// partially. Returns the updated snapshot.
func (e *Engine) SubmitFeedback(profile string, action models.FeedbackAction, ctx models.FeedbackContext) (models.PreferenceVector, error) {
	if !models.ValidFeedbackAction(action) {
		return models.PreferenceVector{}, fmt.Errorf("invalid feedback action %q: must be accept, override, or ignore", action)
	}

	prefs, err := e.loadPreferences(profile)
	if err != nil {
		return models.PreferenceVector{}, err
	}

	now := e.now()
	updated := Apply(prefs, action, ctx, now)

	if err := e.store.SavePreferences(profile, updated); err != nil {
		return models.PreferenceVector{}, fmt.Errorf("saving preferences: %w", err)
	}

	ev := models.FeedbackEvent{
		Action:    action,
		Context:   ctx,
		CreatedAt: now,
	}
	if err := e.store.AddFeedback(profile, ev); err != nil {
		return models.PreferenceVector{}, fmt.Errorf("recording feedback event: %w", err)
	}

	return updated, nil
}

// loadPreferences reads the profile's vector, substituting defaults when no
// vector exists yet. Store failures propagate: the engine never fabricates
// learned state, only activity defaults.
func (e *Engine) loadPreferences(profile string) (models.PreferenceVector, error) {
	prefs, err := e.store.GetPreferences(profile)
	if err != nil {
		return models.PreferenceVector{}, fmt.Errorf("loading preferences: %w", err)
	}
	if prefs == nil {
		return models.DefaultPreferences(), nil
	}
	return *prefs, nil
}
