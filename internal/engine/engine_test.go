package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/marcwilhite/daycard/internal/models"
)

// fakeStore implements Store in memory for orchestration tests.
type fakeStore struct {
	prefs    map[string]*models.PreferenceVector
	items    []models.CandidateItem
	feedback []models.FeedbackEvent

	feedbackTotal     int
	feedbackOverrides int
	sessionMs         int64

	prefsErr    error
	itemsErr    error
	activityErr error
	saveErr     error

	lastLimit int

	saved *models.PreferenceVector
}

func newFakeStore() *fakeStore {
	return &fakeStore{prefs: make(map[string]*models.PreferenceVector)}
}

func (f *fakeStore) GetPreferences(profile string) (*models.PreferenceVector, error) {
	if f.prefsErr != nil {
		return nil, f.prefsErr
	}
	return f.prefs[profile], nil
}

func (f *fakeStore) SavePreferences(profile string, prefs models.PreferenceVector) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = &prefs
	f.prefs[profile] = &prefs
	return nil
}

func (f *fakeStore) ActiveItems(profile string) ([]models.CandidateItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeStore) RecentFeedback(profile string, limit int) ([]models.FeedbackEvent, error) {
	f.lastLimit = limit
	return f.feedback, nil
}

func (f *fakeStore) CountFeedbackToday(profile, day string) (int, int, error) {
	if f.activityErr != nil {
		return 0, 0, f.activityErr
	}
	return f.feedbackTotal, f.feedbackOverrides, nil
}

func (f *fakeStore) AddFeedback(profile string, ev models.FeedbackEvent) error {
	f.feedback = append(f.feedback, ev)
	return nil
}

func (f *fakeStore) SumSessionDurationToday(profile, day string) (int64, error) {
	if f.activityErr != nil {
		return 0, f.activityErr
	}
	return f.sessionMs, nil
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 11, hour, 0, 0, 0, time.UTC) // a Wednesday
	}
}

func TestCognitiveLoad_FallsBackOnActivityError(t *testing.T) {
	store := newFakeStore()
	store.activityErr = errors.New("db locked")
	e := NewWithClock(store, fixedClock(9))

	result := e.CognitiveLoad("default")
	if result.Score != 50 || result.Tier != models.TierAssist {
		t.Errorf("expected safe default 50/assist, got %d/%s", result.Score, result.Tier)
	}
}

func TestPlan_EmptyCandidates(t *testing.T) {
	store := newFakeStore()
	e := NewWithClock(store, fixedClock(10))

	result, err := e.Plan("default")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(result.Cards) != 0 {
		t.Errorf("expected zero cards, got %d", len(result.Cards))
	}
	if result.Message == "" {
		t.Error("expected an explanatory message")
	}
}

func TestPlan_DefaultVectorWhenMissing(t *testing.T) {
	store := newFakeStore()
	store.items = []models.CandidateItem{
		{ID: "t1", Kind: models.ItemKindTask, Title: "Write", Effort: 3, EstimatedMinutes: 30, Active: true, Frequency: models.FrequencyDaily},
	}
	e := NewWithClock(store, fixedClock(10))

	result, err := e.Plan("brand-new")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(result.Cards) == 0 {
		t.Fatal("expected cards from default vector")
	}
	if result.Prefs.SuggestionConfidence != 0.5 {
		t.Errorf("expected default confidence 0.5, got %v", result.Prefs.SuggestionConfidence)
	}
}

func TestPlan_PropagatesItemStoreError(t *testing.T) {
	store := newFakeStore()
	store.itemsErr = errors.New("store unavailable")
	e := NewWithClock(store, fixedClock(10))

	if _, err := e.Plan("default"); err == nil {
		t.Error("expected candidate store failure to propagate")
	}
}

func TestPlan_FiltersIneligibleItems(t *testing.T) {
	store := newFakeStore()
	store.items = []models.CandidateItem{
		{ID: "wk", Kind: models.ItemKindTask, Title: "Weekday standup", Active: true, Frequency: models.FrequencyWeekdays, EstimatedMinutes: 15},
		{ID: "we", Kind: models.ItemKindTask, Title: "Weekend hike", Active: true, Frequency: models.FrequencyWeekends, EstimatedMinutes: 120},
		{ID: "off", Kind: models.ItemKindTask, Title: "Paused", Active: false, Frequency: models.FrequencyDaily, EstimatedMinutes: 30},
	}
	// Wednesday.
	e := NewWithClock(store, fixedClock(10))

	result, err := e.Plan("default")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	ids := map[string]bool{}
	for _, c := range result.Cards {
		for _, item := range c.Items {
			ids[item.ItemID] = true
		}
	}
	if !ids["wk"] {
		t.Error("expected the weekday item on a Wednesday")
	}
	if ids["we"] {
		t.Error("weekend item must not appear on a Wednesday")
	}
	if ids["off"] {
		t.Error("inactive item must not appear")
	}
}

func TestSubmitFeedback_RejectsInvalidAction(t *testing.T) {
	store := newFakeStore()
	e := NewWithClock(store, fixedClock(10))

	if _, err := e.SubmitFeedback("default", "shrug", models.FeedbackContext{}); err == nil {
		t.Error("expected invalid action to be rejected")
	}
	if store.saved != nil {
		t.Error("invalid action must not touch the vector")
	}
}

func TestSubmitFeedback_PersistsUpdatedVector(t *testing.T) {
	store := newFakeStore()
	e := NewWithClock(store, fixedClock(8))

	updated, err := e.SubmitFeedback("default", models.FeedbackAccept, models.FeedbackContext{Hour: 8})
	if err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}
	if store.saved == nil {
		t.Fatal("expected the vector to be persisted")
	}
	if store.saved.TotalDecisions != 1 || updated.TotalDecisions != 1 {
		t.Errorf("expected one recorded decision, stored=%d returned=%d",
			store.saved.TotalDecisions, updated.TotalDecisions)
	}
	if len(store.feedback) != 1 {
		t.Errorf("expected the feedback event recorded, got %d", len(store.feedback))
	}
}

func TestSubmitFeedback_SaveFailureLeavesNoPartialState(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	e := NewWithClock(store, fixedClock(8))

	if _, err := e.SubmitFeedback("default", models.FeedbackAccept, models.FeedbackContext{Hour: 8}); err == nil {
		t.Fatal("expected save failure to propagate")
	}
	if len(store.feedback) != 0 {
		t.Error("failed submission must not record a feedback event")
	}
	if store.prefs["default"] != nil {
		t.Error("failed submission must not persist a vector")
	}
}

func TestSubmitFeedback_PropagatesPreferenceReadError(t *testing.T) {
	store := newFakeStore()
	store.prefsErr = errors.New("store unavailable")
	e := NewWithClock(store, fixedClock(8))

	if _, err := e.SubmitFeedback("default", models.FeedbackAccept, models.FeedbackContext{Hour: 8}); err == nil {
		t.Error("expected preference store failure to propagate, not fabricate state")
	}
}

func TestPlan_RecentFeedbackLimit(t *testing.T) {
	store := newFakeStore()
	e := NewWithClock(store, fixedClock(10))

	if _, err := e.Plan("default"); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if store.lastLimit != DefaultRecentFeedbackLimit {
		t.Errorf("expected default limit %d, got %d", DefaultRecentFeedbackLimit, store.lastLimit)
	}

	e.SetRecentFeedbackLimit(50)
	if _, err := e.Plan("default"); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if store.lastLimit != 50 {
		t.Errorf("expected overridden limit 50, got %d", store.lastLimit)
	}

	// Non-positive overrides are ignored.
	e.SetRecentFeedbackLimit(0)
	if _, err := e.Plan("default"); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if store.lastLimit != 50 {
		t.Errorf("expected limit to stay 50, got %d", store.lastLimit)
	}
}
