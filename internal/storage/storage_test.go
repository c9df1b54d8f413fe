package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcwilhite/daycard/internal/models"
)

// newTestProviders returns a fresh, initialized store of each backend.
func newTestProviders(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()

	sqlite := NewSQLiteStore(filepath.Join(dir, "daycard.db"))
	if err := sqlite.Init(); err != nil {
		t.Fatalf("sqlite init failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	jsonStore := NewJSONStore(filepath.Join(dir, "daycard.json"))
	if err := jsonStore.Init(); err != nil {
		t.Fatalf("json init failed: %v", err)
	}

	return map[string]Provider{"sqlite": sqlite, "json": jsonStore}
}

func testItem(id, title string) models.CandidateItem {
	return models.CandidateItem{
		ID:               id,
		Kind:             models.ItemKindTask,
		Title:            title,
		Effort:           3,
		EstimatedMinutes: 30,
		Tags:             []string{"important"},
		Frequency:        models.FrequencyDaily,
		Active:           true,
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}
}

func TestItemLifecycle(t *testing.T) {
	for name, store := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			item := testItem("item-1", "Morning pages")
			if err := store.AddItem("default", item); err != nil {
				t.Fatalf("AddItem failed: %v", err)
			}

			got, err := store.GetItem("default", "item-1")
			if err != nil {
				t.Fatalf("GetItem failed: %v", err)
			}
			if got.Title != "Morning pages" || got.Effort != 3 || len(got.Tags) != 1 {
				t.Errorf("round-trip mismatch: %+v", got)
			}

			// Soft delete hides the item but keeps the record.
			if err := store.DeleteItem("default", "item-1"); err != nil {
				t.Fatalf("DeleteItem failed: %v", err)
			}
			if _, err := store.GetItem("default", "item-1"); err == nil {
				t.Error("expected deleted item to be hidden")
			}
			if err := store.DeleteItem("default", "item-1"); err == nil {
				t.Error("expected double delete to fail")
			}

			if err := store.RestoreItem("default", "item-1"); err != nil {
				t.Fatalf("RestoreItem failed: %v", err)
			}
			if _, err := store.GetItem("default", "item-1"); err != nil {
				t.Errorf("expected restored item to be visible: %v", err)
			}
		})
	}
}

func TestActiveItemsFilter(t *testing.T) {
	for name, store := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			active := testItem("a", "Active")
			paused := testItem("p", "Paused")
			paused.Active = false

			if err := store.AddItem("default", active); err != nil {
				t.Fatal(err)
			}
			if err := store.AddItem("default", paused); err != nil {
				t.Fatal(err)
			}

			items, err := store.ActiveItems("default")
			if err != nil {
				t.Fatalf("ActiveItems failed: %v", err)
			}
			if len(items) != 1 || items[0].ID != "a" {
				t.Errorf("expected only the active item, got %+v", items)
			}

			all, err := store.GetAllItems("default")
			if err != nil {
				t.Fatalf("GetAllItems failed: %v", err)
			}
			if len(all) != 2 {
				t.Errorf("expected both items, got %d", len(all))
			}
		})
	}
}

func TestItemsAreProfileScoped(t *testing.T) {
	for name, store := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.AddItem("alice", testItem("a1", "Alice's run")); err != nil {
				t.Fatal(err)
			}

			items, err := store.GetAllItems("bob")
			if err != nil {
				t.Fatalf("GetAllItems failed: %v", err)
			}
			if len(items) != 0 {
				t.Errorf("bob should not see alice's items, got %d", len(items))
			}
		})
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	for name, store := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			// No vector yet: nil without error.
			prefs, err := store.GetPreferences("default")
			if err != nil {
				t.Fatalf("GetPreferences failed: %v", err)
			}
			if prefs != nil {
				t.Fatalf("expected nil vector for a fresh profile, got %+v", prefs)
			}

			saved := models.DefaultPreferences()
			saved.MorningWeight = 0.8
			saved.TotalDecisions = 7
			saved.PreferredAlternatives = []models.PreferredAlternative{
				{Original: "Run", Chosen: "Yoga", Hour: 8, CognitiveLoad: 40},
			}
			if err := store.SavePreferences("default", saved); err != nil {
				t.Fatalf("SavePreferences failed: %v", err)
			}

			got, err := store.GetPreferences("default")
			if err != nil {
				t.Fatalf("GetPreferences failed: %v", err)
			}
			if got == nil {
				t.Fatal("expected a stored vector")
			}
			if got.MorningWeight != 0.8 || got.TotalDecisions != 7 {
				t.Errorf("round-trip mismatch: %+v", got)
			}
			if len(got.PreferredAlternatives) != 1 || got.PreferredAlternatives[0].Chosen != "Yoga" {
				t.Errorf("alternatives mismatch: %+v", got.PreferredAlternatives)
			}
		})
	}
}

func TestFeedbackRecentAndCounts(t *testing.T) {
	for name, store := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
			day := base.Format("2006-01-02")

			actions := []models.FeedbackAction{
				models.FeedbackAccept, models.FeedbackOverride, models.FeedbackIgnore,
			}
			for i, action := range actions {
				ev := models.FeedbackEvent{
					Action:    action,
					Context:   models.FeedbackContext{ItemID: "x", Hour: 9, CognitiveLoad: 30},
					CreatedAt: base.Add(time.Duration(i) * time.Minute),
				}
				if err := store.AddFeedback("default", ev); err != nil {
					t.Fatalf("AddFeedback failed: %v", err)
				}
			}

			recent, err := store.RecentFeedback("default", 2)
			if err != nil {
				t.Fatalf("RecentFeedback failed: %v", err)
			}
			if len(recent) != 2 {
				t.Fatalf("expected 2 recent events, got %d", len(recent))
			}
			if recent[0].Action != models.FeedbackIgnore {
				t.Errorf("expected newest event first, got %s", recent[0].Action)
			}
			if recent[0].Context.ItemID != "x" {
				t.Errorf("context round-trip failed: %+v", recent[0].Context)
			}

			total, overrides, err := store.CountFeedbackToday("default", day)
			if err != nil {
				t.Fatalf("CountFeedbackToday failed: %v", err)
			}
			if total != 3 || overrides != 1 {
				t.Errorf("expected total=3 overrides=1, got %d/%d", total, overrides)
			}

			// A different day sees nothing.
			total, overrides, err = store.CountFeedbackToday("default", "2026-03-12")
			if err != nil {
				t.Fatal(err)
			}
			if total != 0 || overrides != 0 {
				t.Errorf("expected zero counts on another day, got %d/%d", total, overrides)
			}
		})
	}
}

func TestSessionDurations(t *testing.T) {
	for name, store := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			day := "2026-03-11"
			for _, ms := range []int64{600000, 900000} {
				rec := models.SessionRecord{Day: day, DurationMs: ms, CreatedAt: time.Now()}
				if err := store.AddSession("default", rec); err != nil {
					t.Fatalf("AddSession failed: %v", err)
				}
			}
			if err := store.AddSession("default", models.SessionRecord{Day: "2026-03-10", DurationMs: 120000, CreatedAt: time.Now()}); err != nil {
				t.Fatal(err)
			}

			total, err := store.SumSessionDurationToday("default", day)
			if err != nil {
				t.Fatalf("SumSessionDurationToday failed: %v", err)
			}
			if total != 1500000 {
				t.Errorf("expected 1500000ms, got %d", total)
			}
		})
	}
}

func TestCardSnapshotRoundTrip(t *testing.T) {
	for name, store := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			snap := models.CardSnapshot{
				Day: "2026-03-11",
				Cards: []models.CompressedCard{
					{
						ID:    "card-1",
						Title: "Focus block",
						Items: []models.CardItem{
							{Kind: models.ItemKindTask, ItemID: "t1", Title: "Write", ActionText: "Start Write"},
						},
						DurationMin: 30,
						Rationale:   "Suggested because it fits your usual rhythm this time of day.",
						Tier:        models.TierAssist,
						Priority:    1,
					},
				},
			}
			if err := store.SaveCardSnapshot("default", snap); err != nil {
				t.Fatalf("SaveCardSnapshot failed: %v", err)
			}

			got, err := store.GetCardSnapshot("default", "2026-03-11")
			if err != nil {
				t.Fatalf("GetCardSnapshot failed: %v", err)
			}
			if len(got.Cards) != 1 || got.Cards[0].Title != "Focus block" {
				t.Errorf("snapshot round-trip mismatch: %+v", got)
			}

			if _, err := store.GetCardSnapshot("default", "2026-03-12"); err == nil {
				t.Error("expected missing snapshot to error")
			}
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	for name, store := range newTestProviders(t) {
		t.Run(name, func(t *testing.T) {
			settings, err := store.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings failed: %v", err)
			}
			if settings.DayStart != "07:00" || settings.DefaultProfile != "default" {
				t.Errorf("unexpected defaults: %+v", settings)
			}

			settings.DayStart = "06:30"
			settings.RecentFeedbackLimit = 50
			if err := store.SaveSettings(settings); err != nil {
				t.Fatalf("SaveSettings failed: %v", err)
			}

			got, err := store.GetSettings()
			if err != nil {
				t.Fatal(err)
			}
			if got.DayStart != "06:30" || got.RecentFeedbackLimit != 50 {
				t.Errorf("settings round-trip mismatch: %+v", got)
			}
		})
	}
}

func TestSQLiteLoadValidatesSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daycard.db")

	store := NewSQLiteStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	store.Close()

	reopened := NewSQLiteStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load after Init failed: %v", err)
	}
	reopened.Close()
}

func TestJSONStoreLoadMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nope.json"))
	if err := store.Load(); err == nil {
		t.Error("expected load of missing file to fail")
	}
}

func TestJSONStoreSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daycard.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.AddItem("default", testItem("a1", "Stretch")); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("expected no leftover temp file, stat err: %v", err)
	}

	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}
	item, err := reopened.GetItem("default", "a1")
	if err != nil {
		t.Fatalf("GetItem after reload failed: %v", err)
	}
	if item.Title != "Stretch" {
		t.Errorf("expected the saved item back, got %q", item.Title)
	}
}
