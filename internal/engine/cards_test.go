package engine

import (
	"strings"
	"testing"

	"github.com/marcwilhite/daycard/internal/models"
)

func scoredFixture(prefs models.PreferenceVector, hour int, items ...models.CandidateItem) []ScoredItem {
	return ScoreAll(items, prefs, hour, nil)
}

func task(id, title string, effort int) models.CandidateItem {
	return models.CandidateItem{ID: id, Kind: models.ItemKindTask, Title: title, Effort: effort, EstimatedMinutes: 30, Active: true}
}

func TestAssemble_NoCandidates(t *testing.T) {
	cards, msg := Assemble(nil, models.DefaultPreferences(), 10, models.TierManual)
	if len(cards) != 0 {
		t.Errorf("expected zero cards, got %d", len(cards))
	}
	if msg == "" {
		t.Error("expected a non-empty explanatory message")
	}
}

func TestAssemble_PrimaryIncludesBreak(t *testing.T) {
	prefs := models.DefaultPreferences()
	prefs.BreakFrequency = 0.5

	breakItem := models.CandidateItem{ID: "b1", Kind: models.ItemKindBreak, Title: "Short walk", BreakDurationMin: 10, Active: true}
	scored := scoredFixture(prefs, 10, task("t1", "Deep work", 4), breakItem)

	cards, _ := Assemble(scored, prefs, 10, models.TierAssist)
	if len(cards) == 0 {
		t.Fatal("expected at least one card")
	}

	primary := cards[0]
	if len(primary.Items) != 2 {
		t.Fatalf("expected task + break on primary card, got %d items", len(primary.Items))
	}
	if primary.Items[0].Kind != models.ItemKindTask || primary.Items[1].Kind != models.ItemKindBreak {
		t.Errorf("expected task then break, got %s then %s", primary.Items[0].Kind, primary.Items[1].Kind)
	}
	if primary.DurationMin != 40 {
		t.Errorf("expected combined duration 40, got %d", primary.DurationMin)
	}
}

func TestAssemble_NoBreakWhenFrequencyLow(t *testing.T) {
	prefs := models.DefaultPreferences()
	prefs.BreakFrequency = 0.2

	breakItem := models.CandidateItem{ID: "b1", Kind: models.ItemKindBreak, Title: "Short walk", BreakDurationMin: 10, Active: true}
	scored := scoredFixture(prefs, 10, task("t1", "Deep work", 4), breakItem)

	cards, _ := Assemble(scored, prefs, 10, models.TierAssist)
	if len(cards[0].Items) != 1 {
		t.Errorf("expected primary card without break, got %d items", len(cards[0].Items))
	}
}

func TestAssemble_MealOnlyWhenRelevant(t *testing.T) {
	prefs := models.DefaultPreferences()
	lunch := models.CandidateItem{ID: "m1", Kind: models.ItemKindMeal, Title: "Lunch", MealType: models.MealLunch, EstimatedMinutes: 30, Active: true}

	inWindow, _ := Assemble(scoredFixture(prefs, 12, task("t1", "Work", 3), lunch), prefs, 12, models.TierManual)
	outOfWindow, _ := Assemble(scoredFixture(prefs, 9, task("t1", "Work", 3), lunch), prefs, 9, models.TierManual)

	if !hasCardWithKind(inWindow, models.ItemKindMeal) {
		t.Error("expected a meal card at lunch hour")
	}
	if hasCardWithKind(outOfWindow, models.ItemKindMeal) {
		t.Error("did not expect a meal card at 9am for lunch")
	}
}

func TestAssemble_SecondaryOmitsBreakOnAuto(t *testing.T) {
	prefs := models.DefaultPreferences()
	prefs.BreakFrequency = 0.2 // keep primary simple

	breakItem := models.CandidateItem{ID: "b1", Kind: models.ItemKindBreak, Title: "Stretch", BreakDurationMin: 5, Active: true}
	scored := scoredFixture(prefs, 10, task("t1", "First", 3), task("t2", "Second", 3), breakItem)

	auto, _ := Assemble(scored, prefs, 10, models.TierAuto)
	manual, _ := Assemble(scored, prefs, 10, models.TierManual)

	autoSecondary := findCard(auto, "Next up")
	if autoSecondary == nil {
		t.Fatal("expected a secondary card on auto tier")
	}
	if len(autoSecondary.Items) != 1 {
		t.Errorf("auto secondary card should omit the break, got %d items", len(autoSecondary.Items))
	}

	manualSecondary := findCard(manual, "Next up")
	if manualSecondary == nil {
		t.Fatal("expected a secondary card on manual tier")
	}
	if len(manualSecondary.Items) != 2 {
		t.Errorf("manual secondary card should include a break, got %d items", len(manualSecondary.Items))
	}
}

func TestAssemble_ManualWindDown(t *testing.T) {
	prefs := models.DefaultPreferences()

	// Tags keep the two main tasks ranked above the low-effort journal, which
	// would otherwise win on the low-effort bonus and land on the primary card.
	first := task("t1", "First", 3)
	first.Tags = []string{"urgent"}
	second := task("t2", "Second", 3)
	second.Tags = []string{"important"}
	scored := scoredFixture(prefs, 19, first, second, task("t3", "Journal", 1))

	cards, _ := Assemble(scored, prefs, 19, models.TierManual)
	windDown := findCard(cards, "Wind down")
	if windDown == nil {
		t.Fatal("expected a wind-down card at manual tier in the evening")
	}
	if windDown.Items[0].ItemID != "t3" {
		t.Errorf("expected the low-effort task on the wind-down card, got %s", windDown.Items[0].ItemID)
	}
}

func TestAssemble_ManualBonusBeforeEvening(t *testing.T) {
	prefs := models.DefaultPreferences()
	scored := scoredFixture(prefs, 10,
		task("t1", "First", 3),
		task("t2", "Second", 3),
		task("t3", "Third", 3),
	)

	cards, _ := Assemble(scored, prefs, 10, models.TierManual)
	if findCard(cards, "Bonus") == nil {
		t.Error("expected a bonus card at manual tier before evening")
	}
}

func TestAssemble_CardLimits(t *testing.T) {
	tests := []struct {
		tier       models.Tier
		confidence float64
		want       int
	}{
		{models.TierAuto, 0.5, 2},
		{models.TierAssist, 0.7, 3},
		{models.TierAssist, 0.5, 4},
		{models.TierManual, 0.9, 4},
	}
	for _, tt := range tests {
		if got := MaxCards(tt.tier, tt.confidence); got != tt.want {
			t.Errorf("MaxCards(%s, %.1f) = %d, want %d", tt.tier, tt.confidence, got, tt.want)
		}
	}
}

func TestAssemble_AutoTierCapsCards(t *testing.T) {
	prefs := models.DefaultPreferences()
	lunch := models.CandidateItem{ID: "m1", Kind: models.ItemKindMeal, Title: "Lunch", MealType: models.MealLunch, EstimatedMinutes: 30, Active: true}
	scored := scoredFixture(prefs, 12,
		task("t1", "First", 3), task("t2", "Second", 3), task("t3", "Third", 3), lunch,
	)

	cards, _ := Assemble(scored, prefs, 12, models.TierAuto)
	if len(cards) > 2 {
		t.Errorf("auto tier must surface at most 2 cards, got %d", len(cards))
	}
	for i, c := range cards {
		if c.Priority != i+1 {
			t.Errorf("card %d: expected priority %d, got %d", i, i+1, c.Priority)
		}
	}
}

func TestAssemble_RationaleLeadClause(t *testing.T) {
	prefs := models.DefaultPreferences()
	prefs.MorningWeight = 0.9

	item := task("t1", "Deep work", 4)
	item.Tags = []string{"important"}
	scored := scoredFixture(prefs, 8, item)

	cards, _ := Assemble(scored, prefs, 8, models.TierManual)
	rationale := cards[0].Rationale
	if !strings.HasPrefix(rationale, "Suggested because "+reasonPhrases[ReasonTimeBand]) {
		t.Errorf("expected time-band phrasing to lead, got %q", rationale)
	}
	if !strings.Contains(rationale, reasonPhrases[ReasonTag]) {
		t.Errorf("expected tag phrasing appended, got %q", rationale)
	}
}

func hasCardWithKind(cards []models.CompressedCard, kind models.ItemKind) bool {
	for _, c := range cards {
		for _, item := range c.Items {
			if item.Kind == kind {
				return true
			}
		}
	}
	return false
}

func findCard(cards []models.CompressedCard, title string) *models.CompressedCard {
	for i := range cards {
		if cards[i].Title == title {
			return &cards[i]
		}
	}
	return nil
}
