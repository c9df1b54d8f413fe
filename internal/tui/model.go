package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/marcwilhite/daycard/internal/engine"
	"github.com/marcwilhite/daycard/internal/models"
	"github.com/marcwilhite/daycard/internal/storage"
)

type SessionState int

const (
	StateCards SessionState = iota
	StateItems
	StatePrefs
	StateOverride
)

const tabCount = 3

type Model struct {
	store   storage.Provider
	engine  *engine.Engine
	profile string

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	plan  engine.PlanResult
	items []models.CandidateItem
	prefs models.PreferenceVector

	cardCursor int
	itemCursor int

	override *overrideFormModel

	status   string
	quitting bool
	width    int
	height   int
}

// overrideFormModel holds the override-entry state on the heap. bubbletea
// copies Model on every Update, so the huh input must bind to a string whose
// address survives those copies.
type overrideFormModel struct {
	card   models.CompressedCard
	chosen string
	form   *huh.Form
}

func newOverrideForm(card models.CompressedCard) *overrideFormModel {
	f := &overrideFormModel{card: card}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What did you do instead?").
				Value(&f.chosen).
				Validate(func(s string) error {
					if s == "" {
						return errEmptyAlternative
					}
					return nil
				}),
		),
	)
	return f
}

func NewModel(store storage.Provider, eng *engine.Engine, profile string) Model {
	m := Model{
		store:   store,
		engine:  eng,
		profile: profile,
		state:   StateCards,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}

	m.regenerate()
	m.reloadItems()

	return m
}

// regenerate runs a fresh plan and snapshots it for the day.
func (m *Model) regenerate() {
	result, err := m.engine.Plan(m.profile)
	if err != nil {
		m.status = "Plan failed: " + err.Error()
		return
	}
	m.plan = result
	m.prefs = result.Prefs
	if m.cardCursor >= len(result.Cards) {
		m.cardCursor = 0
	}

	snap := models.CardSnapshot{
		Day:     time.Now().Format("2006-01-02"),
		Cards:   result.Cards,
		Message: result.Message,
	}
	if err := m.store.SaveCardSnapshot(m.profile, snap); err != nil {
		m.status = "Snapshot failed: " + err.Error()
	}
}

func (m *Model) reloadItems() {
	items, err := m.store.GetAllItems(m.profile)
	if err != nil {
		m.status = "Items failed: " + err.Error()
		return
	}
	m.items = items
	if m.itemCursor >= len(items) {
		m.itemCursor = 0
	}
}

// selectedCard returns the card under the cursor, or nil.
func (m *Model) selectedCard() *models.CompressedCard {
	if m.cardCursor < 0 || m.cardCursor >= len(m.plan.Cards) {
		return nil
	}
	return &m.plan.Cards[m.cardCursor]
}

// feedbackContext captures the situation for a feedback submission about card.
func (m *Model) feedbackContext(card *models.CompressedCard, chose string) models.FeedbackContext {
	fctx := models.FeedbackContext{
		ChosenAlternative: chose,
		CognitiveLoad:     m.plan.Load.Score,
		Hour:              time.Now().Hour(),
	}
	if len(card.Items) > 0 {
		fctx.ItemID = card.Items[0].ItemID
		fctx.ItemTitle = card.Items[0].Title
	}
	for _, c := range m.plan.Cards {
		for _, item := range c.Items {
			fctx.SuggestedItems = append(fctx.SuggestedItems, item.Title)
		}
	}
	return fctx
}

func (m *Model) submitFeedback(action models.FeedbackAction, card *models.CompressedCard, chose string) {
	updated, err := m.engine.SubmitFeedback(m.profile, action, m.feedbackContext(card, chose))
	if err != nil {
		m.status = "Feedback failed: " + err.Error()
		return
	}
	m.prefs = updated

	switch action {
	case models.FeedbackAccept:
		m.status = "Accepted \"" + card.Title + "\""
	case models.FeedbackOverride:
		m.status = "Overrode \"" + card.Title + "\" with \"" + chose + "\""
	case models.FeedbackIgnore:
		m.status = "Ignored \"" + card.Title + "\""
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateCards:
		keys = append(keys, m.keys.Accept, m.keys.Override, m.keys.Ignore, m.keys.Generate)
	case StateItems:
		keys = append(keys, m.keys.Toggle)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateCards:
		actions = []key.Binding{m.keys.Accept, m.keys.Override, m.keys.Ignore, m.keys.Generate}
	case StateItems:
		actions = []key.Binding{m.keys.Toggle}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
