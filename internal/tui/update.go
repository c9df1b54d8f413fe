package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/marcwilhite/daycard/internal/models"
)

var errEmptyAlternative = errors.New("say what you did instead")

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateOverride {
		return m.updateOverrideForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
		default:
			return m.updateTab(msg)
		}
	}

	return m, nil
}

func (m Model) updateTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateCards:
		return m.updateCards(msg)
	case StateItems:
		return m.updateItems(msg)
	}
	return m, nil
}

func (m Model) updateCards(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cardCursor > 0 {
			m.cardCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cardCursor < len(m.plan.Cards)-1 {
			m.cardCursor++
		}
	case key.Matches(msg, m.keys.Generate):
		m.regenerate()
		m.status = "Cards regenerated."
	case key.Matches(msg, m.keys.Accept):
		if card := m.selectedCard(); card != nil {
			m.submitFeedback(models.FeedbackAccept, card, "")
		}
	case key.Matches(msg, m.keys.Ignore):
		if card := m.selectedCard(); card != nil {
			m.submitFeedback(models.FeedbackIgnore, card, "")
		}
	case key.Matches(msg, m.keys.Override):
		if card := m.selectedCard(); card != nil {
			m.override = newOverrideForm(*card)
			m.previousState = m.state
			m.state = StateOverride
			return m, m.override.form.Init()
		}
	}
	return m, nil
}

func (m Model) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.itemCursor > 0 {
			m.itemCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.itemCursor < len(m.items)-1 {
			m.itemCursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.itemCursor >= 0 && m.itemCursor < len(m.items) {
			item := m.items[m.itemCursor]
			item.Active = !item.Active
			if err := m.store.UpdateItem(m.profile, item); err != nil {
				m.status = "Update failed: " + err.Error()
			} else {
				m.reloadItems()
			}
		}
	}
	return m, nil
}

func (m Model) updateOverrideForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = m.previousState
		m.override = nil
		return m, nil
	}

	form, cmd := m.override.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.override.form = f
	}

	if m.override.form.State == huh.StateCompleted {
		m.submitFeedback(models.FeedbackOverride, &m.override.card, m.override.chosen)
		m.state = m.previousState
		m.override = nil
	}

	return m, cmd
}
