package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == StateOverride {
		return docStyle.Render(m.override.form.View())
	}

	var content string
	switch m.state {
	case StateCards:
		content = m.viewCards()
	case StateItems:
		content = m.viewItems()
	case StatePrefs:
		content = m.viewPrefs()
	}

	sections := []string{m.viewTabs(), m.viewLoad(), content}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Cards", "Items", "Prefs"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewLoad() string {
	return loadStyle.Render(fmt.Sprintf("Load %d/100 · %s mode", m.plan.Load.Score, m.plan.Load.Tier))
}

func (m Model) viewCards() string {
	if len(m.plan.Cards) == 0 {
		msg := m.plan.Message
		if msg == "" {
			msg = "No cards yet. Press g to generate."
		}
		return docStyle.Render(dimStyle.Render(msg))
	}

	var b strings.Builder
	for i, card := range m.plan.Cards {
		title := fmt.Sprintf("%d. %s (%d min)", card.Priority, card.Title, card.DurationMin)
		if i == m.cardCursor {
			b.WriteString(selectedStyle.Render("> " + title))
		} else {
			b.WriteString("  " + title)
		}
		b.WriteString("\n")
		for _, item := range card.Items {
			b.WriteString("       " + item.ActionText + "\n")
		}
		if card.Rationale != "" {
			b.WriteString(dimStyle.Render("       "+card.Rationale) + "\n")
		}
		b.WriteString("\n")
	}
	return docStyle.Render(b.String())
}

func (m Model) viewItems() string {
	if len(m.items) == 0 {
		return docStyle.Render(dimStyle.Render("No items. Add some with 'daycard item add'."))
	}

	var b strings.Builder
	for i, item := range m.items {
		status := "active"
		if !item.Active {
			status = "paused"
		}
		line := fmt.Sprintf("[%s] %s (%s)", status, item.Title, item.Kind)
		if i == m.itemCursor {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return docStyle.Render(b.String())
}

func (m Model) viewPrefs() string {
	p := m.prefs

	var b strings.Builder
	fmt.Fprintf(&b, "Morning %.2f · Afternoon %.2f · Evening %.2f\n", p.MorningWeight, p.AfternoonWeight, p.EveningWeight)
	fmt.Fprintf(&b, "High effort %.2f · Low effort %.2f\n", p.HighEffortPreference, p.LowEffortPreference)
	fmt.Fprintf(&b, "Breaks %.2f · Focus %.0f min\n", p.BreakFrequency, p.FocusDurationMin)
	fmt.Fprintf(&b, "Confidence %.2f · Override tendency %.2f\n", p.SuggestionConfidence, p.HighLoadOverrideTendency)
	fmt.Fprintf(&b, "Decisions %d (accept %.0f%% / override %.0f%% / ignore %.0f%%)\n",
		p.TotalDecisions, p.AcceptRate*100, p.OverrideRate*100, p.IgnoreRate*100)
	if p.NeedsRecalibration {
		b.WriteString(dimStyle.Render("Suggestions keep getting ignored; consider a prefs reset.") + "\n")
	}
	if len(p.PreferredAlternatives) > 0 {
		b.WriteString("\nObserved alternatives:\n")
		for _, alt := range p.PreferredAlternatives {
			fmt.Fprintf(&b, "  %s instead of %s (around %02d:00)\n", alt.Chosen, alt.Original, alt.Hour)
		}
	}
	return docStyle.Render(b.String())
}
