package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marcwilhite/daycard/internal/models"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Conflict describes one problem found in the data. Conflicts are reported,
// not raised: callers decide whether to block on them.
type Conflict struct {
	ItemID   string
	Severity Severity
	Message  string
}

type Result struct {
	Conflicts []Conflict
}

func (r Result) HasErrors() bool {
	for _, c := range r.Conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateItems checks every candidate item for internal consistency.
func (v *Validator) ValidateItems(items []models.CandidateItem) Result {
	var result Result
	seen := make(map[string]bool)

	for _, item := range items {
		if seen[item.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				ItemID:   item.ID,
				Severity: SeverityError,
				Message:  fmt.Sprintf("duplicate item ID: %s", item.ID),
			})
		}
		seen[item.ID] = true

		result.Conflicts = append(result.Conflicts, v.ValidateItem(item).Conflicts...)
	}

	return result
}

// ValidateItem checks a single candidate item.
func (v *Validator) ValidateItem(item models.CandidateItem) Result {
	var result Result
	add := func(sev Severity, format string, args ...any) {
		result.Conflicts = append(result.Conflicts, Conflict{
			ItemID:   item.ID,
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if strings.TrimSpace(item.Title) == "" {
		add(SeverityError, "item title must not be empty")
	}

	switch item.Kind {
	case models.ItemKindTask, models.ItemKindMeal, models.ItemKindBreak:
	default:
		add(SeverityError, "unknown item kind: %q", item.Kind)
	}

	if item.Effort != 0 && (item.Effort < 1 || item.Effort > 5) {
		add(SeverityError, "effort must be between 1 and 5, got %d", item.Effort)
	}

	if item.EstimatedMinutes < 0 {
		add(SeverityError, "estimated minutes must not be negative")
	}

	if item.PreferredTime != "" && !validClockTime(item.PreferredTime) {
		add(SeverityError, "preferred time must be HH:MM, got %q", item.PreferredTime)
	}

	switch item.Frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyWeekdays, models.FrequencyWeekends:
	case "":
		add(SeverityWarning, "item has no frequency; treated as daily")
	default:
		add(SeverityError, "unknown frequency: %q", item.Frequency)
	}

	if item.Kind == models.ItemKindMeal {
		switch item.MealType {
		case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
		default:
			add(SeverityError, "meal items need a meal type (breakfast|lunch|dinner|snack), got %q", item.MealType)
		}
	}

	if item.Kind == models.ItemKindBreak && item.BreakDurationMin <= 0 {
		add(SeverityWarning, "break items should carry a positive duration")
	}

	return result
}

func validClockTime(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return false
	}
	return true
}
