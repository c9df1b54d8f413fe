package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marcwilhite/daycard/internal/engine"
	"github.com/marcwilhite/daycard/internal/models"
	"github.com/marcwilhite/daycard/internal/storage"
)

type Context struct {
	Store   storage.Provider
	Engine  *engine.Engine
	Profile string
}

// loadStore opens the store and applies stored settings to the engine.
// Commands that run the engine use this instead of a bare Load.
func (ctx *Context) loadStore() error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if settings, err := ctx.Store.GetSettings(); err == nil {
		ctx.Engine.SetRecentFeedbackLimit(settings.RecentFeedbackLimit)
	}
	return nil
}

// clockToMinutes parses HH:MM into minutes from midnight, -1 when invalid.
func clockToMinutes(s string) int {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return -1
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return -1
	}
	return hour*60 + minute
}

func parseKind(s string) (models.ItemKind, error) {
	switch s {
	case "task":
		return models.ItemKindTask, nil
	case "meal":
		return models.ItemKindMeal, nil
	case "break":
		return models.ItemKindBreak, nil
	default:
		return "", fmt.Errorf("invalid kind: %s (task|meal|break)", s)
	}
}

func parseFrequency(s string) (models.Frequency, error) {
	switch s {
	case "daily":
		return models.FrequencyDaily, nil
	case "weekly":
		return models.FrequencyWeekly, nil
	case "weekdays":
		return models.FrequencyWeekdays, nil
	case "weekends":
		return models.FrequencyWeekends, nil
	default:
		return "", fmt.Errorf("invalid frequency: %s (daily|weekly|weekdays|weekends)", s)
	}
}

func parseMealType(s string) (models.MealType, error) {
	switch s {
	case "breakfast":
		return models.MealBreakfast, nil
	case "lunch":
		return models.MealLunch, nil
	case "dinner":
		return models.MealDinner, nil
	case "snack":
		return models.MealSnack, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("invalid meal type: %s (breakfast|lunch|dinner|snack)", s)
	}
}

func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// findItemByRef resolves an item reference that may be an ID or a title
// (case-insensitive exact match, then unique prefix).
func findItemByRef(ctx *Context, ref string) (models.CandidateItem, error) {
	items, err := ctx.Store.GetAllItems(ctx.Profile)
	if err != nil {
		return models.CandidateItem{}, err
	}

	lower := strings.ToLower(ref)
	var prefix []models.CandidateItem
	for _, item := range items {
		if item.ID == ref || strings.EqualFold(item.Title, ref) {
			return item, nil
		}
		if strings.HasPrefix(strings.ToLower(item.Title), lower) {
			prefix = append(prefix, item)
		}
	}

	if len(prefix) == 1 {
		return prefix[0], nil
	}
	if len(prefix) > 1 {
		return models.CandidateItem{}, fmt.Errorf("ambiguous item reference %q matches %d items", ref, len(prefix))
	}
	return models.CandidateItem{}, fmt.Errorf("no item matches %q", ref)
}

func formatItemSummary(item models.CandidateItem) string {
	parts := []string{string(item.Kind)}
	if item.Effort > 0 {
		parts = append(parts, fmt.Sprintf("effort %d", item.Effort))
	}
	if item.EstimatedMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min", item.EstimatedMinutes))
	}
	if item.MealType != "" {
		parts = append(parts, string(item.MealType))
	}
	if item.BreakDurationMin > 0 {
		parts = append(parts, fmt.Sprintf("%d min break", item.BreakDurationMin))
	}
	if item.PreferredTime != "" {
		parts = append(parts, "at "+item.PreferredTime)
	}
	if len(item.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(item.Tags, " #"))
	}
	parts = append(parts, string(item.Frequency))
	if !item.Active {
		parts = append(parts, "inactive")
	}
	return strings.Join(parts, ", ")
}
