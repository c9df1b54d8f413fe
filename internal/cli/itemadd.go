package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcwilhite/daycard/internal/models"
	"github.com/marcwilhite/daycard/internal/validation"
)

type ItemAddCmd struct {
	Title         string `arg:"" help:"Item title."`
	Kind          string `short:"k" help:"Item kind (task|meal|break)." default:"task"`
	Effort        int    `short:"e" help:"Effort level (1-5)." default:"3"`
	Minutes       int    `short:"m" help:"Estimated minutes." default:"0"`
	Meal          string `help:"Meal type for meal items (breakfast|lunch|dinner|snack)."`
	BreakDuration int    `help:"Break duration in minutes for break items." default:"0"`
	At            string `short:"t" help:"Preferred time (HH:MM)."`
	Tags          string `help:"Comma-separated tags (urgent, important, quick...)."`
	Frequency     string `short:"f" help:"Recurrence (daily|weekly|weekdays|weekends)." default:"daily"`
}

func (c *ItemAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	kind, err := parseKind(c.Kind)
	if err != nil {
		return err
	}
	freq, err := parseFrequency(c.Frequency)
	if err != nil {
		return err
	}
	mealType, err := parseMealType(c.Meal)
	if err != nil {
		return err
	}

	item := models.CandidateItem{
		ID:               uuid.New().String(),
		Kind:             kind,
		Title:            c.Title,
		Effort:           c.Effort,
		EstimatedMinutes: c.Minutes,
		MealType:         mealType,
		BreakDurationMin: c.BreakDuration,
		PreferredTime:    c.At,
		Tags:             parseTags(c.Tags),
		Frequency:        freq,
		Active:           true,
		CreatedAt:        time.Now().UTC(),
	}

	result := validation.New().ValidateItem(item)
	for _, conflict := range result.Conflicts {
		if conflict.Severity == validation.SeverityWarning {
			fmt.Printf("Warning: %s\n", conflict.Message)
		}
	}
	if result.HasErrors() {
		for _, conflict := range result.Conflicts {
			if conflict.Severity == validation.SeverityError {
				fmt.Printf("Error: %s\n", conflict.Message)
			}
		}
		return fmt.Errorf("item is invalid")
	}

	if err := ctx.Store.AddItem(ctx.Profile, item); err != nil {
		return err
	}

	fmt.Printf("Added %s: %s (ID: %s)\n", kind, c.Title, item.ID)
	return nil
}
