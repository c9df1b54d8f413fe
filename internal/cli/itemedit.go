package cli

import (
	"fmt"

	"github.com/marcwilhite/daycard/internal/validation"
)

type ItemEditCmd struct {
	Item          string  `arg:"" help:"Item ID or title."`
	Title         *string `help:"New title."`
	Effort        *int    `short:"e" help:"Effort level (1-5)."`
	Minutes       *int    `short:"m" help:"Estimated minutes."`
	Meal          *string `help:"Meal type (breakfast|lunch|dinner|snack)."`
	BreakDuration *int    `help:"Break duration in minutes."`
	At            *string `short:"t" help:"Preferred time (HH:MM), empty to clear."`
	Tags          *string `help:"Comma-separated tags, empty to clear."`
	Frequency     *string `short:"f" help:"Recurrence (daily|weekly|weekdays|weekends)."`
	Active        *bool   `help:"Activate or pause the item."`
}

func (c *ItemEditCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	item, err := findItemByRef(ctx, c.Item)
	if err != nil {
		return err
	}

	if c.Title != nil {
		item.Title = *c.Title
	}
	if c.Effort != nil {
		item.Effort = *c.Effort
	}
	if c.Minutes != nil {
		item.EstimatedMinutes = *c.Minutes
	}
	if c.Meal != nil {
		mealType, err := parseMealType(*c.Meal)
		if err != nil {
			return err
		}
		item.MealType = mealType
	}
	if c.BreakDuration != nil {
		item.BreakDurationMin = *c.BreakDuration
	}
	if c.At != nil {
		item.PreferredTime = *c.At
	}
	if c.Tags != nil {
		item.Tags = parseTags(*c.Tags)
	}
	if c.Frequency != nil {
		freq, err := parseFrequency(*c.Frequency)
		if err != nil {
			return err
		}
		item.Frequency = freq
	}
	if c.Active != nil {
		item.Active = *c.Active
	}

	result := validation.New().ValidateItem(item)
	if result.HasErrors() {
		for _, conflict := range result.Conflicts {
			if conflict.Severity == validation.SeverityError {
				fmt.Printf("Error: %s\n", conflict.Message)
			}
		}
		return fmt.Errorf("item is invalid")
	}

	if err := ctx.Store.UpdateItem(ctx.Profile, item); err != nil {
		return err
	}

	fmt.Printf("Updated item: %s\n", item.Title)
	return nil
}
