package cli

import (
	"fmt"
	"time"

	"github.com/marcwilhite/daycard/internal/models"
)

type PlanCmd struct {
	NoSave bool `help:"Do not record the generated cards for today."`
}

func (c *PlanCmd) Run(ctx *Context) error {
	if err := ctx.loadStore(); err != nil {
		return err
	}

	result, err := ctx.Engine.Plan(ctx.Profile)
	if err != nil {
		return err
	}

	now := time.Now()
	day := now.Format("2006-01-02")
	fmt.Printf("Cards for %s (load %d, %s mode):\n\n", day, result.Load.Score, result.Load.Tier)

	if settings, err := ctx.Store.GetSettings(); err == nil {
		start, end := clockToMinutes(settings.DayStart), clockToMinutes(settings.DayEnd)
		minute := now.Hour()*60 + now.Minute()
		if start >= 0 && end >= 0 && (minute < start || minute > end) {
			fmt.Printf("Note: outside your usual day (%s-%s).\n\n", settings.DayStart, settings.DayEnd)
		}
	}

	if len(result.Cards) == 0 {
		fmt.Println("  " + result.Message)
		return nil
	}

	for _, card := range result.Cards {
		printCard(card)
	}

	if !c.NoSave {
		snap := models.CardSnapshot{Day: day, Cards: result.Cards, Message: result.Message}
		if err := ctx.Store.SaveCardSnapshot(ctx.Profile, snap); err != nil {
			return fmt.Errorf("saving card snapshot: %w", err)
		}
	}

	fmt.Println("Record a choice with: daycard feedback <accept|override|ignore> <item>")
	return nil
}

func printCard(card models.CompressedCard) {
	fmt.Printf("%d. %s (%d min)\n", card.Priority, card.Title, card.DurationMin)
	for _, item := range card.Items {
		fmt.Printf("     %s\n", item.ActionText)
	}
	if card.Rationale != "" {
		fmt.Printf("     %s\n", card.Rationale)
	}
	fmt.Println()
}

// ShowCmd prints the most recently generated cards without regenerating.
type ShowCmd struct {
	Day string `help:"Date to show (YYYY-MM-DD, default today)." default:""`
}

func (c *ShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	day := c.Day
	if day == "" {
		day = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}

	snap, err := ctx.Store.GetCardSnapshot(ctx.Profile, day)
	if err != nil {
		return fmt.Errorf("no cards recorded for %s, run 'daycard plan' first", day)
	}

	fmt.Printf("Cards for %s:\n\n", day)
	if len(snap.Cards) == 0 {
		msg := snap.Message
		if msg == "" {
			msg = "No cards were generated."
		}
		fmt.Println("  " + msg)
		return nil
	}
	for _, card := range snap.Cards {
		printCard(card)
	}
	return nil
}
