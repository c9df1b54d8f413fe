package cli

import (
	"fmt"
	"time"

	"github.com/marcwilhite/daycard/internal/models"
)

type FeedbackCmd struct {
	Action string `arg:"" help:"Feedback action (accept|override|ignore)."`
	Item   string `arg:"" optional:"" help:"Item ID or title the feedback is about."`
	Chose  string `help:"What you did instead (for overrides)."`
}

func (c *FeedbackCmd) Run(ctx *Context) error {
	if err := ctx.loadStore(); err != nil {
		return err
	}

	action := models.FeedbackAction(c.Action)
	if !models.ValidFeedbackAction(action) {
		return fmt.Errorf("invalid action %q: must be accept, override, or ignore", c.Action)
	}
	if action == models.FeedbackOverride && c.Chose == "" {
		return fmt.Errorf("overrides need --chose to say what you did instead")
	}

	now := time.Now()
	load := ctx.Engine.CognitiveLoad(ctx.Profile)

	fctx := models.FeedbackContext{
		ChosenAlternative: c.Chose,
		CognitiveLoad:     load.Score,
		Hour:              now.Hour(),
	}

	if c.Item != "" {
		item, err := findItemByRef(ctx, c.Item)
		if err != nil {
			// Freeform feedback still learns from the title alone.
			fctx.ItemTitle = c.Item
		} else {
			fctx.ItemID = item.ID
			fctx.ItemTitle = item.Title
		}
	}

	// Attach today's card contents so later ranking can correlate by title.
	if snap, err := ctx.Store.GetCardSnapshot(ctx.Profile, now.Format("2006-01-02")); err == nil {
		for _, card := range snap.Cards {
			for _, item := range card.Items {
				fctx.SuggestedItems = append(fctx.SuggestedItems, item.Title)
			}
		}
	}

	updated, err := ctx.Engine.SubmitFeedback(ctx.Profile, action, fctx)
	if err != nil {
		return err
	}

	switch action {
	case models.FeedbackAccept:
		fmt.Println("Recorded: accepted.")
	case models.FeedbackOverride:
		fmt.Printf("Recorded: overrode with %q.\n", c.Chose)
	case models.FeedbackIgnore:
		fmt.Println("Recorded: ignored.")
	}

	fmt.Printf("Suggestion confidence is now %.2f.\n", updated.SuggestionConfidence)
	if updated.NeedsRecalibration {
		fmt.Println("Suggestions have been ignored repeatedly; consider 'daycard prefs reset'.")
	}
	return nil
}
