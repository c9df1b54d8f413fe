package cli

import (
	"fmt"

	"github.com/marcwilhite/daycard/internal/models"
)

type LoadCmd struct{}

func (c *LoadCmd) Run(ctx *Context) error {
	if err := ctx.loadStore(); err != nil {
		return err
	}

	load := ctx.Engine.CognitiveLoad(ctx.Profile)

	fmt.Printf("Cognitive load: %d/100 (%s mode)\n\n", load.Score, load.Tier)
	fmt.Println("Breakdown:")
	printFactor("Decisions today", load.Breakdown.Decisions)
	printFactor("Overrides today", load.Breakdown.Overrides)
	printFactor("Time in app", load.Breakdown.TimeOnSite)
	printFactor("Time of day", load.Breakdown.TimeOfDay)

	return nil
}

func printFactor(label string, f models.LoadFactor) {
	fmt.Printf("  %-16s %2d/%d\n", label, f.Value, f.Cap)
}
