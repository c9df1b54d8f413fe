package cli

import (
	"fmt"

	"github.com/marcwilhite/daycard/internal/models"
)

type PrefsShowCmd struct{}

func (c *PrefsShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	prefs, err := ctx.Store.GetPreferences(ctx.Profile)
	if err != nil {
		return err
	}
	if prefs == nil {
		fmt.Println("No learned preferences yet; defaults apply.")
		def := models.DefaultPreferences()
		prefs = &def
	}

	fmt.Printf("Preferences for profile %q:\n\n", ctx.Profile)
	fmt.Println("Time-of-day weights:")
	fmt.Printf("  morning    %.2f\n", prefs.MorningWeight)
	fmt.Printf("  afternoon  %.2f\n", prefs.AfternoonWeight)
	fmt.Printf("  evening    %.2f\n", prefs.EveningWeight)
	fmt.Println("Effort:")
	fmt.Printf("  high effort  %.2f\n", prefs.HighEffortPreference)
	fmt.Printf("  low effort   %.2f\n", prefs.LowEffortPreference)
	fmt.Println("Rhythm:")
	fmt.Printf("  break frequency  %.2f\n", prefs.BreakFrequency)
	fmt.Printf("  focus duration   %.0f min\n", prefs.FocusDurationMin)
	fmt.Println("Learning:")
	fmt.Printf("  suggestion confidence  %.2f\n", prefs.SuggestionConfidence)
	fmt.Printf("  override tendency      %.2f\n", prefs.HighLoadOverrideTendency)
	fmt.Printf("  decisions  %d (accept %.0f%%, override %.0f%%, ignore %.0f%%)\n",
		prefs.TotalDecisions, prefs.AcceptRate*100, prefs.OverrideRate*100, prefs.IgnoreRate*100)
	if prefs.NeedsRecalibration {
		fmt.Println("  needs recalibration: yes")
	}
	if prefs.LastLearnedAt != nil {
		fmt.Printf("  last learned  %s\n", prefs.LastLearnedAt.Format("2006-01-02 15:04"))
	}

	if len(prefs.PreferredAlternatives) > 0 {
		fmt.Println("\nObserved alternatives:")
		for _, alt := range prefs.PreferredAlternatives {
			fmt.Printf("  %s instead of %s (around %02d:00, load %d)\n",
				alt.Chosen, alt.Original, alt.Hour, alt.CognitiveLoad)
		}
	}

	return nil
}

type PrefsResetCmd struct{}

func (c *PrefsResetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := ctx.Store.SavePreferences(ctx.Profile, models.DefaultPreferences()); err != nil {
		return err
	}

	fmt.Printf("Reset preferences for profile %q to defaults.\n", ctx.Profile)
	return nil
}
