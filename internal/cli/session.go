package cli

import (
	"fmt"
	"time"

	"github.com/marcwilhite/daycard/internal/models"
)

type SessionLogCmd struct {
	Minutes int `arg:"" help:"Session length in minutes."`
}

func (c *SessionLogCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if c.Minutes <= 0 {
		return fmt.Errorf("session length must be positive")
	}

	now := time.Now()
	rec := models.SessionRecord{
		Day:        now.Format("2006-01-02"),
		DurationMs: int64(c.Minutes) * 60 * 1000,
		CreatedAt:  now,
	}
	if err := ctx.Store.AddSession(ctx.Profile, rec); err != nil {
		return err
	}

	total, err := ctx.Store.SumSessionDurationToday(ctx.Profile, rec.Day)
	if err != nil {
		return err
	}

	fmt.Printf("Logged %d min; %d min total today.\n", c.Minutes, total/60000)
	return nil
}
