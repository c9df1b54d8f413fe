package cli

import "fmt"

type ItemDeleteCmd struct {
	Item string `arg:"" help:"Item ID or title."`
}

func (c *ItemDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	item, err := findItemByRef(ctx, c.Item)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteItem(ctx.Profile, item.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted item: %s\n", item.Title)
	fmt.Println("(This is a soft delete. Use 'daycard item restore' to undo)")
	return nil
}

type ItemRestoreCmd struct {
	ID string `arg:"" help:"Item ID to restore."`
}

func (c *ItemRestoreCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := ctx.Store.RestoreItem(ctx.Profile, c.ID); err != nil {
		return err
	}

	fmt.Printf("Restored item: %s\n", c.ID)
	return nil
}
