package cli

import "fmt"

type ItemListCmd struct {
	ActiveOnly bool `help:"Show only active items."`
}

func (c *ItemListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	items, err := ctx.Store.GetAllItems(ctx.Profile)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No items found. Add one with 'daycard item add'.")
		return nil
	}

	fmt.Println("Items:")
	for _, item := range items {
		if c.ActiveOnly && !item.Active {
			continue
		}
		fmt.Printf("  %s (%s)\n", item.Title, formatItemSummary(item))
		fmt.Printf("      ID: %s\n", item.ID)
	}

	return nil
}
