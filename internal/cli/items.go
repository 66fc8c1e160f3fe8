package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"bookkeeping/internal/core"
	"bookkeeping/internal/services"
)

type itemsCmd struct{}

func (*itemsCmd) Name() string     { return "items" }
func (*itemsCmd) Synopsis() string { return "list owned items with their holding cost" }
func (*itemsCmd) Usage() string {
	return `ledger items
`
}
func (*itemsCmd) SetFlags(*flag.FlagSet) {}

func (c *itemsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		costs, err := svc.ItemCosts(ctx, app.Now())
		if err != nil {
			return err
		}
		w := newTable(app.Out)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPRICE\tBOUGHT\tDAYS\tPER DAY\tRECORD")
		for _, ic := range costs {
			record := "-"
			if ic.Item.RecordID != nil {
				record = fmt.Sprint(*ic.Item.RecordID)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				ic.Item.ID,
				ic.Item.Name,
				ic.Item.Status,
				svc.FormatAmount(ic.Item.Price),
				ic.Item.PurchaseDate.In(svc.Location()).Format("2006-01-02"),
				ic.HeldDays,
				svc.FormatAmount(ic.DailyCost),
				record)
		}
		return w.Flush()
	})
}

// itemFlags are shared by add-item and purchase.
type itemFlags struct {
	name   string
	price  string
	status string
	date   string
	photo  string
}

func (i *itemFlags) set(f *flag.FlagSet) {
	f.StringVar(&i.name, "name", "", "Item name.")
	f.StringVar(&i.price, "price", "0", "Purchase price.")
	f.StringVar(&i.status, "status", "in-use", "Status: in-use, idle, lost or sold.")
	f.StringVar(&i.date, "date", "", "Purchase date (YYYY-MM-DD); defaults to now.")
	f.StringVar(&i.photo, "photo", "", "Photo reference, stored as is.")
}

func (i *itemFlags) item(app *App, svc *services.LedgerService) (core.Item, error) {
	price, err := core.ParseAmount(i.price)
	if err != nil {
		return core.Item{}, err
	}
	status, err := core.ParseItemStatus(i.status)
	if err != nil {
		return core.Item{}, err
	}
	bought, err := parseWhen(i.date, app.Now(), svc.Location())
	if err != nil {
		return core.Item{}, err
	}
	return core.Item{
		Name:         i.name,
		Status:       status,
		PurchaseDate: bought,
		Price:        price,
		PhotoRef:     i.photo,
	}, nil
}

type addItemCmd struct {
	itemFlags
}

func (*addItemCmd) Name() string     { return "add-item" }
func (*addItemCmd) Synopsis() string { return "track an item without recording a purchase" }
func (*addItemCmd) Usage() string {
	return `ledger add-item -name <name> [-price <n>] [-status <status>] [-date <date>] [-photo <ref>]
`
}

func (c *addItemCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *addItemCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		item, err := c.item(app, svc)
		if err != nil {
			return err
		}
		id, err := svc.Store().AddItem(ctx, item)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Item %d saved\n", id)
		return nil
	})
}

type purchaseCmd struct {
	itemFlags
	accountID  int64
	categoryID int64
}

func (*purchaseCmd) Name() string { return "purchase" }
func (*purchaseCmd) Synopsis() string {
	return "record an expense for an item and track the item"
}
func (*purchaseCmd) Usage() string {
	return `ledger purchase -name <name> -price <n> -account <id> -category <id> [-date <date>] [-photo <ref>]

  Creates the expense record, updates the account balance and stores the
  item linked to that record, all in one transaction.
`
}

func (c *purchaseCmd) SetFlags(f *flag.FlagSet) {
	c.set(f)
	f.Int64Var(&c.accountID, "account", 0, "Account paying for the item.")
	f.Int64Var(&c.categoryID, "category", 0, "Expense category of the purchase.")
}

func (c *purchaseCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		if err := requireID("account", c.accountID); err != nil {
			return err
		}
		if err := requireID("category", c.categoryID); err != nil {
			return err
		}
		item, err := c.item(app, svc)
		if err != nil {
			return err
		}
		itemID, recordID, err := svc.PurchaseItem(ctx, item, c.accountID, c.categoryID)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Item %d saved with record %d\n", itemID, recordID)
		return nil
	})
}

type itemStatusCmd struct {
	id     int64
	status string
}

func (*itemStatusCmd) Name() string     { return "item-status" }
func (*itemStatusCmd) Synopsis() string { return "change the status of an item" }
func (*itemStatusCmd) Usage() string {
	return `ledger item-status -id <id> -status in-use|idle|lost|sold
`
}

func (c *itemStatusCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Item id.")
	f.StringVar(&c.status, "status", "", "New status.")
}

func (c *itemStatusCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		if err := requireID("id", c.id); err != nil {
			return err
		}
		status, err := core.ParseItemStatus(c.status)
		if err != nil {
			return err
		}
		if err := svc.Store().UpdateItemStatus(ctx, c.id, status); err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Item %d is now %s\n", c.id, status)
		return nil
	})
}

type deleteItemCmd struct {
	id int64
}

func (*deleteItemCmd) Name() string     { return "delete-item" }
func (*deleteItemCmd) Synopsis() string { return "stop tracking an item" }
func (*deleteItemCmd) Usage() string {
	return `ledger delete-item -id <id>

  The purchase record, if any, is kept.
`
}

func (c *deleteItemCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Item id.")
}

func (c *deleteItemCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		if err := requireID("id", c.id); err != nil {
			return err
		}
		if err := svc.Store().DeleteItem(ctx, c.id); err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Item %d deleted\n", c.id)
		return nil
	})
}
