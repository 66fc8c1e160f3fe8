package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"bookkeeping/internal/core"
	"bookkeeping/internal/services"
)

type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the ledger database and seed default data" }
func (*initCmd) Usage() string {
	return `ledger init

  Opens the database at LEDGER_DB_PATH, creating the tables and the default
  accounts and categories if it does not exist yet.
`
}
func (*initCmd) SetFlags(*flag.FlagSet) {}

func (c *initCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		fmt.Fprintf(app.Out, "Ledger ready at %s\n", app.Config.DBPath)
		return nil
	})
}

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and their balances" }
func (*accountsCmd) Usage() string {
	return `ledger accounts
`
}
func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		accounts, err := svc.Store().ListAccounts(ctx)
		if err != nil {
			return err
		}
		w := newTable(app.Out)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tBALANCE")
		for _, a := range accounts {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Name, a.Type, svc.FormatAmount(a.Balance))
		}
		return w.Flush()
	})
}

type addAccountCmd struct {
	name        string
	accountType string
	balance     string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create an account with an opening balance" }
func (*addAccountCmd) Usage() string {
	return `ledger add-account -name <name> [-type <type>] [-balance <amount>]
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name.")
	f.StringVar(&c.accountType, "type", "cash", "Free-form account type (cash, card, wallet...).")
	f.StringVar(&c.balance, "balance", "0", "Opening balance, may be negative.")
}

func (c *addAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		balance, err := decimal.NewFromString(c.balance)
		if err != nil {
			return fmt.Errorf("%w: balance %q: %v", core.ErrInvalidArgument, c.balance, err)
		}
		id, err := svc.Store().AddAccount(ctx, c.name, c.accountType, balance.Round(core.AmountPlaces))
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Account %d created\n", id)
		return nil
	})
}

type categoriesCmd struct {
	kind string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list categories" }
func (*categoriesCmd) Usage() string {
	return `ledger categories [-kind expense|income]
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "Only list categories of this kind.")
}

func (c *categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		var (
			categories []core.Category
			err        error
		)
		if c.kind == "" {
			categories, err = svc.Store().ListCategories(ctx)
		} else {
			var kind core.Kind
			if kind, err = core.ParseKind(c.kind); err != nil {
				return err
			}
			categories, err = svc.Store().ListCategoriesByKind(ctx, kind)
		}
		if err != nil {
			return err
		}

		w := newTable(app.Out)
		fmt.Fprintln(w, "ID\tNAME\tKIND\tICON")
		for _, cat := range categories {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Kind, cat.IconRef)
		}
		return w.Flush()
	})
}

type addCategoryCmd struct {
	name string
	kind string
	icon string
}

func (*addCategoryCmd) Name() string     { return "add-category" }
func (*addCategoryCmd) Synopsis() string { return "create a category" }
func (*addCategoryCmd) Usage() string {
	return `ledger add-category -name <name> -kind expense|income [-icon <ref>]
`
}

func (c *addCategoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Category name.")
	f.StringVar(&c.kind, "kind", "expense", "Category kind: expense or income.")
	f.StringVar(&c.icon, "icon", "", "Icon reference, stored as is.")
}

func (c *addCategoryCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		kind, err := core.ParseKind(c.kind)
		if err != nil {
			return err
		}
		id, err := svc.Store().AddCategory(ctx, c.name, kind, c.icon)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Category %d created\n", id)
		return nil
	})
}
