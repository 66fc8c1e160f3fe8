package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"bookkeeping/internal/core"
	"bookkeeping/internal/services"
)

type addRecordCmd struct {
	kind       string
	amount     string
	categoryID int64
	accountID  int64
	at         string
	note       string
}

func (*addRecordCmd) Name() string { return "add-record" }
func (*addRecordCmd) Synopsis() string {
	return "record an income or expense and update the account balance"
}
func (*addRecordCmd) Usage() string {
	return `ledger add-record -kind expense|income -amount <n> -category <id> -account <id> [-at <time>] [-note <text>]

  Inserts the record and applies it to the account balance in one
  transaction.
`
}

func (c *addRecordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "expense", "Record kind: expense or income.")
	f.StringVar(&c.amount, "amount", "", "Non-negative amount, e.g. 12.50.")
	f.Int64Var(&c.categoryID, "category", 0, "Category id.")
	f.Int64Var(&c.accountID, "account", 0, "Account id.")
	f.StringVar(&c.at, "at", "", "Timestamp (YYYY-MM-DD[ HH:MM]); defaults to now.")
	f.StringVar(&c.note, "note", "", "Free text note.")
}

func (c *addRecordCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		kind, err := core.ParseKind(c.kind)
		if err != nil {
			return err
		}
		amount, err := core.ParseAmount(c.amount)
		if err != nil {
			return err
		}
		if err := requireID("category", c.categoryID); err != nil {
			return err
		}
		if err := requireID("account", c.accountID); err != nil {
			return err
		}
		ts, err := parseWhen(c.at, app.Now(), svc.Location())
		if err != nil {
			return err
		}

		id, err := svc.CommitTransaction(ctx, core.Record{
			Amount:     amount,
			Kind:       kind,
			CategoryID: c.categoryID,
			AccountID:  c.accountID,
			Timestamp:  ts,
			Note:       c.note,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Record %d saved\n", id)
		return nil
	})
}

type recordsCmd struct {
	from string
	to   string
}

func (*recordsCmd) Name() string     { return "records" }
func (*recordsCmd) Synopsis() string { return "list records, newest first" }
func (*recordsCmd) Usage() string {
	return `ledger records [-from <date>] [-to <date>]

  Without flags every record is listed. With -from or -to the listing is
  limited to that inclusive range of days.
`
}

func (c *recordsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day of the range (YYYY-MM-DD).")
	f.StringVar(&c.to, "to", "", "Last day of the range (YYYY-MM-DD), defaults to today.")
}

func (c *recordsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		var (
			records []core.Record
			err     error
		)
		if c.from == "" && c.to == "" {
			records, err = svc.Store().ListRecords(ctx)
		} else {
			loc := svc.Location()
			now := app.Now()
			from, ferr := parseWhen(c.from, now, loc)
			if ferr != nil {
				return ferr
			}
			to, terr := parseWhen(c.to, now, loc)
			if terr != nil {
				return terr
			}
			if c.from == "" {
				from = core.FromMillis(0)
			}
			records, err = svc.Store().ListRecordsInRange(ctx, core.StartOfDay(from, loc), core.EndOfDay(to, loc))
		}
		if err != nil {
			return err
		}

		w := newTable(app.Out)
		fmt.Fprintln(w, "ID\tDATE\tKIND\tAMOUNT\tCATEGORY\tACCOUNT\tNOTE")
		for _, r := range records {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
				r.ID,
				r.Timestamp.In(svc.Location()).Format("2006-01-02 15:04"),
				r.Kind,
				svc.FormatAmount(r.Amount),
				r.CategoryID,
				r.AccountID,
				r.Note)
		}
		return w.Flush()
	})
}

type deleteRecordCmd struct {
	id int64
}

func (*deleteRecordCmd) Name() string     { return "delete-record" }
func (*deleteRecordCmd) Synopsis() string { return "delete a record" }
func (*deleteRecordCmd) Usage() string {
	return `ledger delete-record -id <id>

  The account balance keeps the record's effect unless
  LEDGER_REVERSE_BALANCE_ON_DELETE is true.
`
}

func (c *deleteRecordCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Record id.")
}

func (c *deleteRecordCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		if err := requireID("id", c.id); err != nil {
			return err
		}
		if err := svc.DeleteTransaction(ctx, core.Record{ID: c.id}); err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Record %d deleted\n", c.id)
		return nil
	})
}
