package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
	"bookkeeping/internal/services"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "ledger")
	c.Register(&overviewCmd{}, "ledger")

	c.Register(&accountsCmd{}, "accounts")
	c.Register(&addAccountCmd{}, "accounts")

	c.Register(&categoriesCmd{}, "categories")
	c.Register(&addCategoryCmd{}, "categories")

	c.Register(&recordsCmd{}, "records")
	c.Register(&addRecordCmd{}, "records")
	c.Register(&deleteRecordCmd{}, "records")

	c.Register(&itemsCmd{}, "items")
	c.Register(&addItemCmd{}, "items")
	c.Register(&purchaseCmd{}, "items")
	c.Register(&itemStatusCmd{}, "items")
	c.Register(&deleteItemCmd{}, "items")

	c.Register(&statsCmd{}, "reports")
}

// run opens the ledger named by the App passed to Execute, calls fn, and
// maps its error to an exit status.
func run(ctx context.Context, args []interface{}, fn func(ctx context.Context, app *App, svc *services.LedgerService) error) subcommands.ExitStatus {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: command started without an application context")
		return subcommands.ExitFailure
	}
	app, ok := args[0].(*App)
	if !ok {
		fmt.Fprintln(os.Stderr, "Error: command started without an application context")
		return subcommands.ExitFailure
	}

	svc, err := app.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	if err := fn(ctx, app, svc); err != nil {
		log.FromContext(ctx).DebugContext(ctx, "Command failed", log.FieldError, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, core.ErrInvalidArgument) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseWhen reads a timestamp in loc. The empty string means now.
func parseWhen(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse time %q, use YYYY-MM-DD[ HH:MM]", core.ErrInvalidArgument, s)
}

func requireID(name string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: -%s is required", core.ErrInvalidArgument, name)
	}
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
