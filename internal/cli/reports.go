package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"bookkeeping/internal/services"
	"bookkeeping/internal/stats"
)

type statsCmd struct {
	scope string
	chart bool
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "daily income and expense over a preset range" }
func (*statsCmd) Usage() string {
	return `ledger stats [-scope week|month|all] [-chart]

  Buckets the records of the range by calendar day. With -chart the plot
  geometry (gridlines, labels and points) is printed as well.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.scope, "scope", string(stats.Week), "Range: week (last 7 days), month (last 30 days) or all.")
	f.BoolVar(&c.chart, "chart", false, "Print the chart geometry.")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		scope, err := stats.ParseScope(c.scope)
		if err != nil {
			return err
		}
		report, err := svc.Stats(ctx, scope, app.Now())
		if err != nil {
			return err
		}

		w := newTable(app.Out)
		fmt.Fprintln(w, "DAY\tINCOME\tEXPENSE")
		for i, day := range report.Daily.Days {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				day.Format("2006-01-02"),
				svc.FormatAmount(report.Daily.Income[i]),
				svc.FormatAmount(report.Daily.Expense[i]))
		}
		fmt.Fprintf(w, "TOTAL\t%s\t%s\n",
			svc.FormatAmount(report.Daily.TotalIncome),
			svc.FormatAmount(report.Daily.TotalExpense))
		fmt.Fprintf(w, "NET\t%s\t\n", svc.FormatAmount(report.Daily.Net()))
		if err := w.Flush(); err != nil {
			return err
		}

		if !c.chart {
			return nil
		}
		if report.Geometry == nil {
			fmt.Fprintln(app.Out, "\nNo records in range, nothing to plot.")
			return nil
		}
		g := report.Geometry
		fmt.Fprintf(app.Out, "\nCeiling %.2f\n", g.Ceiling)
		for _, gl := range g.Gridlines {
			fmt.Fprintf(app.Out, "gridline %s y=%.1f\n", gl.Label, gl.Y)
		}
		for _, l := range g.Labels {
			fmt.Fprintf(app.Out, "label %s x=%.1f\n", l.Text, l.X)
		}
		for _, s := range g.Series {
			for _, p := range s.Points {
				fmt.Fprintf(app.Out, "%s (%.1f, %.1f) %.2f\n", s.Name, p.X, p.Y, p.Value)
			}
		}
		return nil
	})
}

type overviewCmd struct{}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "total balance and this month's income and expense" }
func (*overviewCmd) Usage() string {
	return `ledger overview
`
}
func (*overviewCmd) SetFlags(*flag.FlagSet) {}

func (c *overviewCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(ctx context.Context, app *App, svc *services.LedgerService) error {
		o, err := svc.Overview(ctx, app.Now())
		if err != nil {
			return err
		}
		w := newTable(app.Out)
		fmt.Fprintf(w, "Total balance\t%s\n", svc.FormatAmount(o.TotalBalance))
		fmt.Fprintf(w, "Month income\t%s\n", svc.FormatAmount(o.MonthIncome))
		fmt.Fprintf(w, "Month expense\t%s\n", svc.FormatAmount(o.MonthExpense))
		for _, a := range o.Accounts {
			fmt.Fprintf(w, "  %s\t%s\n", a.Name, svc.FormatAmount(a.Balance))
		}
		return w.Flush()
	})
}
