// Package stats groups ledger records into calendar-day buckets.
package stats

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"bookkeeping/internal/core"
)

// DailySeries holds income and expense per day over a shared, ascending day
// domain. Income[i] and Expense[i] belong to Days[i]; a day that only has
// records of one kind carries zero for the other.
type DailySeries struct {
	Days         []time.Time
	Income       []decimal.Decimal
	Expense      []decimal.Decimal
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

type bucket struct {
	start   time.Time
	income  decimal.Decimal
	expense decimal.Decimal
}

// Aggregate buckets records by the calendar day of their timestamp in loc.
// A nil loc means time.Local. The result does not depend on input order.
func Aggregate(records []core.Record, loc *time.Location) DailySeries {
	if loc == nil {
		loc = time.Local
	}

	buckets := make(map[dayKey]*bucket)
	out := DailySeries{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, rec := range records {
		y, m, d := rec.Timestamp.In(loc).Date()
		key := dayKey{y, m, d}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				start:   time.Date(y, m, d, 0, 0, 0, 0, loc),
				income:  decimal.Zero,
				expense: decimal.Zero,
			}
			buckets[key] = b
		}

		switch rec.Kind {
		case core.Income:
			b.income = b.income.Add(rec.Amount)
			out.TotalIncome = out.TotalIncome.Add(rec.Amount)
		case core.Expense:
			b.expense = b.expense.Add(rec.Amount)
			out.TotalExpense = out.TotalExpense.Add(rec.Amount)
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	slices.SortFunc(ordered, func(a, b *bucket) int {
		return a.start.Compare(b.start)
	})

	out.Days = make([]time.Time, len(ordered))
	out.Income = make([]decimal.Decimal, len(ordered))
	out.Expense = make([]decimal.Decimal, len(ordered))
	for i, b := range ordered {
		out.Days[i] = b.start
		out.Income[i] = b.income
		out.Expense[i] = b.expense
	}
	return out
}

// Len is the number of days in the domain.
func (s DailySeries) Len() int {
	return len(s.Days)
}

// Net is TotalIncome minus TotalExpense.
func (s DailySeries) Net() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// Labels formats every day of the domain with layout, e.g. "01-02".
func (s DailySeries) Labels(layout string) []string {
	labels := make([]string, len(s.Days))
	for i, d := range s.Days {
		labels[i] = d.Format(layout)
	}
	return labels
}
