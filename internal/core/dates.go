package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns the last millisecond (23:59:59.999) of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

// FromMillis converts a stored epoch-millisecond value to a time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// daysBetween counts whole calendar days from a to b in loc. Counting on
// dates rather than durations keeps DST transitions from losing a day.
func daysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// HeldDays is the number of calendar days the item has been owned, counting
// the purchase day itself. It is never less than 1.
func (i Item) HeldDays(now time.Time, loc *time.Location) int {
	days := daysBetween(i.PurchaseDate, now, loc) + 1
	if days < 1 {
		return 1
	}
	return days
}

// DailyCost spreads the purchase price over the held days.
func (i Item) DailyCost(now time.Time, loc *time.Location) decimal.Decimal {
	days := decimal.NewFromInt(int64(i.HeldDays(now, loc)))
	return i.Price.Div(days).Round(AmountPlaces)
}
