package stats

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bookkeeping/internal/core"
)

func rec(kind core.Kind, amount string, ts time.Time) core.Record {
	return core.Record{Kind: kind, Amount: decimal.RequireFromString(amount), Timestamp: ts}
}

func TestAggregateGroupsByDay(t *testing.T) {
	d1 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	records := []core.Record{
		rec(core.Expense, "10", d1.Add(8*time.Hour)),
		rec(core.Expense, "20", d1.Add(23*time.Hour+59*time.Minute)),
		rec(core.Expense, "5", d2.Add(time.Minute)),
	}

	got := Aggregate(records, time.UTC)

	if got.Len() != 2 || !got.Days[0].Equal(d1) || !got.Days[1].Equal(d2) {
		t.Fatalf("domain = %v, want [%v %v]", got.Days, d1, d2)
	}
	wantExpense := []string{"30", "5"}
	for i, w := range wantExpense {
		if !got.Expense[i].Equal(decimal.RequireFromString(w)) {
			t.Errorf("expense[%d] = %s, want %s", i, got.Expense[i], w)
		}
		if !got.Income[i].IsZero() {
			t.Errorf("income[%d] = %s, want 0", i, got.Income[i])
		}
	}
	if !got.TotalExpense.Equal(decimal.NewFromInt(35)) || !got.TotalIncome.IsZero() {
		t.Fatalf("totals = %s / %s, want 0 / 35", got.TotalIncome, got.TotalExpense)
	}
	if labels := got.Labels("01-02"); labels[0] != "03-10" || labels[1] != "03-11" {
		t.Fatalf("labels = %v", labels)
	}
}

func TestAggregateIsDenseAcrossKinds(t *testing.T) {
	d1 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 2)
	got := Aggregate([]core.Record{
		rec(core.Income, "100", d1),
		rec(core.Expense, "7.5", d2),
	}, time.UTC)

	if got.Len() != 2 {
		t.Fatalf("got %d days, want 2", got.Len())
	}
	if !got.Expense[0].IsZero() || !got.Income[1].IsZero() {
		t.Fatalf("missing kinds should be zero: income=%v expense=%v", got.Income, got.Expense)
	}
	if !got.Net().Equal(decimal.RequireFromString("92.5")) {
		t.Fatalf("net = %s, want 92.5", got.Net())
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, time.UTC)
	if got.Len() != 0 || !got.TotalIncome.IsZero() || !got.TotalExpense.IsZero() {
		t.Fatalf("empty input gave %+v", got)
	}
}

func TestAggregateSumsMatchTotalsInAnyOrder(t *testing.T) {
	base := time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(7))

	var records []core.Record
	for i := 0; i < 200; i++ {
		kind := core.Expense
		if rng.Intn(3) == 0 {
			kind = core.Income
		}
		ts := base.Add(time.Duration(rng.Intn(10*24*60)) * time.Minute)
		amount := decimal.New(int64(rng.Intn(100000)), -2)
		records = append(records, core.Record{Kind: kind, Amount: amount, Timestamp: ts})
	}

	first := Aggregate(records, time.UTC)
	rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
	second := Aggregate(records, time.UTC)

	sumIncome, sumExpense := decimal.Zero, decimal.Zero
	for i := range first.Days {
		if i > 0 && !first.Days[i-1].Before(first.Days[i]) {
			t.Fatalf("days not strictly ascending at %d", i)
		}
		sumIncome = sumIncome.Add(first.Income[i])
		sumExpense = sumExpense.Add(first.Expense[i])

		if !first.Days[i].Equal(second.Days[i]) ||
			!first.Income[i].Equal(second.Income[i]) ||
			!first.Expense[i].Equal(second.Expense[i]) {
			t.Fatalf("day %d differs after shuffle", i)
		}
	}
	if !sumIncome.Equal(first.TotalIncome) || !sumExpense.Equal(first.TotalExpense) {
		t.Fatalf("bucket sums %s/%s differ from totals %s/%s",
			sumIncome, sumExpense, first.TotalIncome, first.TotalExpense)
	}
}

func TestAggregateUsesLocation(t *testing.T) {
	shanghai := time.FixedZone("UTC+8", 8*60*60)
	// 20:00 UTC on the 1st is already the 2nd in UTC+8.
	late := time.Date(2025, 4, 1, 20, 0, 0, 0, time.UTC)
	early := time.Date(2025, 4, 2, 1, 0, 0, 0, time.UTC)
	records := []core.Record{rec(core.Expense, "1", late), rec(core.Expense, "2", early)}

	if got := Aggregate(records, time.UTC); got.Len() != 2 {
		t.Fatalf("UTC: got %d days, want 2", got.Len())
	}

	got := Aggregate(records, shanghai)
	if got.Len() != 1 {
		t.Fatalf("UTC+8: got %d days, want 1", got.Len())
	}
	want := time.Date(2025, 4, 2, 0, 0, 0, 0, shanghai)
	if !got.Days[0].Equal(want) || !got.Expense[0].Equal(decimal.NewFromInt(3)) {
		t.Fatalf("UTC+8 bucket = %v %s, want %v 3", got.Days[0], got.Expense[0], want)
	}
}
