package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestStartEndOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	ts := time.Date(2025, 3, 9, 17, 45, 12, 0, time.UTC) // 2025-03-10 01:45 in UTC+8

	start := StartOfDay(ts, loc)
	if want := time.Date(2025, 3, 10, 0, 0, 0, 0, loc); !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
	end := EndOfDay(ts, loc)
	if want := time.Date(2025, 3, 10, 23, 59, 59, 999_000_000, loc); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
	if end.UnixMilli()-start.UnixMilli() != 24*3600*1000-1 {
		t.Fatalf("day span should be one day minus a millisecond")
	}
}

func TestItemHoldingCost(t *testing.T) {
	loc := time.UTC
	purchase := time.Date(2025, 1, 1, 20, 0, 0, 0, loc)

	tests := []struct {
		name     string
		now      time.Time
		wantDays int
		wantCost string
	}{
		{"same day", time.Date(2025, 1, 1, 21, 0, 0, 0, loc), 1, "100"},
		{"ten days inclusive", time.Date(2025, 1, 10, 8, 0, 0, 0, loc), 10, "10"},
		{"three days", time.Date(2025, 1, 3, 0, 0, 0, 0, loc), 3, "33.33"},
		{"clock before purchase", time.Date(2024, 12, 30, 0, 0, 0, 0, loc), 1, "100"},
	}

	item := Item{Name: "headphones", Price: decimal.NewFromInt(100), PurchaseDate: purchase}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := item.HeldDays(tt.now, loc); got != tt.wantDays {
				t.Errorf("HeldDays() = %d, want %d", got, tt.wantDays)
			}
			if got := item.DailyCost(tt.now, loc); !got.Equal(decimal.RequireFromString(tt.wantCost)) {
				t.Errorf("DailyCost() = %s, want %s", got, tt.wantCost)
			}
		})
	}
}

func TestHeldDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	item := Item{Name: "bike", Price: decimal.NewFromInt(60), PurchaseDate: time.Date(2025, 3, 29, 12, 0, 0, 0, loc)}
	now := time.Date(2025, 3, 31, 0, 30, 0, 0, loc)
	if got := item.HeldDays(now, loc); got != 3 {
		t.Fatalf("HeldDays() = %d, want 3", got)
	}
}
