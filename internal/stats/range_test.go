package stats

import (
	"errors"
	"testing"
	"time"

	"bookkeeping/internal/core"
)

func TestScopeRange(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	now := time.Date(2025, 7, 20, 15, 30, 0, 0, loc)
	endOfToday := time.Date(2025, 7, 20, 23, 59, 59, 999_000_000, loc)

	tests := []struct {
		scope     Scope
		wantStart time.Time
	}{
		{Week, now.Add(-7 * 24 * time.Hour)},
		{Month, now.Add(-30 * 24 * time.Hour)},
		{All, time.UnixMilli(0)},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			start, end, err := tt.scope.Range(now, loc)
			if err != nil {
				t.Fatalf("Range() error = %v", err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(endOfToday) {
				t.Errorf("end = %v, want %v", end, endOfToday)
			}
		})
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{"week", Week, false},
		{" Month ", Month, false},
		{"ALL", All, false},
		{"year", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScope(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseScope(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, core.ErrInvalidArgument) {
			t.Fatalf("ParseScope(%q) error should be invalid argument, got %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseScope(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetRangeStrategyUnknown(t *testing.T) {
	if _, err := GetRangeStrategy(Scope("decade")); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
