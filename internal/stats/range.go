package stats

import (
	"fmt"
	"strings"
	"time"

	"bookkeeping/internal/core"
)

// Scope names one of the preset report ranges.
type Scope string

const (
	Week  Scope = "week"
	Month Scope = "month"
	All   Scope = "all"
)

// ParseScope accepts "week", "month" or "all", case-insensitively.
func ParseScope(s string) (Scope, error) {
	scope := Scope(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rangeStrategies[scope]; !ok {
		return "", fmt.Errorf("%w: unknown scope %q", core.ErrInvalidArgument, s)
	}
	return scope, nil
}

// RangeStrategy resolves a report scope to an inclusive [start, end] window.
type RangeStrategy interface {
	Range(now time.Time, loc *time.Location) (start, end time.Time)
}

// LastDays covers the Days*24h before now up to the end of today.
type LastDays struct {
	Days int
}

func (r LastDays) Range(now time.Time, loc *time.Location) (time.Time, time.Time) {
	start := now.Add(-time.Duration(r.Days) * 24 * time.Hour)
	return start, core.EndOfDay(now, loc)
}

// AllTime starts at the Unix epoch.
type AllTime struct{}

func (AllTime) Range(now time.Time, loc *time.Location) (time.Time, time.Time) {
	return time.UnixMilli(0).In(loc), core.EndOfDay(now, loc)
}

var rangeStrategies = map[Scope]RangeStrategy{
	Week:  LastDays{Days: 7},
	Month: LastDays{Days: 30},
	All:   AllTime{},
}

// GetRangeStrategy returns the strategy registered for scope.
func GetRangeStrategy(scope Scope) (RangeStrategy, error) {
	r, ok := rangeStrategies[scope]
	if !ok {
		return nil, fmt.Errorf("%w: unknown scope %q", core.ErrInvalidArgument, scope)
	}
	return r, nil
}

// Range is shorthand for GetRangeStrategy(s).Range(now, loc).
func (s Scope) Range(now time.Time, loc *time.Location) (start, end time.Time, err error) {
	r, err := GetRangeStrategy(s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	start, end = r.Range(now, loc)
	return start, end, nil
}
