package services

import (
	"bytes"
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
	"bookkeeping/internal/stats"
	"bookkeeping/internal/storage"
)

const (
	cashID    int64 = 1
	foodID    int64 = 1
	digitalID int64 = 7
	salaryID  int64 = 8
)

func newTestService(t *testing.T, opts Options) *LedgerService {
	t.Helper()
	store, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"), storage.DefaultOptions())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	logger := log.New(log.Config{Output: &bytes.Buffer{}})
	svc := NewLedgerService(store, opts, logger)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func commit(t *testing.T, svc *LedgerService, kind core.Kind, amount string, categoryID int64, ts time.Time) int64 {
	t.Helper()
	id, err := svc.CommitTransaction(context.Background(), core.Record{
		Amount: decimal.RequireFromString(amount), Kind: kind, CategoryID: categoryID, AccountID: cashID, Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("commit %s %s: %v", kind, amount, err)
	}
	return id
}

func balance(t *testing.T, svc *LedgerService) decimal.Decimal {
	t.Helper()
	a, err := svc.Store().GetAccount(context.Background(), cashID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return a.Balance
}

func TestLedgerService_DeleteTransaction(t *testing.T) {
	tests := []struct {
		name    string
		reverse bool
		want    string
	}{
		{"balance kept", false, "-30"},
		{"balance reversed", true, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, Options{ReverseBalanceOnDelete: tt.reverse})
			when := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)
			id := commit(t, svc, core.Expense, "30", foodID, when)

			if err := svc.DeleteTransaction(context.Background(), core.Record{ID: id}); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if got := balance(t, svc); !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("balance = %s, want %s", got, tt.want)
			}
			records, _ := svc.Store().ListRecords(context.Background())
			if len(records) != 0 {
				t.Fatalf("record still listed after delete")
			}
			inRange, err := svc.Store().ListRecordsInRange(context.Background(), when.Add(-time.Hour), when.Add(time.Hour))
			if err != nil {
				t.Fatalf("range: %v", err)
			}
			if len(inRange) != 0 {
				t.Fatalf("record still listed in range after delete")
			}
			if err := svc.DeleteTransaction(context.Background(), core.Record{ID: id}); !errors.Is(err, core.ErrNotFound) {
				t.Fatalf("delete twice: expected not found, got %v", err)
			}
		})
	}
}

func TestLedgerService_Stats(t *testing.T) {
	svc := newTestService(t, Options{})
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	commit(t, svc, core.Expense, "10", foodID, time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC))
	commit(t, svc, core.Expense, "20", foodID, time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC))
	commit(t, svc, core.Income, "100", salaryID, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC))
	commit(t, svc, core.Expense, "99", foodID, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))

	week, err := svc.Stats(context.Background(), stats.Week, now)
	if err != nil {
		t.Fatalf("week stats: %v", err)
	}
	if week.Daily.Len() != 2 || len(week.Records) != 3 {
		t.Fatalf("week: %d days, %d records, want 2 and 3", week.Daily.Len(), len(week.Records))
	}
	if !week.Daily.TotalExpense.Equal(decimal.NewFromInt(30)) || !week.Daily.TotalIncome.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("week totals = %s / %s", week.Daily.TotalIncome, week.Daily.TotalExpense)
	}
	if week.Geometry == nil {
		t.Fatal("week report should carry chart geometry")
	}
	if math.Abs(week.Geometry.Ceiling-120) > 1e-9 || len(week.Geometry.Series) != 2 {
		t.Fatalf("geometry = %+v", week.Geometry)
	}
	if labels := week.Geometry.Labels; len(labels) != 2 || labels[0].Text != "06-14" || labels[1].Text != "06-15" {
		t.Fatalf("labels = %+v", labels)
	}

	all, err := svc.Stats(context.Background(), stats.All, now)
	if err != nil {
		t.Fatalf("all stats: %v", err)
	}
	if all.Daily.Len() != 3 || !all.Daily.TotalExpense.Equal(decimal.NewFromInt(129)) {
		t.Fatalf("all: %d days, expense %s", all.Daily.Len(), all.Daily.TotalExpense)
	}
}

func TestLedgerService_StatsEmptyAndInvalid(t *testing.T) {
	svc := newTestService(t, Options{})

	report, err := svc.Stats(context.Background(), stats.Month, time.Now())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if report.Geometry != nil || report.Daily.Len() != 0 {
		t.Fatalf("empty ledger should have no days and no chart: %+v", report)
	}

	if _, err := svc.Stats(context.Background(), stats.Scope("year"), time.Now()); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestLedgerService_Overview(t *testing.T) {
	svc := newTestService(t, Options{})
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	commit(t, svc, core.Income, "100", salaryID, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	commit(t, svc, core.Expense, "30", foodID, time.Date(2025, 6, 30, 23, 59, 59, 999_000_000, time.UTC))
	commit(t, svc, core.Expense, "50", foodID, time.Date(2025, 5, 31, 23, 59, 0, 0, time.UTC))
	commit(t, svc, core.Expense, "7", foodID, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))

	got, err := svc.Overview(context.Background(), now)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(got.Accounts) != 4 {
		t.Fatalf("got %d accounts, want 4", len(got.Accounts))
	}
	if !got.TotalBalance.Equal(decimal.NewFromInt(13)) {
		t.Errorf("total balance = %s, want 13", got.TotalBalance)
	}
	if !got.MonthIncome.Equal(decimal.NewFromInt(100)) || !got.MonthExpense.Equal(decimal.NewFromInt(30)) {
		t.Errorf("month = %s / %s, want 100 / 30", got.MonthIncome, got.MonthExpense)
	}
}

func TestLedgerService_PurchaseAndItemCost(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	bought := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	itemID, _, err := svc.PurchaseItem(ctx, core.Item{
		Name: "Monitor", Status: core.InUse, PurchaseDate: bought, Price: decimal.NewFromInt(100),
	}, cashID, digitalID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if got := balance(t, svc); !got.Equal(decimal.NewFromInt(-100)) {
		t.Fatalf("balance = %s, want -100", got)
	}

	cost, err := svc.ItemCost(ctx, itemID, now)
	if err != nil {
		t.Fatalf("item cost: %v", err)
	}
	if cost.HeldDays != 10 || !cost.DailyCost.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("cost = %d days %s/day, want 10 days 10/day", cost.HeldDays, cost.DailyCost)
	}

	costs, err := svc.ItemCosts(ctx, now)
	if err != nil || len(costs) != 1 || costs[0].Item.ID != itemID {
		t.Fatalf("item costs = %+v, err=%v", costs, err)
	}

	if _, err := svc.ItemCost(ctx, 404, now); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLedgerService_FormatAmount(t *testing.T) {
	svc := newTestService(t, Options{Currency: "USD"})
	if got := svc.FormatAmount(decimal.RequireFromString("12.3")); got != "$12.30" {
		t.Fatalf("FormatAmount() = %q, want $12.30", got)
	}
}

func TestLedgerService_Close(t *testing.T) {
	t.Run("nil storage", func(t *testing.T) {
		service := &LedgerService{storage: nil}

		if err := service.Close(); err != nil {
			t.Fatalf("Close should not return error with nil storage: %v", err)
		}
	})
}
