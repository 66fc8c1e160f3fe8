// Package services orchestrates the ledger store, the daily aggregator and
// the chart builder behind the operations a front end calls.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bookkeeping/internal/chart"
	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
	"bookkeeping/internal/stats"
	"bookkeeping/internal/storage"
)

// DefaultLabelLayout renders chart labels as month-day.
const DefaultLabelLayout = "01-02"

var DefaultFrame = chart.Frame{Width: 600, Height: 300}

type Options struct {
	Location               *time.Location
	Currency               string
	ReverseBalanceOnDelete bool
	Frame                  chart.Frame
	LabelLayout            string
}

// LedgerService is the entry point for every ledger operation.
type LedgerService struct {
	storage *storage.SQLiteRepository
	opts    Options
	logger  *log.Logger
}

func NewLedgerService(store *storage.SQLiteRepository, opts Options, logger *log.Logger) *LedgerService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Frame.Width <= 0 || opts.Frame.Height <= 0 {
		opts.Frame = DefaultFrame
	}
	if opts.LabelLayout == "" {
		opts.LabelLayout = DefaultLabelLayout
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &LedgerService{
		storage: store,
		opts:    opts,
		logger:  logger.WithComponent(log.ComponentLedger),
	}
}

// Store exposes the repository for plain CRUD calls.
func (s *LedgerService) Store() *storage.SQLiteRepository {
	return s.storage
}

func (s *LedgerService) Location() *time.Location {
	return s.opts.Location
}

// CommitTransaction records rec and applies it to its account atomically.
func (s *LedgerService) CommitTransaction(ctx context.Context, rec core.Record) (int64, error) {
	id, err := s.storage.CommitRecord(ctx, rec)
	if err != nil {
		s.logger.WarnContext(ctx, "Transaction rejected",
			log.NewFields().WithOperation(log.OpCommit).WithRecord(rec).WithError(err).ToSlice()...)
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	rec.ID = id
	s.logger.InfoContext(ctx, "Transaction committed",
		log.NewFields().WithOperation(log.OpCommit).WithRecord(rec).ToSlice()...)
	return id, nil
}

// DeleteTransaction removes a record. Whether the account balance is
// reversed depends on Options.ReverseBalanceOnDelete.
func (s *LedgerService) DeleteTransaction(ctx context.Context, rec core.Record) error {
	op := log.OpDelete
	var err error
	if s.opts.ReverseBalanceOnDelete {
		op = log.OpRevert
		err = s.storage.RevertRecord(ctx, rec)
	} else {
		err = s.storage.DeleteRecord(ctx, rec)
	}
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, op,
		log.FieldRecordID, rec.ID)
	return nil
}

// PurchaseItem records the purchase expense and the item together.
func (s *LedgerService) PurchaseItem(ctx context.Context, item core.Item, accountID, categoryID int64) (itemID, recordID int64, err error) {
	itemID, recordID, err = s.storage.PurchaseItem(ctx, item, accountID, categoryID)
	if err != nil {
		return 0, 0, fmt.Errorf("purchase item: %w", err)
	}
	s.logger.InfoContext(ctx, "Item purchased",
		log.FieldOperation, log.OpPurchase,
		log.FieldItemID, itemID,
		log.FieldRecordID, recordID,
		log.FieldAmount, item.Price.String())
	return itemID, recordID, nil
}

// ItemCost is an item with its holding period and per-day cost.
type ItemCost struct {
	Item      core.Item
	HeldDays  int
	DailyCost decimal.Decimal
}

func (s *LedgerService) ItemCost(ctx context.Context, id int64, now time.Time) (ItemCost, error) {
	item, err := s.storage.GetItem(ctx, id)
	if err != nil {
		return ItemCost{}, fmt.Errorf("get item: %w", err)
	}
	return s.costOf(item, now), nil
}

// ItemCosts lists every item, newest first, with its holding cost.
func (s *LedgerService) ItemCosts(ctx context.Context, now time.Time) ([]ItemCost, error) {
	items, err := s.storage.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	costs := make([]ItemCost, len(items))
	for i, item := range items {
		costs[i] = s.costOf(item, now)
	}
	return costs, nil
}

func (s *LedgerService) costOf(item core.Item, now time.Time) ItemCost {
	return ItemCost{
		Item:      item,
		HeldDays:  item.HeldDays(now, s.opts.Location),
		DailyCost: item.DailyCost(now, s.opts.Location),
	}
}

// Report is the result of a stats query: the window, the daily buckets
// and, when there is at least one day, the chart geometry.
type Report struct {
	Scope    stats.Scope
	Start    time.Time
	End      time.Time
	Records  []core.Record
	Daily    stats.DailySeries
	Geometry *chart.Geometry
}

// Stats lists the records in the scope's window, buckets them by day and
// lays out the income and expense chart.
func (s *LedgerService) Stats(ctx context.Context, scope stats.Scope, now time.Time) (Report, error) {
	start, end, err := scope.Range(now, s.opts.Location)
	if err != nil {
		return Report{}, err
	}
	records, err := s.storage.ListRecordsInRange(ctx, start, end)
	if err != nil {
		return Report{}, fmt.Errorf("list records in range: %w", err)
	}

	report := Report{
		Scope:   scope,
		Start:   start,
		End:     end,
		Records: records,
		Daily:   stats.Aggregate(records, s.opts.Location),
	}

	if report.Daily.Len() > 0 {
		g, err := chart.Build(chart.FromDaily(report.Daily, s.opts.LabelLayout), s.opts.Frame)
		if err != nil {
			s.logger.WithComponent(log.ComponentChart).ErrorContext(ctx, "Chart layout failed",
				log.NewFields().WithOperation(log.OpAggregate).WithError(err).ToSlice()...)
			return Report{}, fmt.Errorf("build chart: %w", err)
		}
		report.Geometry = &g
	}

	s.logger.WithComponent(log.ComponentStats).DebugContext(ctx, "Stats computed",
		log.FieldOperation, log.OpAggregate,
		log.FieldScope, string(scope),
		log.FieldRangeStart, start,
		log.FieldRangeEnd, end,
		log.FieldDays, report.Daily.Len())
	return report, nil
}

// Overview is the dashboard summary.
type Overview struct {
	Accounts     []core.Account
	TotalBalance decimal.Decimal
	MonthIncome  decimal.Decimal
	MonthExpense decimal.Decimal
}

// Overview sums every account balance and the income and expense of the
// calendar month containing now.
func (s *LedgerService) Overview(ctx context.Context, now time.Time) (Overview, error) {
	accounts, err := s.storage.ListAccounts(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list accounts: %w", err)
	}
	out := Overview{Accounts: accounts, TotalBalance: decimal.Zero}
	for _, a := range accounts {
		out.TotalBalance = out.TotalBalance.Add(a.Balance)
	}

	start, end := monthBounds(now, s.opts.Location)
	records, err := s.storage.ListRecordsInRange(ctx, start, end)
	if err != nil {
		return Overview{}, fmt.Errorf("list month records: %w", err)
	}
	daily := stats.Aggregate(records, s.opts.Location)
	out.MonthIncome = daily.TotalIncome
	out.MonthExpense = daily.TotalExpense
	return out, nil
}

// monthBounds returns the first and last millisecond of now's month in loc.
func monthBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, _ := now.In(loc).Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0).Add(-time.Millisecond)
}

// FormatAmount renders an amount in the configured currency.
func (s *LedgerService) FormatAmount(amount decimal.Decimal) string {
	return core.FormatAmount(amount, s.opts.Currency)
}

func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}

	return nil
}
