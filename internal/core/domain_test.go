package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestKindSigned(t *testing.T) {
	amount := decimal.RequireFromString("30.50")
	if got := Income.Signed(amount); !got.Equal(amount) {
		t.Fatalf("income signed = %s, want %s", got, amount)
	}
	if got := Expense.Signed(amount); !got.Equal(amount.Neg()) {
		t.Fatalf("expense signed = %s, want %s", got, amount.Neg())
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"expense", Expense, true},
		{"Income", Income, true},
		{" INCOME ", Income, true},
		{"transfer", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%q expected invalid argument, got %v", tc.in, err)
		}
	}
}

func TestParseItemStatusRoundTrip(t *testing.T) {
	for _, s := range []ItemStatus{InUse, Idle, Lost, Sold} {
		got, err := ParseItemStatus(s.String())
		if err != nil || got != s {
			t.Fatalf("status %v: got %v err=%v", s, got, err)
		}
	}
	if _, err := ParseItemStatus("broken"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected unknown status, got %v", err)
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{Amount: decimal.NewFromInt(10), Kind: Income, Timestamp: time.Now()}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	zero := Record{Amount: decimal.Zero, Kind: Expense}
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be accepted, got %v", err)
	}

	bads := []struct {
		name string
		rec  Record
		want error
	}{
		{"negative amount", Record{Amount: decimal.NewFromInt(-1), Kind: Expense}, ErrNegativeAmount},
		{"unknown kind", Record{Amount: decimal.NewFromInt(1), Kind: Kind(7)}, ErrUnknownKind},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if !errors.Is(err, tc.want) || !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAccountCategoryItemValidate(t *testing.T) {
	if err := (Account{Name: "  "}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("blank account name: got %v", err)
	}
	if err := (Account{Name: "Cash", Balance: decimal.NewFromInt(-5)}).Validate(); err != nil {
		t.Fatalf("negative balance is allowed, got %v", err)
	}
	if err := (Category{Name: "food", Kind: Kind(3)}).Validate(); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("category kind: got %v", err)
	}
	if err := (Item{Name: "kettle", Price: decimal.NewFromInt(-1)}).Validate(); !errors.Is(err, ErrNegativePrice) {
		t.Fatalf("item price: got %v", err)
	}
	if err := (Item{Name: "kettle", Status: ItemStatus(9)}).Validate(); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("item status: got %v", err)
	}
	if err := (Item{Name: "", Price: decimal.NewFromInt(1)}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("item name: got %v", err)
	}
}
