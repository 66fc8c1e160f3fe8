package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags both categories and records. The stored values match the
// `type` column of the categories and records tables.
type Kind int

const (
	Expense Kind = 0
	Income  Kind = 1
)

// ItemStatus is the lifecycle state of an owned item.
type ItemStatus int

const (
	InUse ItemStatus = 0
	Idle  ItemStatus = 1
	Lost  ItemStatus = 2
	Sold  ItemStatus = 3
)

type (
	Account struct {
		ID      int64
		Name    string
		Type    string // free-form label: cash, card, wallet...
		Balance decimal.Decimal
	}

	Category struct {
		ID      int64
		Name    string
		Kind    Kind
		IconRef string
	}

	Record struct {
		ID         int64
		Amount     decimal.Decimal // never negative, the sign comes from Kind
		Kind       Kind
		CategoryID int64
		AccountID  int64
		Timestamp  time.Time
		Note       string
	}

	Item struct {
		ID           int64
		Name         string
		Status       ItemStatus
		RecordID     *int64 // record created at purchase time, if any
		PurchaseDate time.Time
		Price        decimal.Decimal
		PhotoRef     string
	}
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var (
	ErrEmptyName      = fmt.Errorf("%w: empty name", ErrInvalidArgument)
	ErrNegativeAmount = fmt.Errorf("%w: negative amount", ErrInvalidArgument)
	ErrNegativePrice  = fmt.Errorf("%w: negative price", ErrInvalidArgument)
	ErrUnknownKind    = fmt.Errorf("%w: unknown kind", ErrInvalidArgument)
	ErrUnknownStatus  = fmt.Errorf("%w: unknown item status", ErrInvalidArgument)
	ErrKindMismatch   = fmt.Errorf("%w: record kind does not match category kind", ErrInvalidArgument)
)

func (k Kind) Valid() bool {
	return k == Expense || k == Income
}

func (k Kind) String() string {
	switch k {
	case Expense:
		return "expense"
	case Income:
		return "income"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "expense" or "income", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense":
		return Expense, nil
	case "income":
		return Income, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Signed returns the amount as it affects an account balance.
func (k Kind) Signed(amount decimal.Decimal) decimal.Decimal {
	if k == Income {
		return amount
	}
	return amount.Neg()
}

func (s ItemStatus) Valid() bool {
	return s >= InUse && s <= Sold
}

func (s ItemStatus) String() string {
	switch s {
	case InUse:
		return "in-use"
	case Idle:
		return "idle"
	case Lost:
		return "lost"
	case Sold:
		return "sold"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParseItemStatus accepts the String form of a status.
func ParseItemStatus(s string) (ItemStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in-use", "inuse":
		return InUse, nil
	case "idle":
		return Idle, nil
	case "lost":
		return Lost, nil
	case "sold":
		return Sold, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.Valid() {
		return ErrUnknownKind
	}
	return nil
}

// Validate checks the record's own fields. Whether CategoryID and AccountID
// exist is checked by the repository.
func (r Record) Validate() error {
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !r.Kind.Valid() {
		return ErrUnknownKind
	}
	return nil
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !i.Status.Valid() {
		return ErrUnknownStatus
	}
	return nil
}
