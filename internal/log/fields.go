package log

import (
	"github.com/shopspring/decimal"

	"bookkeeping/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldRecordID   = "record_id"
	FieldAccountID  = "account_id"
	FieldCategoryID = "category_id"
	FieldItemID     = "item_id"
	FieldKind       = "kind"
	FieldAmount     = "amount"
	FieldBalance    = "balance"
	FieldScope      = "scope"
	FieldRangeStart = "range_start"
	FieldRangeEnd   = "range_end"
	FieldDays       = "days"
	FieldDBPath     = "db_path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentStats   = "stats"
	ComponentChart   = "chart"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpRevert    = "revert"
	OpCommit    = "commit"
	OpPurchase  = "purchase"
	OpAggregate = "aggregate"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRecord adds the fields that identify a ledger record
func (f LogFields) WithRecord(rec core.Record) LogFields {
	if rec.ID != 0 {
		f[FieldRecordID] = rec.ID
	}
	f[FieldKind] = rec.Kind.String()
	f[FieldAmount] = rec.Amount.String()
	f[FieldAccountID] = rec.AccountID
	f[FieldCategoryID] = rec.CategoryID
	return f
}

// WithBalance adds an account balance
func (f LogFields) WithBalance(accountID int64, balance decimal.Decimal) LogFields {
	f[FieldAccountID] = accountID
	f[FieldBalance] = balance.String()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
