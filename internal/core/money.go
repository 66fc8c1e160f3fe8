// Package core provides money parsing and handling utilities.
//
// Amounts are decimal.Decimal values in major units (12.34 means twelve
// units and thirty-four hundredths). Parsing and display live here so the
// storage and reporting layers never deal with float formatting.
package core

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits kept for amounts.
const AmountPlaces = 2

// ParseAmount converts a user-entered decimal string to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rounds half-up to two places. Signs are rejected: the direction of a
// record comes from its Kind, never from the amount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil
//	ParseAmount("-1")     -> 0, ErrNegativeAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidArgument
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrNegativeAmount
	}
	if strings.HasPrefix(s, "+") {
		return decimal.Zero, ErrInvalidArgument
	}
	// decimal accepts exponents; amounts typed by a person never carry one.
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidArgument
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidArgument
	}
	return RoundAmount(d), nil
}

// RoundAmount rounds half away from zero to AmountPlaces. Every amount is
// rounded with it before it is stored or added to a balance.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// AmountFromFloat converts a REAL column value back to an amount, dropping
// binary float noise beyond the kept places.
func AmountFromFloat(f float64) decimal.Decimal {
	return RoundAmount(decimal.NewFromFloat(f))
}

// FormatAmount renders an amount with the symbol and fraction digits of the
// given ISO 4217 currency. Unknown currencies fall back to a plain two-place
// number followed by the code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return amount.StringFixed(AmountPlaces) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// KnownCurrency reports whether FormatAmount can render the currency natively.
func KnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(code)) != nil
}
