package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"0", "0", true},
		{"1.005", "1.01", true}, // half-up rounding
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"1e3", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%q expected invalid argument, got %v", tc.in, err)
		}
	}
}

func TestRoundAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.005", "0.01"},
		{"0.004", "0"},
		{"3.335", "3.34"},
		{"-0.005", "-0.01"},
		{"12.3", "12.3"},
	}
	for _, tt := range tests {
		got := RoundAmount(decimal.RequireFromString(tt.in))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("RoundAmount(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAmountFromFloat(t *testing.T) {
	if got := AmountFromFloat(0.1 + 0.2); !got.Equal(decimal.RequireFromString("0.3")) {
		t.Fatalf("expected 0.3, got %s", got)
	}
	if got := AmountFromFloat(-70); !got.Equal(decimal.NewFromInt(-70)) {
		t.Fatalf("expected -70, got %s", got)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.RequireFromString("12.3"), "USD"); got != "$12.30" {
		t.Fatalf("USD: got %q", got)
	}
	if got := FormatAmount(decimal.RequireFromString("12.3"), "XXQ"); got != "12.30 XXQ" {
		t.Fatalf("unknown currency: got %q", got)
	}
	if !KnownCurrency("cny") {
		t.Fatalf("CNY should be known")
	}
}
