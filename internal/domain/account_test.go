package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		amount      decimal.Decimal
		expectError bool
	}{
		{
			name:        "sufficient balance",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(50),
			expectError: false,
		},
		{
			name:        "exact balance",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(100),
			expectError: false,
		},
		{
			name:        "insufficient balance",
			balance:     decimal.NewFromInt(50),
			amount:      decimal.NewFromInt(100),
			expectError: true,
		},
		{
			name:        "one cent short",
			balance:     decimal.RequireFromString("99.99"),
			amount:      decimal.NewFromInt(100),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance}

			err := acc.ValidateDebit(tt.amount)
			if tt.expectError {
				if !errors.Is(err, ErrInsufficientFunds) {
					t.Errorf("expected ErrInsufficientFunds, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_ApplyDebitCredit(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(100)}

	if got := acc.ApplyDebit(decimal.RequireFromString("30.25")); !got.Equal(decimal.RequireFromString("69.75")) {
		t.Errorf("expected 69.75, got %s", got)
	}

	if got := acc.ApplyCredit(decimal.RequireFromString("0.01")); !got.Equal(decimal.RequireFromString("100.01")) {
		t.Errorf("expected 100.01, got %s", got)
	}
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		input       string
		expected    string
		expectError bool
	}{
		{input: "", expected: "USD"},
		{input: "usd", expected: "USD"},
		{input: " eur ", expected: "EUR"},
		{input: "GBP", expected: "GBP"},
		{input: "US", expectError: true},
		{input: "DOLLAR", expectError: true},
		{input: "U5D", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeCurrency(tt.input)
			if tt.expectError {
				if !errors.Is(err, ErrInvalidCurrency) {
					t.Errorf("expected ErrInvalidCurrency, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
