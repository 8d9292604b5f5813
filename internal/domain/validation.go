package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MinTransferAmount = "0.01"
	MaxTransferAmount = "1000000000000" // 1 trillion
	MaxLoanPrincipal  = "1000000000000"
	MaxAnnualRate     = "1"
	// MaxMoneyAmount is the largest value a NUMERIC(15,2) money column holds.
	MaxMoneyAmount = "9999999999999.99"
	// RatePlaces is the number of fractional digits of a persisted interest rate.
	RatePlaces int32 = 6
)

var (
	minTransferAmount = decimal.RequireFromString(MinTransferAmount)
	maxTransferAmount = decimal.RequireFromString(MaxTransferAmount)
	maxLoanPrincipal  = decimal.RequireFromString(MaxLoanPrincipal)
	maxAnnualRate     = decimal.RequireFromString(MaxAnnualRate)
	maxMoneyAmount    = decimal.RequireFromString(MaxMoneyAmount)
)

// ValidateAmount validates a deposit or transfer amount. Amounts finer than a
// cent are rejected since the stored balances would round each side apart.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !fitsPlaces(amount, MoneyPlaces) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MoneyPlaces)
	}

	if amount.LessThan(minTransferAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrInvalidAmount, MinTransferAmount)
	}

	if amount.GreaterThan(maxTransferAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxTransferAmount)
	}

	return nil
}

// fitsPlaces reports whether d has no significant digits beyond places.
func fitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
