package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// amortizationPrecision is the number of fractional digits kept in intermediate EMI math.
	amortizationPrecision int32 = 28
	// MoneyPlaces is the number of fractional digits of a persisted amount.
	MoneyPlaces int32 = 2
)

var (
	one           = decimal.NewFromInt(1)
	monthsPerYear = decimal.NewFromInt(12)
)

// Installment is one line of an amortization schedule.
type Installment struct {
	Number    int
	DueDate   time.Time
	Amount    decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Remaining decimal.Decimal
}

// Amortization is a fixed-EMI repayment plan.
type Amortization struct {
	StartDate    time.Time
	EndDate      time.Time
	EMI          decimal.Decimal
	TotalPayable decimal.Decimal
	Installments []Installment
}

// MonthlyRate converts an annual rate to the per-month rate.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.DivRound(monthsPerYear, amortizationPrecision)
}

// CalculateEMI returns the equated monthly installment rounded half away from zero to cents.
//
//	EMI = P·r·(1+r)^n / ((1+r)^n − 1), r = annualRate/12
//	EMI = P/n when r = 0
func CalculateEMI(terms LoanTerms) (decimal.Decimal, error) {
	if err := terms.Validate(); err != nil {
		return decimal.Zero, err
	}

	n := decimal.NewFromInt(int64(terms.TermMonths))
	r := MonthlyRate(terms.AnnualRate)

	var emi decimal.Decimal
	if r.IsZero() {
		emi = terms.Principal.DivRound(n, amortizationPrecision).Round(MoneyPlaces)
	} else {
		growth := compound(one.Add(r), terms.TermMonths)
		emi = terms.Principal.Mul(r).Mul(growth).DivRound(growth.Sub(one), amortizationPrecision).Round(MoneyPlaces)
	}

	// Installments below a cent cannot be stored or paid.
	if !emi.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: installment rounds to zero", ErrInvalidLoanTerms)
	}

	return emi, nil
}

// Amortize builds the schedule for terms starting at start. Installment i is due
// start + i months; every installment equals the rounded EMI and
// TotalPayable = EMI × TermMonths exactly.
func Amortize(terms LoanTerms, start time.Time) (*Amortization, error) {
	emi, err := CalculateEMI(terms)
	if err != nil {
		return nil, err
	}

	r := MonthlyRate(terms.AnnualRate)
	remaining := terms.Principal
	installments := make([]Installment, 0, terms.TermMonths)

	for i := 1; i <= terms.TermMonths; i++ {
		interest := remaining.Mul(r).Round(MoneyPlaces)
		principal := emi.Sub(interest)
		remaining = remaining.Sub(principal)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		installments = append(installments, Installment{
			Number:    i,
			DueDate:   start.AddDate(0, i, 0),
			Amount:    emi,
			Interest:  interest,
			Principal: principal,
			Remaining: remaining,
		})
	}

	total := emi.Mul(decimal.NewFromInt(int64(terms.TermMonths)))
	if total.GreaterThan(maxMoneyAmount) {
		return nil, fmt.Errorf("%w: total payable exceeds %s", ErrInvalidLoanTerms, MaxMoneyAmount)
	}

	return &Amortization{
		StartDate:    start,
		EndDate:      start.AddDate(0, terms.TermMonths, 0),
		EMI:          emi,
		TotalPayable: total,
		Installments: installments,
	}, nil
}

// compound computes base^n by squaring, rounding every product to amortizationPrecision.
func compound(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(amortizationPrecision)
		}
		base = base.Mul(base).Round(amortizationPrecision)
		n >>= 1
	}
	return result
}
