package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus represents loan lifecycle state.
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusApproved  LoanStatus = "approved"
	LoanStatusRepaid    LoanStatus = "repaid"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// MaxLoanTermMonths bounds the size of a generated schedule.
const MaxLoanTermMonths = 600

// Loan is a fixed-installment loan together with its repayment schedule.
type Loan struct {
	ID           string
	CustomerID   string
	BranchID     string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	TermMonths   int
	EMI          decimal.Decimal
	TotalPayable decimal.Decimal
	Status       LoanStatus
	StartDate    time.Time
	EndDate      time.Time
	CreatedAt    time.Time
	Payments     []*LoanPayment
}

// LoanTerms are the inputs of an amortization.
type LoanTerms struct {
	Principal  decimal.Decimal
	AnnualRate decimal.Decimal
	TermMonths int
}

// Validate checks that the terms can be amortized.
// A zero rate is accepted and yields an interest-free schedule.
// Principal and rate must fit the precision they are stored with.
func (t LoanTerms) Validate() error {
	if t.Principal.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidLoanTerms
	}
	if !fitsPlaces(t.Principal, MoneyPlaces) {
		return fmt.Errorf("%w: principal has more than %d decimal places", ErrInvalidLoanTerms, MoneyPlaces)
	}
	if t.Principal.GreaterThan(maxLoanPrincipal) {
		return fmt.Errorf("%w: maximum principal is %s", ErrInvalidLoanTerms, MaxLoanPrincipal)
	}
	if t.AnnualRate.IsNegative() {
		return ErrInvalidLoanTerms
	}
	if !fitsPlaces(t.AnnualRate, RatePlaces) {
		return fmt.Errorf("%w: interest rate has more than %d decimal places", ErrInvalidLoanTerms, RatePlaces)
	}
	if t.AnnualRate.GreaterThan(maxAnnualRate) {
		return fmt.Errorf("%w: maximum interest rate is %s", ErrInvalidLoanTerms, MaxAnnualRate)
	}
	if t.TermMonths <= 0 || t.TermMonths > MaxLoanTermMonths {
		return ErrInvalidLoanTerms
	}
	return nil
}

// AcceptsPayments reports whether installments may be paid against the loan.
func (l *Loan) AcceptsPayments() bool {
	return l.Status == LoanStatusApproved
}

// IsRepaidBy reports whether paidCount installments complete the loan.
func (l *Loan) IsRepaidBy(paidCount int) bool {
	return paidCount == l.TermMonths
}
