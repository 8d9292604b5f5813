package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents installment state.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// LoanPayment is one scheduled installment of a loan.
type LoanPayment struct {
	ID        string
	LoanID    string
	Amount    decimal.Decimal
	DueDate   time.Time
	PaidDate  *time.Time
	Status    PaymentStatus
	CreatedAt time.Time
}

// ValidatePayable checks that the installment belongs to loanID and is still open.
func (p *LoanPayment) ValidatePayable(loanID string) error {
	if p.LoanID != loanID {
		return ErrPaymentLoanMismatch
	}
	if p.Status == PaymentStatusPaid {
		return ErrAlreadyPaid
	}
	return nil
}
