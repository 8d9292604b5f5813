package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is derived from which references a Transaction carries.
type TransactionKind string

const (
	TransactionKindTransfer      TransactionKind = "transfer"
	TransactionKindDeposit       TransactionKind = "deposit"
	TransactionKindLoanRepayment TransactionKind = "loan_repayment"
	TransactionKindUnknown       TransactionKind = "unknown"
)

// Transaction is an append-only record of a money movement.
type Transaction struct {
	CreatedAt     time.Time
	ID            string
	FromAccountID *string
	ToAccountID   *string
	LoanPaymentID *string
	BeneficiaryID *string
	Amount        decimal.Decimal
}

// Kind reports the semantic kind implied by the reference fields.
func (t *Transaction) Kind() TransactionKind {
	switch {
	case t.FromAccountID != nil && t.ToAccountID != nil:
		return TransactionKindTransfer
	case t.FromAccountID == nil && t.ToAccountID != nil:
		return TransactionKindDeposit
	case t.FromAccountID != nil && t.LoanPaymentID != nil:
		return TransactionKindLoanRepayment
	default:
		return TransactionKindUnknown
	}
}

// References reports whether the transaction touches accountID on either side.
func (t *Transaction) References(accountID string) bool {
	return (t.FromAccountID != nil && *t.FromAccountID == accountID) ||
		(t.ToAccountID != nil && *t.ToAccountID == accountID)
}

// Validate validates a transaction before it is appended.
func (t *Transaction) Validate() error {
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	if t.FromAccountID != nil && t.ToAccountID != nil && *t.FromAccountID == *t.ToAccountID {
		return ErrSameAccount
	}

	return nil
}
