package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/usecase"
)

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	Owner    string `json:"owner" validate:"required,max=255"`
	BranchID string `json:"branch_id" validate:"max=64"`
	Currency string `json:"currency" validate:"omitempty,len=3,alpha"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(customerID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		CustomerID: customerID,
		BranchID:   r.BranchID,
		Owner:      r.Owner,
		Currency:   r.Currency,
	}
}

// DepositRequest represents a request to credit an account.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput(accountID string) usecase.DepositInput {
	return usecase.DepositInput{
		AccountID: accountID,
		Amount:    r.Amount,
	}
}

// CreateTransferRequest represents a request to move money between accounts.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id" validate:"required"`
	ToAccountID   string          `json:"to_account_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
	}
}

// CreateLoanRequest represents a loan application.
type CreateLoanRequest struct {
	BranchID     string          `json:"branch_id" validate:"max=64"`
	Principal    decimal.Decimal `json:"principal" validate:"gt=0"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0"`
	TermMonths   int             `json:"term_months" validate:"required,min=1,max=600"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLoanRequest) ToUseCaseInput(customerID string) usecase.CreateLoanInput {
	return usecase.CreateLoanInput{
		CustomerID: customerID,
		BranchID:   r.BranchID,
		Principal:  r.Principal,
		AnnualRate: r.InterestRate,
		TermMonths: r.TermMonths,
	}
}

// RepayLoanRequest pays one installment, optionally from an account.
type RepayLoanRequest struct {
	PaymentID     string `json:"payment_id" validate:"required"`
	FromAccountID string `json:"from_account_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RepayLoanRequest) ToUseCaseInput(loanID string) usecase.MakePaymentInput {
	return usecase.MakePaymentInput{
		LoanID:        loanID,
		PaymentID:     r.PaymentID,
		FromAccountID: r.FromAccountID,
	}
}
