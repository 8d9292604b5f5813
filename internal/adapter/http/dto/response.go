package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	BranchID   string    `json:"branch_id,omitempty"`
	Owner      string    `json:"owner"`
	Currency   string    `json:"currency"`
	Balance    string    `json:"balance"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		BranchID:   a.BranchID,
		Owner:      a.Owner,
		Currency:   a.Currency,
		Balance:    money(a.Balance),
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse is a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// TransactionResponse represents a ledger transaction.
type TransactionResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	FromAccountID *string   `json:"from_account_id,omitempty"`
	ToAccountID   *string   `json:"to_account_id,omitempty"`
	LoanPaymentID *string   `json:"loan_payment_id,omitempty"`
	BeneficiaryID *string   `json:"beneficiary_id,omitempty"`
	Amount        string    `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            t.ID,
		Kind:          string(t.Kind()),
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		LoanPaymentID: t.LoanPaymentID,
		BeneficiaryID: t.BeneficiaryID,
		Amount:        money(t.Amount),
		CreatedAt:     t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// StatementResponse lists the newest transactions of an account.
type StatementResponse struct {
	AccountID    string                 `json:"account_id"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// LoanPaymentResponse represents one installment.
type LoanPaymentResponse struct {
	ID       string     `json:"id"`
	LoanID   string     `json:"loan_id"`
	Amount   string     `json:"amount"`
	DueDate  time.Time  `json:"due_date"`
	PaidDate *time.Time `json:"paid_date,omitempty"`
	Status   string     `json:"status"`
}

// LoanPaymentFromDomain converts an installment to response.
func LoanPaymentFromDomain(p *domain.LoanPayment) *LoanPaymentResponse {
	return &LoanPaymentResponse{
		ID:       p.ID,
		LoanID:   p.LoanID,
		Amount:   money(p.Amount),
		DueDate:  p.DueDate,
		PaidDate: p.PaidDate,
		Status:   string(p.Status),
	}
}

// LoanPaymentsFromDomain converts installments to responses.
func LoanPaymentsFromDomain(payments []*domain.LoanPayment) []*LoanPaymentResponse {
	result := make([]*LoanPaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = LoanPaymentFromDomain(p)
	}
	return result
}

// LoanResponse represents a loan with its schedule.
type LoanResponse struct {
	ID           string                 `json:"id"`
	CustomerID   string                 `json:"customer_id"`
	BranchID     string                 `json:"branch_id,omitempty"`
	Principal    string                 `json:"principal"`
	InterestRate string                 `json:"interest_rate"`
	TermMonths   int                    `json:"term_months"`
	EMI          string                 `json:"emi"`
	TotalPayable string                 `json:"total_payable"`
	Status       string                 `json:"status"`
	StartDate    time.Time              `json:"start_date"`
	EndDate      time.Time              `json:"end_date"`
	Payments     []*LoanPaymentResponse `json:"payments,omitempty"`
}

// LoanFromDomain converts a loan to response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	resp := &LoanResponse{
		ID:           l.ID,
		CustomerID:   l.CustomerID,
		BranchID:     l.BranchID,
		Principal:    money(l.Principal),
		InterestRate: l.InterestRate.String(),
		TermMonths:   l.TermMonths,
		EMI:          money(l.EMI),
		TotalPayable: money(l.TotalPayable),
		Status:       string(l.Status),
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
	}
	if len(l.Payments) > 0 {
		resp.Payments = LoanPaymentsFromDomain(l.Payments)
	}
	return resp
}

// LoansFromDomain converts loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// RepayLoanResponse is the state after paying one installment.
type RepayLoanResponse struct {
	Payment     *LoanPaymentResponse `json:"payment"`
	LoanStatus  string               `json:"loan_status"`
	PaidCount   int                  `json:"paid_count"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// RepayLoanFromResult converts a payment result to response.
func RepayLoanFromResult(r *usecase.MakePaymentResult) *RepayLoanResponse {
	resp := &RepayLoanResponse{
		Payment:    LoanPaymentFromDomain(r.Payment),
		LoanStatus: string(r.Loan.Status),
		PaidCount:  r.PaidCount,
	}
	if r.Transaction != nil {
		resp.Transaction = TransactionFromDomain(r.Transaction)
	}
	return resp
}

// ConsistencyResponse reports the ledger-wide balance check.
type ConsistencyResponse struct {
	Consistent      bool   `json:"consistent"`
	TotalBalance    string `json:"total_balance"`
	TotalDeposits   string `json:"total_deposits"`
	TotalRepayments string `json:"total_repayments"`
}

// ConsistencyFromReport converts a consistency report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:      r.Consistent,
		TotalBalance:    money(r.TotalBalance),
		TotalDeposits:   money(r.TotalDeposits),
		TotalRepayments: money(r.TotalRepayments),
	}
}
