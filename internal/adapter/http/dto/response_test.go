package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:         "acc-1",
		CustomerID: "cust-1",
		Owner:      "Ada",
		Currency:   "USD",
		Balance:    decimal.RequireFromString("123.4"),
		Version:    2,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID || resp.Balance != "123.40" || resp.Version != 2 || resp.CustomerID != "cust-1" {
		t.Fatalf("unexpected account response: %+v", resp)
	}
}

func TestTransactionFromDomain(t *testing.T) {
	from, to, payment := "acc-1", "acc-2", "pay-1"

	tests := []struct {
		name     string
		txn      *domain.Transaction
		wantKind string
	}{
		{name: "transfer", txn: &domain.Transaction{FromAccountID: &from, ToAccountID: &to}, wantKind: "transfer"},
		{name: "deposit", txn: &domain.Transaction{ToAccountID: &to}, wantKind: "deposit"},
		{name: "repayment", txn: &domain.Transaction{FromAccountID: &from, LoanPaymentID: &payment}, wantKind: "loan_repayment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.txn.ID = "txn-1"
			tt.txn.Amount = decimal.NewFromInt(5)

			resp := TransactionFromDomain(tt.txn)
			if resp.Kind != tt.wantKind {
				t.Fatalf("expected kind %s, got %s", tt.wantKind, resp.Kind)
			}
			if resp.Amount != "5.00" {
				t.Fatalf("expected amount 5.00, got %s", resp.Amount)
			}
		})
	}
}

func TestLoanFromDomain(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	loan := &domain.Loan{
		ID:           "loan-1",
		CustomerID:   "cust-1",
		Principal:    decimal.NewFromInt(12000),
		InterestRate: decimal.RequireFromString("0.12"),
		TermMonths:   12,
		EMI:          decimal.RequireFromString("1066.19"),
		TotalPayable: decimal.RequireFromString("12794.28"),
		Status:       domain.LoanStatusApproved,
		StartDate:    start,
		EndDate:      start.AddDate(0, 12, 0),
	}

	resp := LoanFromDomain(loan)
	if resp.Principal != "12000.00" || resp.InterestRate != "0.12" || resp.EMI != "1066.19" {
		t.Fatalf("unexpected loan response: %+v", resp)
	}
	if resp.Payments != nil {
		t.Fatalf("expected no payments without a schedule")
	}

	loan.Payments = []*domain.LoanPayment{{ID: "p1", LoanID: "loan-1", Amount: loan.EMI, Status: domain.PaymentStatusPending}}
	if resp := LoanFromDomain(loan); len(resp.Payments) != 1 || resp.Payments[0].Status != "pending" {
		t.Fatalf("expected nested schedule, got %+v", resp.Payments)
	}
}

func TestRepayLoanFromResult(t *testing.T) {
	paid := time.Now()
	result := &usecase.MakePaymentResult{
		Payment:   &domain.LoanPayment{ID: "p1", LoanID: "loan-1", Amount: decimal.NewFromInt(10), Status: domain.PaymentStatusPaid, PaidDate: &paid},
		Loan:      &domain.Loan{ID: "loan-1", Status: domain.LoanStatusRepaid},
		PaidCount: 3,
	}

	resp := RepayLoanFromResult(result)
	if resp.LoanStatus != "repaid" || resp.PaidCount != 3 || resp.Transaction != nil {
		t.Fatalf("unexpected repay response: %+v", resp)
	}
}

func TestConsistencyFromReport(t *testing.T) {
	resp := ConsistencyFromReport(&usecase.ConsistencyReport{
		TotalBalance:    decimal.NewFromInt(90),
		TotalDeposits:   decimal.NewFromInt(100),
		TotalRepayments: decimal.NewFromInt(10),
		Consistent:      true,
	})

	if !resp.Consistent || resp.TotalBalance != "90.00" || resp.TotalRepayments != "10.00" {
		t.Fatalf("unexpected consistency response: %+v", resp)
	}
}
