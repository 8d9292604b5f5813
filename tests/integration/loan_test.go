package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/tests/testutil"
)

func TestLoanLifecycle(t *testing.T) {
	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	testDB.TruncateAll(ctx)
	e := testDB.NewEngine()

	funding := e.OpenAccount(ctx, "cust-1", "USD", decimal.NewFromInt(20000))

	loan, err := e.Loans.CreateLoan(ctx, usecase.CreateLoanInput{
		CustomerID: "cust-1",
		BranchID:   "branch-1",
		Principal:  decimal.NewFromInt(12000),
		AnnualRate: decimal.RequireFromString("0.12"),
		TermMonths: 12,
	})
	if err != nil {
		t.Fatalf("create loan: %v", err)
	}
	if !loan.EMI.Equal(decimal.RequireFromString("1066.19")) {
		t.Errorf("expected EMI 1066.19, got %s", loan.EMI)
	}

	stored, err := e.Loans.GetLoan(ctx, loan.ID)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if len(stored.Payments) != 12 {
		t.Fatalf("expected 12 installments, got %d", len(stored.Payments))
	}
	for i, p := range stored.Payments {
		if !p.DueDate.Equal(loan.StartDate.AddDate(0, i+1, 0)) {
			t.Errorf("installment %d due %s, expected %s", i, p.DueDate, loan.StartDate.AddDate(0, i+1, 0))
		}
	}

	for i, p := range stored.Payments {
		result, err := e.Payments.MakePayment(ctx, usecase.MakePaymentInput{
			LoanID:        loan.ID,
			PaymentID:     p.ID,
			FromAccountID: funding.ID,
		})
		if err != nil {
			t.Fatalf("payment %d: %v", i, err)
		}

		wantStatus := domain.LoanStatusApproved
		if i == len(stored.Payments)-1 {
			wantStatus = domain.LoanStatusRepaid
		}
		if result.Loan.Status != wantStatus {
			t.Errorf("after payment %d expected %s, got %s", i, wantStatus, result.Loan.Status)
		}
	}

	if _, err := e.Payments.MakePayment(ctx, usecase.MakePaymentInput{
		LoanID:    loan.ID,
		PaymentID: stored.Payments[0].ID,
	}); !errors.Is(err, domain.ErrAlreadyPaid) {
		t.Errorf("expected ErrAlreadyPaid, got %v", err)
	}

	repaid := loan.EMI.Mul(decimal.NewFromInt(12))
	if got := e.Balance(ctx, funding.ID); !got.Equal(decimal.NewFromInt(20000).Sub(repaid)) {
		t.Errorf("expected balance %s, got %s", decimal.NewFromInt(20000).Sub(repaid), got)
	}

	report := e.RequireConsistent(ctx)
	if !report.TotalRepayments.Equal(repaid) {
		t.Errorf("expected repayments %s, got %s", repaid, report.TotalRepayments)
	}
}

func TestLoanScheduleIsAtomic(t *testing.T) {
	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	testDB.TruncateAll(ctx)
	e := testDB.NewEngine()

	_, err := e.Loans.CreateLoan(ctx, usecase.CreateLoanInput{
		CustomerID: "cust-1",
		Principal:  decimal.NewFromInt(1000),
		AnnualRate: decimal.RequireFromString("0.1"),
		TermMonths: domain.MaxLoanTermMonths + 1,
	})
	if !errors.Is(err, domain.ErrInvalidLoanTerms) {
		t.Fatalf("expected ErrInvalidLoanTerms, got %v", err)
	}

	loans, err := e.Loans.ListLoans(ctx, "cust-1")
	if err != nil {
		t.Fatalf("list loans: %v", err)
	}
	if len(loans) != 0 {
		t.Errorf("expected no loans, got %d", len(loans))
	}
}

func TestLoanListNestsSchedules(t *testing.T) {
	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	testDB.TruncateAll(ctx)
	e := testDB.NewEngine()

	for _, term := range []int{3, 6} {
		if _, err := e.Loans.CreateLoan(ctx, usecase.CreateLoanInput{
			CustomerID: "cust-9",
			Principal:  decimal.NewFromInt(1200),
			AnnualRate: decimal.Zero,
			TermMonths: term,
		}); err != nil {
			t.Fatalf("create loan: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	loans, err := e.Loans.ListLoans(ctx, "cust-9")
	if err != nil {
		t.Fatalf("list loans: %v", err)
	}
	if len(loans) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(loans))
	}
	if len(loans[0].Payments) != 3 || len(loans[1].Payments) != 6 {
		t.Errorf("expected schedules of 3 and 6, got %d and %d", len(loans[0].Payments), len(loans[1].Payments))
	}
}
