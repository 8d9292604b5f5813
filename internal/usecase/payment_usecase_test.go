package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

func scheduleOf(t *testing.T, f *loanFixture, loanID string) []*domain.LoanPayment {
	t.Helper()
	payments, err := f.payUC.ListPayments(context.Background(), loanID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	return payments
}

func TestPaymentUseCase_MakePayment_CompletesLoan(t *testing.T) {
	f := newLoanFixture(nil)
	ctx := context.Background()
	loan := f.createLoan(t, "3000", "0.06", 3)
	schedule := scheduleOf(t, f, loan.ID)

	for i, p := range schedule[:2] {
		result, err := f.payUC.MakePayment(ctx, usecase.MakePaymentInput{LoanID: loan.ID, PaymentID: p.ID})
		if err != nil {
			t.Fatalf("payment %d: %v", i, err)
		}
		if result.PaidCount != i+1 {
			t.Errorf("expected paid count %d, got %d", i+1, result.PaidCount)
		}
		if result.Payment.Status != domain.PaymentStatusPaid || result.Payment.PaidDate == nil {
			t.Errorf("expected payment %d marked paid with a paid date", i)
		}
	}

	current, err := f.loanUC.GetLoan(ctx, loan.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Status != domain.LoanStatusApproved {
		t.Errorf("after 2 of 3 payments expected approved, got %s", current.Status)
	}

	result, err := f.payUC.MakePayment(ctx, usecase.MakePaymentInput{LoanID: loan.ID, PaymentID: schedule[2].ID})
	if err != nil {
		t.Fatalf("final payment: %v", err)
	}
	if result.Loan.Status != domain.LoanStatusRepaid {
		t.Errorf("expected result loan repaid, got %s", result.Loan.Status)
	}

	current, err = f.loanUC.GetLoan(ctx, loan.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Status != domain.LoanStatusRepaid {
		t.Errorf("after all payments expected repaid, got %s", current.Status)
	}

	want := []string{
		domain.EventTypeLoanCreated,
		domain.EventTypePaymentPaid,
		domain.EventTypePaymentPaid,
		domain.EventTypePaymentPaid,
		domain.EventTypeLoanRepaid,
	}
	got := f.outbox.EventTypes()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPaymentUseCase_MakePayment_Twice(t *testing.T) {
	f := newLoanFixture(nil)
	ctx := context.Background()
	loan := f.createLoan(t, "3000", "0.06", 3)
	payment := scheduleOf(t, f, loan.ID)[0]

	if _, err := f.payUC.MakePayment(ctx, usecase.MakePaymentInput{LoanID: loan.ID, PaymentID: payment.ID}); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	commits := f.txMgr.Commits()

	_, err := f.payUC.MakePayment(ctx, usecase.MakePaymentInput{LoanID: loan.ID, PaymentID: payment.ID})
	if !errors.Is(err, domain.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}

	paid, err := f.payments.CountPaid(ctx, nil, loan.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid != 1 {
		t.Errorf("expected paid count to stay 1, got %d", paid)
	}
	if f.txMgr.Commits() != commits {
		t.Errorf("repeated payment must not commit")
	}

	current, err := f.loanUC.GetLoan(ctx, loan.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Status != domain.LoanStatusApproved {
		t.Errorf("expected loan to stay approved, got %s", current.Status)
	}
}

func TestPaymentUseCase_MakePayment_Errors(t *testing.T) {
	f := newLoanFixture(nil)
	ctx := context.Background()
	loanA := f.createLoan(t, "1000", "0.1", 2)
	loanB := f.createLoan(t, "1000", "0.1", 2)
	paymentB := scheduleOf(t, f, loanB.ID)[0]

	tests := []struct {
		name        string
		input       usecase.MakePaymentInput
		expectedErr error
	}{
		{
			name:        "unknown payment",
			input:       usecase.MakePaymentInput{LoanID: loanA.ID, PaymentID: "missing"},
			expectedErr: domain.ErrPaymentNotFound,
		},
		{
			name:        "payment of another loan",
			input:       usecase.MakePaymentInput{LoanID: loanA.ID, PaymentID: paymentB.ID},
			expectedErr: domain.ErrPaymentLoanMismatch,
		},
		{
			name:        "unknown loan",
			input:       usecase.MakePaymentInput{LoanID: "no-such-loan", PaymentID: paymentB.ID},
			expectedErr: domain.ErrPaymentLoanMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.payUC.MakePayment(ctx, tt.input)
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestPaymentUseCase_MakePayment_LoanNotActive(t *testing.T) {
	f := newLoanFixture(usecase.ApprovalFunc(func(ctx context.Context, loan *domain.Loan) (domain.LoanStatus, error) {
		return domain.LoanStatusPending, nil
	}))
	loan := f.createLoan(t, "1000", "0.1", 2)
	payment := scheduleOf(t, f, loan.ID)[0]

	_, err := f.payUC.MakePayment(context.Background(), usecase.MakePaymentInput{LoanID: loan.ID, PaymentID: payment.ID})
	if !errors.Is(err, domain.ErrLoanNotActive) {
		t.Fatalf("expected ErrLoanNotActive, got %v", err)
	}
}

func TestPaymentUseCase_MakePayment_FundingAccount(t *testing.T) {
	t.Run("debits exactly the installment", func(t *testing.T) {
		f := newLoanFixture(nil, usd("acc-1", 2000))
		loan := f.createLoan(t, "3000", "0.06", 3)
		payment := scheduleOf(t, f, loan.ID)[0]

		result, err := f.payUC.MakePayment(context.Background(), usecase.MakePaymentInput{
			LoanID:        loan.ID,
			PaymentID:     payment.ID,
			FromAccountID: "acc-1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := decimal.NewFromInt(2000).Sub(loan.EMI)
		if got := f.accounts.Balance("acc-1"); !got.Equal(want) {
			t.Errorf("expected balance %s, got %s", want, got)
		}
		if result.Transaction == nil || result.Transaction.Kind() != domain.TransactionKindLoanRepayment {
			t.Fatalf("expected a loan repayment transaction, got %+v", result.Transaction)
		}
		if *result.Transaction.LoanPaymentID != payment.ID {
			t.Errorf("expected transaction to reference payment %s", payment.ID)
		}
		if !result.Transaction.Amount.Equal(loan.EMI) {
			t.Errorf("expected amount %s, got %s", loan.EMI, result.Transaction.Amount)
		}
	})

	t.Run("insufficient funds leaves installment open", func(t *testing.T) {
		f := newLoanFixture(nil, usd("acc-1", 10))
		loan := f.createLoan(t, "3000", "0.06", 3)
		payment := scheduleOf(t, f, loan.ID)[0]

		_, err := f.payUC.MakePayment(context.Background(), usecase.MakePaymentInput{
			LoanID:        loan.ID,
			PaymentID:     payment.ID,
			FromAccountID: "acc-1",
		})
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}

		if got := scheduleOf(t, f, loan.ID)[0]; got.Status != domain.PaymentStatusPending {
			t.Errorf("expected payment still pending, got %s", got.Status)
		}
		if got := f.accounts.Balance("acc-1"); !got.Equal(decimal.NewFromInt(10)) {
			t.Errorf("expected balance unchanged, got %s", got)
		}
	})

	t.Run("unknown funding account", func(t *testing.T) {
		f := newLoanFixture(nil)
		loan := f.createLoan(t, "3000", "0.06", 3)
		payment := scheduleOf(t, f, loan.ID)[0]

		_, err := f.payUC.MakePayment(context.Background(), usecase.MakePaymentInput{
			LoanID:        loan.ID,
			PaymentID:     payment.ID,
			FromAccountID: "missing",
		})
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

func TestPaymentUseCase_ListPayments(t *testing.T) {
	f := newLoanFixture(nil)
	loan := f.createLoan(t, "1200", "0", 12)

	payments := scheduleOf(t, f, loan.ID)
	for i := 1; i < len(payments); i++ {
		if !payments[i].DueDate.After(payments[i-1].DueDate) {
			t.Errorf("payments not ordered by due date at %d", i)
		}
	}

	if _, err := f.payUC.ListPayments(context.Background(), "missing"); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Errorf("expected ErrLoanNotFound, got %v", err)
	}
}
