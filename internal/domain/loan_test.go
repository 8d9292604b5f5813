package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoanTerms_Validate(t *testing.T) {
	tests := []struct {
		name        string
		terms       LoanTerms
		expectError bool
	}{
		{name: "valid", terms: LoanTerms{Principal: decimal.NewFromInt(1000), AnnualRate: decimal.NewFromFloat(0.1), TermMonths: 12}},
		{name: "zero rate", terms: LoanTerms{Principal: decimal.NewFromInt(1000), AnnualRate: decimal.Zero, TermMonths: 12}},
		{name: "max term", terms: LoanTerms{Principal: decimal.NewFromInt(1000), AnnualRate: decimal.NewFromFloat(0.1), TermMonths: MaxLoanTermMonths}},
		{name: "negative term", terms: LoanTerms{Principal: decimal.NewFromInt(1000), AnnualRate: decimal.NewFromFloat(0.1), TermMonths: -3}, expectError: true},
		{name: "zero principal", terms: LoanTerms{Principal: decimal.Zero, AnnualRate: decimal.NewFromFloat(0.1), TermMonths: 12}, expectError: true},
		{name: "principal in cents", terms: LoanTerms{Principal: decimal.RequireFromString("1000.55"), AnnualRate: decimal.NewFromFloat(0.1), TermMonths: 12}},
		{name: "principal below a cent", terms: LoanTerms{Principal: decimal.RequireFromString("1000.005"), AnnualRate: decimal.NewFromFloat(0.1), TermMonths: 12}, expectError: true},
		{name: "principal above maximum", terms: LoanTerms{Principal: decimal.RequireFromString(MaxLoanPrincipal).Add(decimal.NewFromInt(1)), AnnualRate: decimal.NewFromFloat(0.1), TermMonths: 12}, expectError: true},
		{name: "rate with six places", terms: LoanTerms{Principal: decimal.NewFromInt(1000), AnnualRate: decimal.RequireFromString("0.123456"), TermMonths: 12}},
		{name: "rate with seven places", terms: LoanTerms{Principal: decimal.NewFromInt(1000), AnnualRate: decimal.RequireFromString("0.1234567"), TermMonths: 12}, expectError: true},
		{name: "rate above maximum", terms: LoanTerms{Principal: decimal.NewFromInt(1000), AnnualRate: decimal.NewFromInt(1000), TermMonths: 12}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.terms.Validate()
			if tt.expectError {
				if !errors.Is(err, ErrInvalidLoanTerms) {
					t.Errorf("expected ErrInvalidLoanTerms, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoan_Status(t *testing.T) {
	loan := &Loan{Status: LoanStatusApproved, TermMonths: 3}

	if !loan.AcceptsPayments() {
		t.Error("approved loan should accept payments")
	}
	if loan.IsRepaidBy(2) {
		t.Error("loan with one open installment is not repaid")
	}
	if !loan.IsRepaidBy(3) {
		t.Error("loan with all installments paid is repaid")
	}

	for _, status := range []LoanStatus{LoanStatusPending, LoanStatusRepaid, LoanStatusDefaulted} {
		loan.Status = status
		if loan.AcceptsPayments() {
			t.Errorf("%s loan should not accept payments", status)
		}
	}
}

func TestLoanPayment_ValidatePayable(t *testing.T) {
	tests := []struct {
		name        string
		payment     LoanPayment
		loanID      string
		expectedErr error
	}{
		{name: "pending", payment: LoanPayment{LoanID: "L1", Status: PaymentStatusPending}, loanID: "L1"},
		{name: "overdue", payment: LoanPayment{LoanID: "L1", Status: PaymentStatusOverdue}, loanID: "L1"},
		{name: "other loan", payment: LoanPayment{LoanID: "L2", Status: PaymentStatusPending}, loanID: "L1", expectedErr: ErrPaymentLoanMismatch},
		{name: "already paid", payment: LoanPayment{LoanID: "L1", Status: PaymentStatusPaid}, loanID: "L1", expectedErr: ErrAlreadyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payment.ValidatePayable(tt.loanID)
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected %v, got %v", tt.expectedErr, err)
			}
		})
	}
}
