package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCalculateEMI(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		term      int
		wantEMI   string
	}{
		{name: "twelve percent one year", principal: "12000", rate: "0.12", term: 12, wantEMI: "1066.19"},
		{name: "zero rate divides evenly", principal: "12000", rate: "0", term: 12, wantEMI: "1000"},
		{name: "zero rate rounds to cents", principal: "1000", rate: "0", term: 3, wantEMI: "333.33"},
		{name: "thirty year mortgage", principal: "100000", rate: "0.06", term: 360, wantEMI: "599.55"},
		{name: "non terminating monthly rate", principal: "10000", rate: "0.05", term: 36, wantEMI: "299.71"},
		{name: "single installment", principal: "500", rate: "0.12", term: 1, wantEMI: "505"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emi, err := CalculateEMI(LoanTerms{
				Principal:  decimal.RequireFromString(tt.principal),
				AnnualRate: decimal.RequireFromString(tt.rate),
				TermMonths: tt.term,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !emi.Equal(decimal.RequireFromString(tt.wantEMI)) {
				t.Errorf("expected EMI %s, got %s", tt.wantEMI, emi)
			}
		})
	}
}

func TestCalculateEMI_InvalidTerms(t *testing.T) {
	tests := []struct {
		name  string
		terms LoanTerms
	}{
		{name: "zero principal", terms: LoanTerms{Principal: decimal.Zero, AnnualRate: decimal.NewFromFloat(0.1), TermMonths: 12}},
		{name: "negative principal", terms: LoanTerms{Principal: decimal.NewFromInt(-1), AnnualRate: decimal.NewFromFloat(0.1), TermMonths: 12}},
		{name: "negative rate", terms: LoanTerms{Principal: decimal.NewFromInt(100), AnnualRate: decimal.NewFromFloat(-0.1), TermMonths: 12}},
		{name: "zero term", terms: LoanTerms{Principal: decimal.NewFromInt(100), AnnualRate: decimal.NewFromFloat(0.1), TermMonths: 0}},
		{name: "term too long", terms: LoanTerms{Principal: decimal.NewFromInt(100), AnnualRate: decimal.NewFromFloat(0.1), TermMonths: MaxLoanTermMonths + 1}},
		{name: "principal below a cent", terms: LoanTerms{Principal: decimal.RequireFromString("1000.005"), AnnualRate: decimal.NewFromFloat(0.1), TermMonths: 12}},
		{name: "rate beyond six places", terms: LoanTerms{Principal: decimal.NewFromInt(100), AnnualRate: decimal.RequireFromString("0.0000001"), TermMonths: 12}},
		{name: "installment rounds to zero", terms: LoanTerms{Principal: decimal.RequireFromString("0.01"), AnnualRate: decimal.Zero, TermMonths: 600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateEMI(tt.terms)
			if !errors.Is(err, ErrInvalidLoanTerms) {
				t.Errorf("expected ErrInvalidLoanTerms, got %v", err)
			}
		})
	}
}

func TestAmortize(t *testing.T) {
	start := time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC)

	plan, err := Amortize(LoanTerms{
		Principal:  decimal.NewFromInt(12000),
		AnnualRate: decimal.RequireFromString("0.12"),
		TermMonths: 12,
	}, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Installments) != 12 {
		t.Fatalf("expected 12 installments, got %d", len(plan.Installments))
	}

	if !plan.TotalPayable.Equal(plan.EMI.Mul(decimal.NewFromInt(12))) {
		t.Errorf("total payable %s is not EMI x term", plan.TotalPayable)
	}

	if !plan.TotalPayable.Equal(decimal.RequireFromString("12794.28")) {
		t.Errorf("expected total payable 12794.28, got %s", plan.TotalPayable)
	}

	if !plan.EndDate.Equal(start.AddDate(0, 12, 0)) {
		t.Errorf("expected end date %s, got %s", start.AddDate(0, 12, 0), plan.EndDate)
	}

	prev := start
	for i, inst := range plan.Installments {
		if inst.Number != i+1 {
			t.Errorf("installment %d numbered %d", i, inst.Number)
		}
		if !inst.Amount.Equal(plan.EMI) {
			t.Errorf("installment %d amount %s, expected %s", i, inst.Amount, plan.EMI)
		}
		if !inst.DueDate.Equal(start.AddDate(0, i+1, 0)) {
			t.Errorf("installment %d due %s, expected %s", i, inst.DueDate, start.AddDate(0, i+1, 0))
		}
		if !inst.DueDate.After(prev) {
			t.Errorf("installment %d due date not increasing", i)
		}
		if !inst.Interest.Add(inst.Principal).Equal(inst.Amount) {
			t.Errorf("installment %d interest+principal != amount", i)
		}
		prev = inst.DueDate
	}

	first := plan.Installments[0]
	if !first.Interest.Equal(decimal.NewFromInt(120)) {
		t.Errorf("expected first month interest 120, got %s", first.Interest)
	}

	last := plan.Installments[len(plan.Installments)-1]
	if last.Remaining.GreaterThan(decimal.NewFromInt(1)) {
		t.Errorf("expected schedule to amortize the principal, %s remaining", last.Remaining)
	}
}

func TestAmortize_ZeroRate(t *testing.T) {
	plan, err := Amortize(LoanTerms{
		Principal:  decimal.NewFromInt(12000),
		AnnualRate: decimal.Zero,
		TermMonths: 12,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !plan.EMI.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected EMI 1000, got %s", plan.EMI)
	}

	if !plan.TotalPayable.Equal(decimal.NewFromInt(12000)) {
		t.Errorf("expected total payable 12000, got %s", plan.TotalPayable)
	}

	for _, inst := range plan.Installments {
		if !inst.Interest.IsZero() {
			t.Errorf("expected no interest, got %s", inst.Interest)
		}
	}
}

func TestMonthlyRate(t *testing.T) {
	got := MonthlyRate(decimal.RequireFromString("0.12"))
	if !got.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("expected 0.01, got %s", got)
	}
}

func TestAmortize_TotalPayableOutOfRange(t *testing.T) {
	_, err := Amortize(LoanTerms{
		Principal:  decimal.RequireFromString(MaxLoanPrincipal),
		AnnualRate: decimal.RequireFromString(MaxAnnualRate),
		TermMonths: MaxLoanTermMonths,
	}, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))

	if !errors.Is(err, ErrInvalidLoanTerms) {
		t.Fatalf("expected ErrInvalidLoanTerms, got %v", err)
	}
}
