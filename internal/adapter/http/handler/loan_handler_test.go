package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

type loanServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	getFn    func(ctx context.Context, id string) (*domain.Loan, error)
	listFn   func(ctx context.Context, customerID string) ([]*domain.Loan, error)
}

func (s *loanServiceStub) CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error) {
	return s.createFn(ctx, input)
}

func (s *loanServiceStub) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return s.getFn(ctx, id)
}

func (s *loanServiceStub) ListLoans(ctx context.Context, customerID string) ([]*domain.Loan, error) {
	return s.listFn(ctx, customerID)
}

type paymentServiceStub struct {
	makeFn func(ctx context.Context, input usecase.MakePaymentInput) (*usecase.MakePaymentResult, error)
	listFn func(ctx context.Context, loanID string) ([]*domain.LoanPayment, error)
}

func (s *paymentServiceStub) MakePayment(ctx context.Context, input usecase.MakePaymentInput) (*usecase.MakePaymentResult, error) {
	return s.makeFn(ctx, input)
}

func (s *paymentServiceStub) ListPayments(ctx context.Context, loanID string) ([]*domain.LoanPayment, error) {
	return s.listFn(ctx, loanID)
}

func sampleLoan(id string) *domain.Loan {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Loan{
		ID:           id,
		CustomerID:   "cust-1",
		Principal:    decimal.NewFromInt(3000),
		InterestRate: decimal.RequireFromString("0.06"),
		TermMonths:   3,
		EMI:          decimal.RequireFromString("1010.02"),
		TotalPayable: decimal.RequireFromString("3030.06"),
		Status:       domain.LoanStatusApproved,
		StartDate:    start,
		EndDate:      start.AddDate(0, 3, 0),
		Payments: []*domain.LoanPayment{
			{ID: "p1", LoanID: id, Amount: decimal.RequireFromString("1010.02"), DueDate: start.AddDate(0, 1, 0), Status: domain.PaymentStatusPending},
		},
	}
}

func TestLoanHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		customer   string
		body       string
		err        error
		wantStatus int
	}{
		{name: "success", customer: "cust-1", body: `{"principal":"3000","interest_rate":"0.06","term_months":3}`, wantStatus: http.StatusCreated},
		{name: "interest free", customer: "cust-1", body: `{"principal":"3000","interest_rate":"0","term_months":3}`, wantStatus: http.StatusCreated},
		{name: "no customer", body: `{"principal":"3000","interest_rate":"0.06","term_months":3}`, wantStatus: http.StatusUnauthorized},
		{name: "zero term", customer: "cust-1", body: `{"principal":"3000","interest_rate":"0.06","term_months":0}`, wantStatus: http.StatusBadRequest},
		{name: "zero principal", customer: "cust-1", body: `{"principal":"0","interest_rate":"0.06","term_months":3}`, wantStatus: http.StatusBadRequest},
		{
			name:       "rejected by engine",
			customer:   "cust-1",
			body:       `{"principal":"3000","interest_rate":"0.06","term_months":3}`,
			err:        domain.ErrInvalidLoanTerms,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured usecase.CreateLoanInput
			h := NewLoanHandler(&loanServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error) {
					captured = input
					if tt.err != nil {
						return nil, tt.err
					}
					return sampleLoan("loan-1"), nil
				},
			}, &paymentServiceStub{}, nil)

			rec := httptest.NewRecorder()
			h.Create(rec, newRequest(http.MethodPost, "/api/v1/loans", tt.body, tt.customer, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus == http.StatusCreated {
				if captured.CustomerID != "cust-1" || captured.TermMonths != 3 {
					t.Fatalf("unexpected loan input %+v", captured)
				}
				var resp dto.LoanResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.EMI != "1010.02" || len(resp.Payments) != 1 {
					t.Fatalf("unexpected loan response %+v", resp)
				}
			}
		})
	}
}

func TestLoanHandler_GetAndList(t *testing.T) {
	h := NewLoanHandler(&loanServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			if id == "loan-1" {
				return sampleLoan(id), nil
			}
			return nil, domain.ErrLoanNotFound
		},
		listFn: func(ctx context.Context, customerID string) ([]*domain.Loan, error) {
			if customerID != "cust-1" {
				return nil, nil
			}
			return []*domain.Loan{sampleLoan("loan-1"), sampleLoan("loan-2")}, nil
		},
	}, &paymentServiceStub{}, nil)

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/api/v1/loans/loan-1", "", "", map[string]string{"id": "loan-1"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/api/v1/loans/missing", "", "", map[string]string{"id": "missing"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/v1/loans", "", "cust-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var loans []dto.LoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &loans); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(loans) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(loans))
	}

	rec = httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/v1/loans", "", "", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a customer, got %d", rec.Code)
	}
}

func TestLoanHandler_Payments(t *testing.T) {
	h := NewLoanHandler(&loanServiceStub{}, &paymentServiceStub{
		listFn: func(ctx context.Context, loanID string) ([]*domain.LoanPayment, error) {
			if loanID != "loan-1" {
				return nil, domain.ErrLoanNotFound
			}
			return sampleLoan(loanID).Payments, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Payments(rec, newRequest(http.MethodGet, "/api/v1/loans/loan-1/payments", "", "", map[string]string{"id": "loan-1"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Payments(rec, newRequest(http.MethodGet, "/api/v1/loans/x/payments", "", "", map[string]string{"id": "x"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLoanHandler_Repay(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "success", body: `{"payment_id":"p1"}`, wantStatus: http.StatusOK},
		{name: "missing payment id", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "payment not found", body: `{"payment_id":"nope"}`, err: domain.ErrPaymentNotFound, wantStatus: http.StatusNotFound},
		{name: "already paid", body: `{"payment_id":"p1"}`, err: domain.ErrAlreadyPaid, wantStatus: http.StatusConflict},
		{name: "loan mismatch", body: `{"payment_id":"p9"}`, err: domain.ErrPaymentLoanMismatch, wantStatus: http.StatusUnprocessableEntity},
		{name: "loan not active", body: `{"payment_id":"p1"}`, err: domain.ErrLoanNotActive, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured usecase.MakePaymentInput
			retrier := &countingRetrier{}
			h := NewLoanHandler(&loanServiceStub{}, &paymentServiceStub{
				makeFn: func(ctx context.Context, input usecase.MakePaymentInput) (*usecase.MakePaymentResult, error) {
					captured = input
					if tt.err != nil {
						return nil, tt.err
					}
					loan := sampleLoan(input.LoanID)
					payment := loan.Payments[0]
					now := time.Now()
					payment.Status = domain.PaymentStatusPaid
					payment.PaidDate = &now
					return &usecase.MakePaymentResult{Payment: payment, Loan: loan, PaidCount: 1}, nil
				},
			}, retrier)

			rec := httptest.NewRecorder()
			h.Repay(rec, newRequest(http.MethodPost, "/api/v1/loans/loan-1/repay", tt.body, "", map[string]string{"id": "loan-1"}))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			if captured.LoanID != "loan-1" || captured.PaymentID != "p1" {
				t.Fatalf("unexpected payment input %+v", captured)
			}
			if retrier.calls != 1 {
				t.Fatalf("expected repayment to run through the retrier")
			}
			var resp dto.RepayLoanResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.PaidCount != 1 || resp.Payment.Status != "paid" || resp.LoanStatus != "approved" {
				t.Fatalf("unexpected repay response %+v", resp)
			}
		})
	}
}
