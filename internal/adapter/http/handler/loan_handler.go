package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// LoanService defines the loan operations needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, customerID string) ([]*domain.Loan, error)
}

// PaymentService defines the installment operations needed by LoanHandler.
type PaymentService interface {
	MakePayment(ctx context.Context, input usecase.MakePaymentInput) (*usecase.MakePaymentResult, error)
	ListPayments(ctx context.Context, loanID string) ([]*domain.LoanPayment, error)
}

// LoanHandler handles loan requests.
type LoanHandler struct {
	loanUC    LoanService
	paymentUC PaymentService
	retrier   Retrier
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService, paymentUC PaymentService, retrier Retrier) *LoanHandler {
	return &LoanHandler{
		loanUC:    loanUC,
		paymentUC: paymentUC,
		retrier:   retrierOrDefault(retrier),
	}
}

// Create applies for a loan on behalf of the calling customer.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	customerID, ok := requireCustomer(w, r)
	if !ok {
		return
	}

	var req dto.CreateLoanRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), req.ToUseCaseInput(customerID))
	if err != nil {
		writeDomainError(w, "failed to create loan", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// List returns the calling customer's loans with their schedules.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := requireCustomer(w, r)
	if !ok {
		return
	}

	loans, err := h.loanUC.ListLoans(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, "failed to list loans", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoansFromDomain(loans))
}

// Get retrieves a loan with its schedule.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loanUC.GetLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Payments lists a loan's installments by due date.
func (h *LoanHandler) Payments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentUC.ListPayments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list payments", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanPaymentsFromDomain(payments))
}

// Repay pays one installment.
func (h *LoanHandler) Repay(w http.ResponseWriter, r *http.Request) {
	var req dto.RepayLoanRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	input := req.ToUseCaseInput(chi.URLParam(r, "id"))

	var result *usecase.MakePaymentResult
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		result, err = h.paymentUC.MakePayment(r.Context(), input)
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to repay loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RepayLoanFromResult(result))
}
