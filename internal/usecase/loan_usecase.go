package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// LoanUseCase creates loans together with their amortization schedules.
type LoanUseCase struct {
	txManager   TransactionManager
	loanRepo    LoanRepository
	paymentRepo LoanPaymentRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	policy      ApprovalPolicy
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewLoanUseCase creates a new LoanUseCase. A nil policy auto-approves every loan.
func NewLoanUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	paymentRepo LoanPaymentRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	policy ApprovalPolicy,
	m *metrics.Metrics,
) *LoanUseCase {
	if policy == nil {
		policy = AutoApprove{}
	}
	return &LoanUseCase{
		txManager:   txManager,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		policy:      policy,
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateLoanInput represents input for creating a loan.
type CreateLoanInput struct {
	CustomerID string
	BranchID   string
	Principal  decimal.Decimal
	AnnualRate decimal.Decimal
	TermMonths int
}

// CreateLoan persists a loan and its full schedule of pending installments in one unit of work.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	loan, err := uc.createLoan(ctx, input)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.LoanErrors.WithLabelValues(errorLabel(err)).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansCreated.WithLabelValues(string(loan.Status)).Inc()
		uc.metrics.LoanPrincipal.Observe(loan.Principal.InexactFloat64())
	}

	return loan, nil
}

func (uc *LoanUseCase) createLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	now := uc.now()

	plan, err := domain.Amortize(domain.LoanTerms{
		Principal:  input.Principal,
		AnnualRate: input.AnnualRate,
		TermMonths: input.TermMonths,
	}, now)
	if err != nil {
		return nil, err
	}

	loan := &domain.Loan{
		ID:           uc.idGen.Generate(),
		CustomerID:   input.CustomerID,
		BranchID:     input.BranchID,
		Principal:    input.Principal,
		InterestRate: input.AnnualRate,
		TermMonths:   input.TermMonths,
		EMI:          plan.EMI,
		TotalPayable: plan.TotalPayable,
		Status:       domain.LoanStatusPending,
		StartDate:    plan.StartDate,
		EndDate:      plan.EndDate,
		CreatedAt:    now,
	}

	status, err := uc.policy.Decide(ctx, loan)
	if err != nil {
		return nil, err
	}
	loan.Status = status

	payments := make([]*domain.LoanPayment, 0, len(plan.Installments))
	for _, inst := range plan.Installments {
		payments = append(payments, &domain.LoanPayment{
			ID:        uc.idGen.Generate(),
			LoanID:    loan.ID,
			Amount:    inst.Amount,
			DueDate:   inst.DueDate,
			Status:    domain.PaymentStatusPending,
			CreatedAt: now,
		})
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, storageErr(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.loanRepo.Create(txCtx, tx, loan); err != nil {
		return nil, storageErr(err)
	}

	if err := uc.paymentRepo.CreateBatch(txCtx, tx, payments); err != nil {
		return nil, storageErr(err)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   loan.ID,
		AggregateType: domain.AggregateTypeLoan,
		EventType:     domain.EventTypeLoanCreated,
		Payload:       domain.LoanCreatedPayload(loan),
		CreatedAt:     now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, storageErr(err)
	}

	loan.Payments = payments
	return loan, nil
}

// GetLoan returns a loan with its schedule.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}

	payments, err := uc.paymentRepo.ListByLoan(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	loan.Payments = payments

	return loan, nil
}

// ListLoans returns a customer's loans with nested schedules.
func (uc *LoanUseCase) ListLoans(ctx context.Context, customerID string) ([]*domain.Loan, error) {
	loans, err := uc.loanRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, storageErr(err)
	}
	if len(loans) == 0 {
		return loans, nil
	}

	ids := make([]string, 0, len(loans))
	byID := make(map[string]*domain.Loan, len(loans))
	for _, l := range loans {
		ids = append(ids, l.ID)
		byID[l.ID] = l
		l.Payments = []*domain.LoanPayment{}
	}

	payments, err := uc.paymentRepo.ListByLoanIDs(ctx, ids)
	if err != nil {
		return nil, storageErr(err)
	}
	for _, p := range payments {
		if l, ok := byID[p.LoanID]; ok {
			l.Payments = append(l.Payments, p)
		}
	}

	return loans, nil
}

// PreviewSchedule computes an amortization without persisting anything.
func (uc *LoanUseCase) PreviewSchedule(terms domain.LoanTerms, start time.Time) (*domain.Amortization, error) {
	return domain.Amortize(terms, start)
}
