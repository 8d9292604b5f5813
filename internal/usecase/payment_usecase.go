package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// PaymentUseCase applies scheduled installments to loans.
type PaymentUseCase struct {
	txManager   TransactionManager
	loanRepo    LoanRepository
	paymentRepo LoanPaymentRepository
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	paymentRepo LoanPaymentRepository,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:   txManager,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// MakePaymentInput represents input for paying one installment.
type MakePaymentInput struct {
	LoanID    string
	PaymentID string
	// FromAccountID optionally names the account the installment is debited from.
	FromAccountID string
}

// MakePaymentResult is the state after an installment has been paid.
type MakePaymentResult struct {
	Payment     *domain.LoanPayment
	Loan        *domain.Loan
	Transaction *domain.Transaction
	PaidCount   int
}

// MakePayment marks one installment paid and closes the loan once every installment is paid.
func (uc *PaymentUseCase) MakePayment(ctx context.Context, input MakePaymentInput) (*MakePaymentResult, error) {
	result, err := uc.makePayment(ctx, input)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.LoanErrors.WithLabelValues(errorLabel(err)).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsMade.Inc()
		if result.Loan.Status == domain.LoanStatusRepaid {
			uc.metrics.LoansRepaid.Inc()
		}
	}

	return result, nil
}

func (uc *PaymentUseCase) makePayment(ctx context.Context, input MakePaymentInput) (*MakePaymentResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, storageErr(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock the loan before the installment so the completion check sees every
	// concurrent payment on this loan.
	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, input.LoanID)
	if err != nil && !errors.Is(err, domain.ErrLoanNotFound) {
		return nil, storageErr(err)
	}

	payment, err := uc.paymentRepo.GetByIDForUpdate(txCtx, tx, input.PaymentID)
	if err != nil {
		return nil, storageErr(err)
	}

	if err := payment.ValidatePayable(input.LoanID); err != nil {
		return nil, err
	}

	// The installment references input.LoanID, so a missing loan means its row vanished.
	if loan == nil {
		return nil, domain.ErrLoanNotFound
	}

	if !loan.AcceptsPayments() {
		return nil, domain.ErrLoanNotActive
	}

	now := time.Now().UTC()
	result := &MakePaymentResult{Payment: payment, Loan: loan}

	if input.FromAccountID != "" {
		txn, err := uc.debitFundingAccount(txCtx, tx, input.FromAccountID, payment, now)
		if err != nil {
			return nil, err
		}
		result.Transaction = txn
	}

	updated, err := uc.paymentRepo.MarkPaid(txCtx, tx, payment.ID, now)
	if err != nil {
		return nil, storageErr(err)
	}
	if !updated {
		return nil, domain.ErrAlreadyPaid
	}
	payment.Status = domain.PaymentStatusPaid
	payment.PaidDate = &now

	paidCount, err := uc.paymentRepo.CountPaid(txCtx, tx, loan.ID)
	if err != nil {
		return nil, storageErr(err)
	}
	result.PaidCount = paidCount

	if err := uc.emit(txCtx, tx, payment.ID, domain.AggregateTypeLoanPayment, domain.EventTypePaymentPaid,
		domain.PaymentPaidPayload(payment, paidCount), now); err != nil {
		return nil, err
	}

	if loan.IsRepaidBy(paidCount) {
		moved, err := uc.loanRepo.UpdateStatus(txCtx, tx, loan.ID, domain.LoanStatusApproved, domain.LoanStatusRepaid)
		if err != nil {
			return nil, storageErr(err)
		}
		if moved {
			loan.Status = domain.LoanStatusRepaid
			if err := uc.emit(txCtx, tx, loan.ID, domain.AggregateTypeLoan, domain.EventTypeLoanRepaid,
				domain.LoanRepaidPayload(loan), now); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, storageErr(err)
	}

	return result, nil
}

func (uc *PaymentUseCase) debitFundingAccount(
	ctx context.Context,
	tx Transaction,
	accountID string,
	payment *domain.LoanPayment,
	now time.Time,
) (*domain.Transaction, error) {
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, storageErr(err)
	}

	if err := account.ValidateDebit(payment.Amount); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.AdjustBalance(ctx, tx, account.ID, payment.Amount.Neg(), now); err != nil {
		return nil, storageErr(err)
	}

	fromID, paymentID := account.ID, payment.ID
	txn := &domain.Transaction{
		ID:            uc.idGen.Generate(),
		FromAccountID: &fromID,
		LoanPaymentID: &paymentID,
		Amount:        payment.Amount,
		CreatedAt:     now,
	}
	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, storageErr(err)
	}

	return txn, nil
}

func (uc *PaymentUseCase) emit(
	ctx context.Context,
	tx Transaction,
	aggregateID, aggregateType, eventType string,
	payload map[string]any,
	now time.Time,
) error {
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	}
	return storageErr(uc.outboxRepo.Create(ctx, tx, event))
}

// ListPayments returns a loan's installments ordered by due date ascending.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, loanID string) ([]*domain.LoanPayment, error) {
	if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, storageErr(err)
	}

	payments, err := uc.paymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, storageErr(err)
	}
	return payments, nil
}
