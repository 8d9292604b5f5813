package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// GetByIDsForUpdate locks the existing rows among ids in ascending id order.
	// Missing ids are silently absent from the result.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	// AdjustBalance applies balance = balance + delta only when the result stays non-negative.
	// It returns domain.ErrAccountNotFound or domain.ErrInsufficientFunds when no row is updated.
	AdjustBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for the append-only transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	// ListByAccount returns transactions on either side of accountID, newest first.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Transaction, error)
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Loan, error)
	// UpdateStatus moves a loan from one status to another. It reports false when the
	// loan was not in the expected status.
	UpdateStatus(ctx context.Context, tx Transaction, id string, from, to domain.LoanStatus) (bool, error)
}

// LoanPaymentRepository defines data access for scheduled installments.
type LoanPaymentRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, payments []*domain.LoanPayment) error
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.LoanPayment, error)
	// MarkPaid sets status paid and the paid date unless the installment is already paid.
	// It reports false when nothing changed.
	MarkPaid(ctx context.Context, tx Transaction, id string, paidAt time.Time) (bool, error)
	CountPaid(ctx context.Context, tx Transaction, loanID string) (int, error)
	// ListByLoan returns the schedule ordered by due date ascending.
	ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanPayment, error)
	ListByLoanIDs(ctx context.Context, loanIDs []string) ([]*domain.LoanPayment, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// Totals returns the sum of all account balances, of all deposits, and of all
	// loan repayments debited from accounts.
	Totals(ctx context.Context) (*LedgerTotals, error)
}

// LedgerTotals are the ledger-wide sums compared by CheckConsistency.
type LedgerTotals struct {
	Balances   decimal.Decimal
	Deposits   decimal.Decimal
	Repayments decimal.Decimal
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a unit of work.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ApprovalPolicy decides the initial status of a new loan.
type ApprovalPolicy interface {
	Decide(ctx context.Context, loan *domain.Loan) (domain.LoanStatus, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim so a failed request can be retried with the same key.
	Release(ctx context.Context, key string) error
}
