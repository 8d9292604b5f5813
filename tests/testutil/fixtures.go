package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/adapter/repository/postgres"
	"github.com/iho/gobank/internal/domain"
	pginfra "github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/usecase"
)

// TestDB provides a migrated PostgreSQL database for integration tests.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to DATABASE_URL and applies migrations. The test is skipped when
// DATABASE_URL is unset or -short is given.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := pginfra.RunMigrations(dbURL, migrationsPath(t), zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, dbURL, 20, 1)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestDB{Pool: pool, t: t}
}

// migrationsPath walks up from the working directory to the repository's migrations dir.
func migrationsPath(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("migrations directory not found")
		}
		dir = parent
	}
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE transactions, loan_payments, loans, accounts, outbox_events CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Engine wires the use cases over the PostgreSQL repositories.
type Engine struct {
	Accounts  *usecase.AccountUseCase
	Transfers *usecase.TransferUseCase
	Loans     *usecase.LoanUseCase
	Payments  *usecase.PaymentUseCase
	Ledger    *usecase.LedgerUseCase

	AccountRepo *postgres.AccountRepository
	OutboxRepo  *postgres.OutboxRepository
	Retrier     *postgres.Retrier

	t *testing.T
}

// NewEngine builds an Engine on db.
func (db *TestDB) NewEngine() *Engine {
	pool := db.Pool
	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	paymentRepo := postgres.NewLoanPaymentRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()

	return &Engine{
		Accounts:    usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, idGen, nil),
		Transfers:   usecase.NewTransferUseCase(txManager, accountRepo, txnRepo, outboxRepo, idGen, nil),
		Loans:       usecase.NewLoanUseCase(txManager, loanRepo, paymentRepo, outboxRepo, idGen, nil, nil),
		Payments:    usecase.NewPaymentUseCase(txManager, loanRepo, paymentRepo, accountRepo, txnRepo, outboxRepo, idGen, nil),
		Ledger:      usecase.NewLedgerUseCase(postgres.NewLedgerRepository(pool)),
		AccountRepo: accountRepo,
		OutboxRepo:  outboxRepo,
		Retrier:     postgres.NewRetrier(),
		t:           db.t,
	}
}

// OpenAccount creates an account in currency funded with balance through a deposit.
func (e *Engine) OpenAccount(ctx context.Context, customerID, currency string, balance decimal.Decimal) *domain.Account {
	e.t.Helper()

	account, err := e.Accounts.CreateAccount(ctx, usecase.CreateAccountInput{
		CustomerID: customerID,
		Currency:   currency,
	})
	if err != nil {
		e.t.Fatalf("failed to create account: %v", err)
	}

	if balance.IsPositive() {
		if _, err := e.Transfers.Deposit(ctx, usecase.DepositInput{AccountID: account.ID, Amount: balance}); err != nil {
			e.t.Fatalf("failed to fund account: %v", err)
		}
		account.Balance = balance
	}

	return account
}

// Balance reads the current balance of an account.
func (e *Engine) Balance(ctx context.Context, accountID string) decimal.Decimal {
	e.t.Helper()

	account, err := e.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		e.t.Fatalf("failed to load account %s: %v", accountID, err)
	}
	return account.Balance
}

// RequireConsistent fails the test unless the ledger balances.
func (e *Engine) RequireConsistent(ctx context.Context) *usecase.ConsistencyReport {
	e.t.Helper()

	report, err := e.Ledger.CheckConsistency(ctx)
	if err != nil {
		e.t.Fatalf("ledger inconsistent: %v (report %+v)", err, report)
	}
	return report
}
