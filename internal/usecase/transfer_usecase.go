package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// TransferUseCase moves money between accounts and into accounts.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// TransferInput represents input for a transfer between two accounts.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

// Transfer debits FromAccountID and credits ToAccountID by Amount in one unit of work.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Transaction, error) {
	txn, err := uc.transfer(ctx, input)
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Inc()
		uc.metrics.TransferAmount.Observe(input.Amount.InexactFloat64())
	}

	return txn, nil
}

func (uc *TransferUseCase) transfer(ctx context.Context, input TransferInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, storageErr(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock both rows in ascending id order so opposite-direction transfers cannot deadlock.
	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	locked, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		return nil, storageErr(err)
	}

	accounts := make(map[string]*domain.Account, len(locked))
	for _, acc := range locked {
		accounts[acc.ID] = acc
	}

	from, ok := accounts[input.FromAccountID]
	if !ok {
		return nil, domain.ErrSourceNotFound
	}
	if err := from.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	to, ok := accounts[input.ToAccountID]
	if !ok {
		return nil, domain.ErrDestinationNotFound
	}
	if from.Currency != to.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	now := time.Now().UTC()

	if err := uc.accountRepo.AdjustBalance(txCtx, tx, from.ID, input.Amount.Neg(), now); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrSourceNotFound
		}
		return nil, storageErr(err)
	}

	if err := uc.accountRepo.AdjustBalance(txCtx, tx, to.ID, input.Amount, now); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrDestinationNotFound
		}
		return nil, storageErr(err)
	}

	fromID, toID := from.ID, to.ID
	txn := &domain.Transaction{
		ID:            uc.idGen.Generate(),
		FromAccountID: &fromID,
		ToAccountID:   &toID,
		Amount:        input.Amount,
		CreatedAt:     now,
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, storageErr(err)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransferCreated,
		Payload:       domain.TransferCreatedPayload(txn, from.Currency),
		CreatedAt:     now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, storageErr(err)
	}

	return txn, nil
}

// DepositInput represents input for crediting an account from outside the ledger.
type DepositInput struct {
	AccountID string
	Amount    decimal.Decimal
}

// Deposit credits an account and records a Transaction with no source side.
func (uc *TransferUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, storageErr(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, storageErr(err)
	}

	now := time.Now().UTC()

	if err := uc.accountRepo.AdjustBalance(txCtx, tx, account.ID, input.Amount, now); err != nil {
		return nil, storageErr(err)
	}

	toID := account.ID
	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		ToAccountID: &toID,
		Amount:      input.Amount,
		CreatedAt:   now,
	}
	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, storageErr(err)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeDepositCreated,
		Payload:       domain.DepositCreatedPayload(txn, account.Currency),
		CreatedAt:     now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, storageErr(err)
	}

	if uc.metrics != nil {
		uc.metrics.DepositsCreated.Inc()
	}

	return txn, nil
}

// GetStatements returns the most recent transactions on either side of accountID, newest first.
func (uc *TransferUseCase) GetStatements(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, storageErr(err)
	}

	txns, err := uc.txnRepo.ListByAccount(ctx, accountID, StatementLimit)
	if err != nil {
		return nil, storageErr(err)
	}

	if len(txns) > StatementLimit {
		txns = txns[:StatementLimit]
	}

	return txns, nil
}

func (uc *TransferUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.TransferErrors.WithLabelValues(errorLabel(err)).Inc()
}
