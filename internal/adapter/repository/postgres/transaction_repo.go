package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create appends a transaction to the log.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	return txQueries(tx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:            txn.ID,
		FromAccountID: stringPtrToText(txn.FromAccountID),
		ToAccountID:   stringPtrToText(txn.ToAccountID),
		LoanPaymentID: stringPtrToText(txn.LoanPaymentID),
		BeneficiaryID: stringPtrToText(txn.BeneficiaryID),
		Amount:        decimalToNumeric(txn.Amount),
		CreatedAt:     timeToPgTimestamptz(txn.CreatedAt),
	})
}

// ListByAccount returns the newest transactions touching accountID on either side.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
		FromAccountID: pgtype.Text{String: accountID, Valid: true},
		Limit:         int32(limit),
	})
	if err != nil {
		return nil, err
	}

	txns := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToTransaction(row))
	}

	return txns, nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:            row.ID,
		FromAccountID: textToStringPtr(row.FromAccountID),
		ToAccountID:   textToStringPtr(row.ToAccountID),
		LoanPaymentID: textToStringPtr(row.LoanPaymentID),
		BeneficiaryID: textToStringPtr(row.BeneficiaryID),
		Amount:        numericToDecimal(row.Amount),
		CreatedAt:     row.CreatedAt.Time,
	}
}
