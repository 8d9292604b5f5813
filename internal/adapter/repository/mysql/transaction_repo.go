package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	return txDB(ctx, tx).Create(&transactionModel{
		ID:            txn.ID,
		FromAccountID: txn.FromAccountID,
		ToAccountID:   txn.ToAccountID,
		LoanPaymentID: txn.LoanPaymentID,
		BeneficiaryID: txn.BeneficiaryID,
		Amount:        txn.Amount,
		CreatedAt:     txn.CreatedAt,
	}).Error
}

// ListByAccount returns transactions on either side of accountID, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Transaction, error) {
	var rows []transactionModel
	err := r.db.WithContext(ctx).
		Where("from_account_id = ? OR to_account_id = ?", accountID, accountID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	txns := make([]*domain.Transaction, 0, len(rows))
	for _, m := range rows {
		txns = append(txns, &domain.Transaction{
			ID:            m.ID,
			FromAccountID: m.FromAccountID,
			ToAccountID:   m.ToAccountID,
			LoanPaymentID: m.LoanPaymentID,
			BeneficiaryID: m.BeneficiaryID,
			Amount:        m.Amount,
			CreatedAt:     m.CreatedAt,
		})
	}

	return txns, nil
}
