package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/iho/gobank/internal/usecase"
)

// TxManager implements usecase.TransactionManager on top of gorm.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	return &Tx{db: tx}, nil
}

// Tx wraps a gorm transaction.
type Tx struct {
	db   *gorm.DB
	done bool
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	t.done = true
	return t.db.Commit().Error
}

// Rollback rolls back the transaction. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	return t.db.Rollback().Error
}

// txDB returns the gorm handle bound to the transaction behind tx.
func txDB(ctx context.Context, tx usecase.Transaction) *gorm.DB {
	return tx.(*Tx).db.WithContext(ctx)
}
