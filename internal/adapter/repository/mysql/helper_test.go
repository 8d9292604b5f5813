package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// newTestDB opens a private in-memory SQLite database. A single connection keeps
// every statement on the same database and serializes transactions the way row locks would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func withTx(t *testing.T, db *gorm.DB, fn func(tx usecase.Transaction)) {
	t.Helper()
	ctx := context.Background()

	tx, err := NewTxManager(db).Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	fn(tx)
	require.NoError(t, tx.Commit(ctx))
}

func seedAccount(t *testing.T, db *gorm.DB, id, customerID string, balance int64) *domain.Account {
	t.Helper()
	now := time.Now().UTC()
	account := &domain.Account{
		ID:         id,
		CustomerID: customerID,
		Currency:   domain.DefaultCurrency,
		Balance:    decimal.NewFromInt(balance),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	withTx(t, db, func(tx usecase.Transaction) {
		require.NoError(t, NewAccountRepository(db).Create(context.Background(), tx, account))
	})
	return account
}
