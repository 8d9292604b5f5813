package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/iho/gobank/internal/usecase"
)

const ledgerTotalsQuery = `SELECT
    (SELECT COALESCE(SUM(balance), 0) FROM accounts) AS total_balance,
    (SELECT COALESCE(SUM(amount), 0) FROM transactions
        WHERE from_account_id IS NULL AND to_account_id IS NOT NULL) AS total_deposits,
    (SELECT COALESCE(SUM(amount), 0) FROM transactions
        WHERE from_account_id IS NOT NULL AND to_account_id IS NULL AND loan_payment_id IS NOT NULL) AS total_repayments`

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

type ledgerTotalsRow struct {
	TotalBalance    decimal.Decimal
	TotalDeposits   decimal.Decimal
	TotalRepayments decimal.Decimal
}

// Totals returns the ledger-wide sums.
func (r *LedgerRepository) Totals(ctx context.Context) (*usecase.LedgerTotals, error) {
	var row ledgerTotalsRow
	if err := r.db.WithContext(ctx).Raw(ledgerTotalsQuery).Scan(&row).Error; err != nil {
		return nil, err
	}

	return &usecase.LedgerTotals{
		Balances:   row.TotalBalance.Round(moneyPlaces),
		Deposits:   row.TotalDeposits.Round(moneyPlaces),
		Repayments: row.TotalRepayments.Round(moneyPlaces),
	}, nil
}
