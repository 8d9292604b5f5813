package postgres

import (
	"context"

	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Totals returns the ledger-wide sums compared by the consistency check.
func (r *LedgerRepository) Totals(ctx context.Context) (*usecase.LedgerTotals, error) {
	row, err := r.queries.LedgerTotals(ctx)
	if err != nil {
		return nil, err
	}

	return &usecase.LedgerTotals{
		Balances:   numericToDecimal(row.TotalBalance),
		Deposits:   numericToDecimal(row.TotalDeposits),
		Repayments: numericToDecimal(row.TotalRepayments),
	}, nil
}
