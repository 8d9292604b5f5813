package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// ConsistencyReport is the outcome of a ledger consistency check.
type ConsistencyReport struct {
	TotalBalance    decimal.Decimal
	TotalDeposits   decimal.Decimal
	TotalRepayments decimal.Decimal
	Consistent      bool
}

// CheckConsistency verifies that money is only created by deposits and only leaves through
// loan repayments: Σ balances = Σ deposits − Σ repayments. Transfers move money without
// changing the total.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totals, err := uc.ledgerRepo.Totals(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	report := &ConsistencyReport{
		TotalBalance:    totals.Balances,
		TotalDeposits:   totals.Deposits,
		TotalRepayments: totals.Repayments,
	}

	expected := totals.Deposits.Sub(totals.Repayments)
	if !totals.Balances.Equal(expected) || totals.Balances.IsNegative() {
		return report, domain.ErrInconsistentLedger
	}

	report.Consistent = true
	return report, nil
}
