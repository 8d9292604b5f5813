package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// LoanPaymentRepository implements usecase.LoanPaymentRepository.
type LoanPaymentRepository struct {
	queries *generated.Queries
}

// NewLoanPaymentRepository creates a new LoanPaymentRepository.
func NewLoanPaymentRepository(db generated.DBTX) *LoanPaymentRepository {
	return &LoanPaymentRepository{queries: generated.New(db)}
}

// CreateBatch copies a whole schedule in one round trip.
func (r *LoanPaymentRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, payments []*domain.LoanPayment) error {
	params := make([]generated.CreateLoanPaymentsParams, 0, len(payments))
	for _, p := range payments {
		params = append(params, generated.CreateLoanPaymentsParams{
			ID:        p.ID,
			LoanID:    p.LoanID,
			Amount:    decimalToNumeric(p.Amount),
			DueDate:   timeToPgTimestamptz(p.DueDate),
			Status:    string(p.Status),
			CreatedAt: timeToPgTimestamptz(p.CreatedAt),
		})
	}

	copied, err := txQueries(tx).CreateLoanPayments(ctx, params)
	if err != nil {
		return err
	}
	if copied != int64(len(params)) {
		return fmt.Errorf("copied %d of %d loan payments", copied, len(params))
	}

	return nil
}

// GetByIDForUpdate retrieves an installment with a FOR UPDATE lock.
func (r *LoanPaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LoanPayment, error) {
	row, err := txQueries(tx).GetLoanPaymentByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	return rowToLoanPayment(row), nil
}

// MarkPaid marks an unpaid installment paid.
func (r *LoanPaymentRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, id string, paidAt time.Time) (bool, error) {
	affected, err := txQueries(tx).MarkLoanPaymentPaid(ctx, generated.MarkLoanPaymentPaidParams{
		ID:       id,
		PaidDate: timeToPgTimestamptz(paidAt),
	})
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

// CountPaid counts a loan's paid installments.
func (r *LoanPaymentRepository) CountPaid(ctx context.Context, tx usecase.Transaction, loanID string) (int, error) {
	count, err := txQueries(tx).CountPaidLoanPayments(ctx, loanID)
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// ListByLoan returns a loan's schedule ordered by due date.
func (r *LoanPaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanPayment, error) {
	rows, err := r.queries.ListLoanPaymentsByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	return rowsToLoanPayments(rows), nil
}

// ListByLoanIDs returns the schedules of several loans, grouped by loan and ordered by due date.
func (r *LoanPaymentRepository) ListByLoanIDs(ctx context.Context, loanIDs []string) ([]*domain.LoanPayment, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}

	rows, err := r.queries.ListLoanPaymentsByLoanIDs(ctx, loanIDs)
	if err != nil {
		return nil, err
	}

	return rowsToLoanPayments(rows), nil
}

func rowsToLoanPayments(rows []generated.LoanPayment) []*domain.LoanPayment {
	payments := make([]*domain.LoanPayment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, rowToLoanPayment(row))
	}
	return payments
}

func rowToLoanPayment(row generated.LoanPayment) *domain.LoanPayment {
	return &domain.LoanPayment{
		ID:        row.ID,
		LoanID:    row.LoanID,
		Amount:    numericToDecimal(row.Amount),
		DueDate:   row.DueDate.Time,
		PaidDate:  pgTimestamptzToTimePtr(row.PaidDate),
		Status:    domain.PaymentStatus(row.Status),
		CreatedAt: row.CreatedAt.Time,
	}
}
