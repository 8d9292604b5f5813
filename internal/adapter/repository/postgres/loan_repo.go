package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	queries *generated.Queries
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(db generated.DBTX) *LoanRepository {
	return &LoanRepository{queries: generated.New(db)}
}

// Create inserts a loan.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	return txQueries(tx).CreateLoan(ctx, generated.CreateLoanParams{
		ID:           loan.ID,
		CustomerID:   loan.CustomerID,
		BranchID:     loan.BranchID,
		Principal:    decimalToNumeric(loan.Principal),
		InterestRate: decimalToNumeric(loan.InterestRate),
		TermMonths:   int32(loan.TermMonths),
		Emi:          decimalToNumeric(loan.EMI),
		TotalPayable: decimalToNumeric(loan.TotalPayable),
		Status:       string(loan.Status),
		StartDate:    timeToPgTimestamptz(loan.StartDate),
		EndDate:      timeToPgTimestamptz(loan.EndDate),
		CreatedAt:    timeToPgTimestamptz(loan.CreatedAt),
	})
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	row, err := r.queries.GetLoanByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	return rowToLoan(row), nil
}

// GetByIDForUpdate retrieves a loan by ID with a FOR UPDATE lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	row, err := txQueries(tx).GetLoanByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	return rowToLoan(row), nil
}

// ListByCustomer lists a customer's loans, oldest first.
func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Loan, error) {
	rows, err := r.queries.ListLoansByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	loans := make([]*domain.Loan, 0, len(rows))
	for _, row := range rows {
		loans = append(loans, rowToLoan(row))
	}

	return loans, nil
}

// UpdateStatus moves a loan from one status to another.
func (r *LoanRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, from, to domain.LoanStatus) (bool, error) {
	affected, err := txQueries(tx).UpdateLoanStatus(ctx, generated.UpdateLoanStatusParams{
		ID:       id,
		Status:   string(from),
		Status_2: string(to),
	})
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func rowToLoan(row generated.Loan) *domain.Loan {
	return &domain.Loan{
		ID:           row.ID,
		CustomerID:   row.CustomerID,
		BranchID:     row.BranchID,
		Principal:    numericToDecimal(row.Principal),
		InterestRate: numericToDecimal(row.InterestRate),
		TermMonths:   int(row.TermMonths),
		EMI:          numericToDecimal(row.Emi),
		TotalPayable: numericToDecimal(row.TotalPayable),
		Status:       domain.LoanStatus(row.Status),
		StartDate:    row.StartDate.Time,
		EndDate:      row.EndDate.Time,
		CreatedAt:    row.CreatedAt.Time,
	}
}
