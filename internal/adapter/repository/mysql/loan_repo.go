package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// Create creates a new loan. The schedule is written by LoanPaymentRepository.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	return txDB(ctx, tx).Create(&loanModel{
		ID:           loan.ID,
		CustomerID:   loan.CustomerID,
		BranchID:     loan.BranchID,
		Principal:    loan.Principal,
		InterestRate: loan.InterestRate,
		TermMonths:   loan.TermMonths,
		EMI:          loan.EMI,
		TotalPayable: loan.TotalPayable,
		Status:       string(loan.Status),
		StartDate:    loan.StartDate,
		EndDate:      loan.EndDate,
		CreatedAt:    loan.CreatedAt,
	}).Error
}

// GetByID retrieves a loan without its schedule.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	return findLoan(r.db.WithContext(ctx), id)
}

// GetByIDForUpdate retrieves a loan with a FOR UPDATE lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	return findLoan(txDB(ctx, tx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func findLoan(db *gorm.DB, id string) (*domain.Loan, error) {
	var m loanModel
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	return modelToLoan(m), nil
}

// ListByCustomer lists a customer's loans, oldest first.
func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Loan, error) {
	var rows []loanModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	loans := make([]*domain.Loan, 0, len(rows))
	for _, m := range rows {
		loans = append(loans, modelToLoan(m))
	}

	return loans, nil
}

// UpdateStatus moves a loan from one status to another.
func (r *LoanRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, from, to domain.LoanStatus) (bool, error) {
	res := txDB(ctx, tx).Model(&loanModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}

func modelToLoan(m loanModel) *domain.Loan {
	return &domain.Loan{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		BranchID:     m.BranchID,
		Principal:    m.Principal,
		InterestRate: m.InterestRate,
		TermMonths:   m.TermMonths,
		EMI:          m.EMI,
		TotalPayable: m.TotalPayable,
		Status:       domain.LoanStatus(m.Status),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		CreatedAt:    m.CreatedAt,
	}
}
