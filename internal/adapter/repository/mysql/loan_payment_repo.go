package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

const paymentBatchSize = 100

// LoanPaymentRepository implements usecase.LoanPaymentRepository.
type LoanPaymentRepository struct {
	db *gorm.DB
}

// NewLoanPaymentRepository creates a new LoanPaymentRepository.
func NewLoanPaymentRepository(db *gorm.DB) *LoanPaymentRepository {
	return &LoanPaymentRepository{db: db}
}

// CreateBatch inserts a whole schedule with multi-row INSERTs.
func (r *LoanPaymentRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, payments []*domain.LoanPayment) error {
	if len(payments) == 0 {
		return nil
	}

	rows := make([]loanPaymentModel, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, loanPaymentModel{
			ID:        p.ID,
			LoanID:    p.LoanID,
			Amount:    p.Amount,
			DueDate:   p.DueDate,
			PaidDate:  p.PaidDate,
			Status:    string(p.Status),
			CreatedAt: p.CreatedAt,
		})
	}

	return txDB(ctx, tx).CreateInBatches(rows, paymentBatchSize).Error
}

// GetByIDForUpdate retrieves an installment with a FOR UPDATE lock.
func (r *LoanPaymentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LoanPayment, error) {
	var m loanPaymentModel
	err := txDB(ctx, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	return modelToLoanPayment(m), nil
}

// MarkPaid marks an unpaid installment paid.
func (r *LoanPaymentRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, id string, paidAt time.Time) (bool, error) {
	res := txDB(ctx, tx).Model(&loanPaymentModel{}).
		Where("id = ? AND status <> ?", id, string(domain.PaymentStatusPaid)).
		Updates(map[string]any{
			"status":    string(domain.PaymentStatusPaid),
			"paid_date": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}

// CountPaid counts a loan's paid installments.
func (r *LoanPaymentRepository) CountPaid(ctx context.Context, tx usecase.Transaction, loanID string) (int, error) {
	var count int64
	err := txDB(ctx, tx).Model(&loanPaymentModel{}).
		Where("loan_id = ? AND status = ?", loanID, string(domain.PaymentStatusPaid)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// ListByLoan returns a loan's schedule ordered by due date.
func (r *LoanPaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanPayment, error) {
	var rows []loanPaymentModel
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("due_date, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return modelsToLoanPayments(rows), nil
}

// ListByLoanIDs returns the schedules of several loans, grouped by loan and ordered by due date.
func (r *LoanPaymentRepository) ListByLoanIDs(ctx context.Context, loanIDs []string) ([]*domain.LoanPayment, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}

	var rows []loanPaymentModel
	err := r.db.WithContext(ctx).
		Where("loan_id IN ?", loanIDs).
		Order("loan_id, due_date, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return modelsToLoanPayments(rows), nil
}

func modelToLoanPayment(m loanPaymentModel) *domain.LoanPayment {
	return &domain.LoanPayment{
		ID:        m.ID,
		LoanID:    m.LoanID,
		Amount:    m.Amount,
		DueDate:   m.DueDate,
		PaidDate:  m.PaidDate,
		Status:    domain.PaymentStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

func modelsToLoanPayments(rows []loanPaymentModel) []*domain.LoanPayment {
	payments := make([]*domain.LoanPayment, 0, len(rows))
	for _, m := range rows {
		payments = append(payments, modelToLoanPayment(m))
	}
	return payments
}
