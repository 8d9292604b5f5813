package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// castAmount keeps arithmetic on DECIMAL columns exact; drivers bind decimals as strings.
const castAmount = "CAST(? AS DECIMAL(15,2))"

// moneyPlaces matches the DECIMAL(15,2) columns. SQLite does that arithmetic in floating
// point, so values read back are rounded to it.
const moneyPlaces = 2

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return txDB(ctx, tx).Create(accountToModel(account)).Error
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return findAccount(r.db.WithContext(ctx), id)
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return findAccount(txDB(ctx, tx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func findAccount(db *gorm.DB, id string) (*domain.Account, error) {
	var m accountModel
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return modelToAccount(m), nil
}

// GetByIDsForUpdate locks the accounts among ids in ascending id order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	var rows []accountModel
	err := txDB(ctx, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return modelsToAccounts(rows), nil
}

// AdjustBalance adds delta to the balance unless the result would be negative.
func (r *AccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	db := txDB(ctx, tx)

	res := db.Model(&accountModel{}).
		Where("id = ? AND balance + "+castAmount+" >= 0", id, delta).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + "+castAmount, delta),
			"version":    gorm.Expr("version + 1"),
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.Model(&accountModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrAccountNotFound
	}

	return domain.ErrInsufficientFunds
}

// ListByCustomer lists a customer's accounts with pagination.
func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Account, error) {
	var rows []accountModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return modelsToAccounts(rows), nil
}

func accountToModel(a *domain.Account) *accountModel {
	return &accountModel{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		BranchID:   a.BranchID,
		Owner:      a.Owner,
		Currency:   a.Currency,
		Balance:    a.Balance,
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func modelToAccount(m accountModel) *domain.Account {
	return &domain.Account{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		BranchID:   m.BranchID,
		Owner:      m.Owner,
		Currency:   m.Currency,
		Balance:    m.Balance.Round(moneyPlaces),
		Version:    m.Version,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func modelsToAccounts(rows []accountModel) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, m := range rows {
		accounts = append(accounts, modelToAccount(m))
	}
	return accounts
}
