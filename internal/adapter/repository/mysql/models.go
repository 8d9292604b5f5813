package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type accountModel struct {
	ID         string          `gorm:"primaryKey;size:26;column:id"`
	CustomerID string          `gorm:"size:64;not null;index:idx_accounts_customer;column:customer_id"`
	BranchID   string          `gorm:"size:64;not null;default:'';column:branch_id"`
	Owner      string          `gorm:"size:255;not null;default:'';column:owner"`
	Currency   string          `gorm:"size:3;not null;column:currency"`
	Balance    decimal.Decimal `gorm:"type:decimal(15,2);not null;column:balance"`
	Version    int64           `gorm:"not null;column:version"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "accounts" }

type transactionModel struct {
	ID            string          `gorm:"primaryKey;size:26;column:id"`
	FromAccountID *string         `gorm:"size:26;index:idx_transactions_from;column:from_account_id"`
	ToAccountID   *string         `gorm:"size:26;index:idx_transactions_to;column:to_account_id"`
	LoanPaymentID *string         `gorm:"size:26;column:loan_payment_id"`
	BeneficiaryID *string         `gorm:"size:26;column:beneficiary_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null;column:amount"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (transactionModel) TableName() string { return "transactions" }

type loanModel struct {
	ID           string          `gorm:"primaryKey;size:26;column:id"`
	CustomerID   string          `gorm:"size:64;not null;index:idx_loans_customer;column:customer_id"`
	BranchID     string          `gorm:"size:64;not null;default:'';column:branch_id"`
	Principal    decimal.Decimal `gorm:"type:decimal(15,2);not null;column:principal"`
	InterestRate decimal.Decimal `gorm:"type:decimal(9,6);not null;column:interest_rate"`
	TermMonths   int             `gorm:"not null;column:term_months"`
	EMI          decimal.Decimal `gorm:"type:decimal(15,2);not null;column:emi"`
	TotalPayable decimal.Decimal `gorm:"type:decimal(15,2);not null;column:total_payable"`
	Status       string          `gorm:"size:16;not null;column:status"`
	StartDate    time.Time       `gorm:"not null;column:start_date"`
	EndDate      time.Time       `gorm:"not null;column:end_date"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
}

func (loanModel) TableName() string { return "loans" }

type loanPaymentModel struct {
	ID        string          `gorm:"primaryKey;size:26;column:id"`
	LoanID    string          `gorm:"size:26;not null;index:idx_loan_payments_loan_due;column:loan_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null;column:amount"`
	DueDate   time.Time       `gorm:"not null;index:idx_loan_payments_loan_due;column:due_date"`
	PaidDate  *time.Time      `gorm:"column:paid_date"`
	Status    string          `gorm:"size:16;not null;column:status"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (loanPaymentModel) TableName() string { return "loan_payments" }

// Payload is text rather than JSON: go-sql-driver sends []byte as binary, which MySQL
// refuses for JSON columns.
type outboxEventModel struct {
	ID            string     `gorm:"primaryKey;size:26;column:id"`
	AggregateID   string     `gorm:"size:26;not null;column:aggregate_id"`
	AggregateType string     `gorm:"size:32;not null;column:aggregate_type"`
	EventType     string     `gorm:"size:64;not null;column:event_type"`
	Payload       string     `gorm:"type:text;not null;column:payload"`
	CreatedAt     time.Time  `gorm:"index:idx_outbox_unpublished;column:created_at"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
	Published     bool       `gorm:"not null;default:false;index:idx_outbox_unpublished;column:published"`
}

func (outboxEventModel) TableName() string { return "outbox_events" }

// Migrate creates or updates every table used by the gorm repositories.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&accountModel{},
		&loanModel{},
		&loanPaymentModel{},
		&transactionModel{},
		&outboxEventModel{},
	)
}
