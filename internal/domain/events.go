package domain

import "time"

// Event types
const (
	EventTypeAccountCreated  = "account.created"
	EventTypeTransferCreated = "transfer.created"
	EventTypeDepositCreated  = "deposit.created"
	EventTypeLoanCreated     = "loan.created"
	EventTypeLoanRepaid      = "loan.repaid"
	EventTypePaymentPaid     = "loan_payment.paid"
)

// Aggregate types
const (
	AggregateTypeAccount     = "account"
	AggregateTypeTransaction = "transaction"
	AggregateTypeLoan        = "loan"
	AggregateTypeLoanPayment = "loan_payment"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransferCreatedPayload builds the payload of a transfer.created event.
func TransferCreatedPayload(txn *Transaction, currency string) map[string]any {
	return map[string]any{
		"transaction_id":  txn.ID,
		"from_account_id": derefString(txn.FromAccountID),
		"to_account_id":   derefString(txn.ToAccountID),
		"amount":          txn.Amount.String(),
		"currency":        currency,
	}
}

// DepositCreatedPayload builds the payload of a deposit.created event.
func DepositCreatedPayload(txn *Transaction, currency string) map[string]any {
	return map[string]any{
		"transaction_id": txn.ID,
		"to_account_id":  derefString(txn.ToAccountID),
		"amount":         txn.Amount.String(),
		"currency":       currency,
	}
}

// LoanCreatedPayload builds the payload of a loan.created event.
func LoanCreatedPayload(l *Loan) map[string]any {
	return map[string]any{
		"loan_id":       l.ID,
		"customer_id":   l.CustomerID,
		"principal":     l.Principal.String(),
		"emi":           l.EMI.String(),
		"total_payable": l.TotalPayable.String(),
		"term_months":   l.TermMonths,
		"status":        string(l.Status),
	}
}

// PaymentPaidPayload builds the payload of a loan_payment.paid event.
func PaymentPaidPayload(p *LoanPayment, paidCount int) map[string]any {
	return map[string]any{
		"payment_id": p.ID,
		"loan_id":    p.LoanID,
		"amount":     p.Amount.String(),
		"paid_count": paidCount,
	}
}

// LoanRepaidPayload builds the payload of a loan.repaid event.
func LoanRepaidPayload(l *Loan) map[string]any {
	return map[string]any{
		"loan_id":       l.ID,
		"customer_id":   l.CustomerID,
		"total_payable": l.TotalPayable.String(),
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
