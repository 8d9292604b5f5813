package usecase

import (
	"context"

	"github.com/iho/gobank/internal/domain"
)

// AutoApprove approves every loan without underwriting.
type AutoApprove struct{}

// Decide implements ApprovalPolicy.
func (AutoApprove) Decide(context.Context, *domain.Loan) (domain.LoanStatus, error) {
	return domain.LoanStatusApproved, nil
}

// ApprovalFunc adapts a function to ApprovalPolicy.
type ApprovalFunc func(ctx context.Context, loan *domain.Loan) (domain.LoanStatus, error)

// Decide implements ApprovalPolicy.
func (f ApprovalFunc) Decide(ctx context.Context, loan *domain.Loan) (domain.LoanStatus, error) {
	return f(ctx, loan)
}
