package usecase

import (
	"errors"
	"fmt"

	"github.com/iho/gobank/internal/domain"
)

// domainErrors are passed through unchanged; everything else a port returns is a storage failure.
var domainErrors = []error{
	domain.ErrAccountNotFound,
	domain.ErrSourceNotFound,
	domain.ErrDestinationNotFound,
	domain.ErrInsufficientFunds,
	domain.ErrInvalidCurrency,
	domain.ErrInvalidAmount,
	domain.ErrSameAccount,
	domain.ErrCurrencyMismatch,
	domain.ErrInvalidLoanTerms,
	domain.ErrLoanNotFound,
	domain.ErrLoanNotActive,
	domain.ErrPaymentNotFound,
	domain.ErrPaymentLoanMismatch,
	domain.ErrAlreadyPaid,
	domain.ErrInconsistentLedger,
	domain.ErrStorageFailure,
}

// storageErr wraps a port error as domain.ErrStorageFailure unless it already carries a domain kind.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range domainErrors {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// errorLabel returns a low-cardinality metric label for err.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidLoanTerms), errors.Is(err, domain.ErrInvalidCurrency):
		return "validation"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, domain.ErrAlreadyPaid), errors.Is(err, domain.ErrPaymentLoanMismatch),
		errors.Is(err, domain.ErrLoanNotActive):
		return "conflict"
	case errors.Is(err, domain.ErrStorageFailure):
		return "storage"
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrSourceNotFound),
		errors.Is(err, domain.ErrDestinationNotFound), errors.Is(err, domain.ErrLoanNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return "not_found"
	default:
		return "other"
	}
}
