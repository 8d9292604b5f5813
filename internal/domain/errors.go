package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrSourceNotFound      = errors.New("source account not found")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidCurrency     = errors.New("currency must be a 3-letter ISO code")

	// Transfer errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrSameAccount      = errors.New("cannot transfer to same account")
	ErrCurrencyMismatch = errors.New("cannot transfer between different currencies")

	// Loan errors
	ErrInvalidLoanTerms    = errors.New("invalid loan terms")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanNotActive       = errors.New("loan is not accepting payments")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentLoanMismatch = errors.New("payment does not belong to this loan")
	ErrAlreadyPaid         = errors.New("payment already made")

	// Ledger errors
	ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not match deposits")

	// ErrStorageFailure wraps any error raised by the persistence layer.
	ErrStorageFailure = errors.New("storage failure")
)
