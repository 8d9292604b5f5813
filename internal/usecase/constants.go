package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// StatementLimit caps the number of transactions returned by GetStatements.
	StatementLimit = 100

	defaultListLimit = 20
	maxListLimit     = 100
)
