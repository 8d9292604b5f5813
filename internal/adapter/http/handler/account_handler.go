package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

// StatementService defines the money movements exposed under an account.
type StatementService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Transaction, error)
	GetStatements(ctx context.Context, accountID string) ([]*domain.Transaction, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	moneyUC   StatementService
	retrier   Retrier
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, moneyUC StatementService, retrier Retrier) *AccountHandler {
	return &AccountHandler{
		accountUC: accountUC,
		moneyUC:   moneyUC,
		retrier:   retrierOrDefault(retrier),
	}
}

// Create opens an account for the calling customer.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	customerID, ok := requireCustomer(w, r)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(customerID))
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the calling customer's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := requireCustomer(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		CustomerID: customerID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Limit:    limit,
		Offset:   offset,
	})
}

// Deposit credits an account.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.DepositRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var txn *domain.Transaction
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		txn, err = h.moneyUC.Deposit(r.Context(), req.ToUseCaseInput(id))
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to deposit", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Statements lists the newest transactions touching an account.
func (h *AccountHandler) Statements(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	txns, err := h.moneyUC.GetStatements(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get statements", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementResponse{
		AccountID:    id,
		Transactions: dto.TransactionsFromDomain(txns),
	})
}
