package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Transaction, error)
}

// TransferHandler handles transfer requests.
type TransferHandler struct {
	transferUC TransferService
	retrier    Retrier
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, retrier Retrier) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, retrier: retrierOrDefault(retrier)}
}

// Create moves money between two accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var txn *domain.Transaction
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		txn, err = h.transferUC.Transfer(r.Context(), req.ToUseCaseInput())
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to create transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}
