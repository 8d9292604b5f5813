package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

type transferServiceStub struct {
	transferFn func(ctx context.Context, input usecase.TransferInput) (*domain.Transaction, error)
}

func (s *transferServiceStub) Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Transaction, error) {
	return s.transferFn(ctx, input)
}

func TestTransferHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"from_account_id":"acc-1","to_account_id":"acc-2","amount":"12.34"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing source",
			body:       `{"to_account_id":"acc-2","amount":"1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative amount",
			body:       `{"from_account_id":"acc-1","to_account_id":"acc-2","amount":"-1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "same account",
			body:       `{"from_account_id":"acc-1","to_account_id":"acc-1","amount":"1"}`,
			err:        domain.ErrSameAccount,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "source not found",
			body:       `{"from_account_id":"nope","to_account_id":"acc-2","amount":"1"}`,
			err:        domain.ErrSourceNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "insufficient funds",
			body:       `{"from_account_id":"acc-1","to_account_id":"acc-2","amount":"1000000"}`,
			err:        domain.ErrInsufficientFunds,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured usecase.TransferInput
			h := NewTransferHandler(&transferServiceStub{
				transferFn: func(ctx context.Context, input usecase.TransferInput) (*domain.Transaction, error) {
					captured = input
					if tt.err != nil {
						return nil, tt.err
					}
					from, to := input.FromAccountID, input.ToAccountID
					return &domain.Transaction{ID: "txn-1", FromAccountID: &from, ToAccountID: &to, Amount: input.Amount}, nil
				},
			}, nil)

			rec := httptest.NewRecorder()
			h.Create(rec, newRequest(http.MethodPost, "/api/v1/transfers", tt.body, "", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			if !captured.Amount.Equal(decimal.RequireFromString("12.34")) {
				t.Fatalf("unexpected transfer input %+v", captured)
			}
			var resp dto.TransactionResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Kind != "transfer" || resp.Amount != "12.34" {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}
