package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

type ledgerServiceStub struct {
	report *usecase.ConsistencyReport
	err    error
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.report, s.err
}

func TestLedgerHandler_Consistency(t *testing.T) {
	tests := []struct {
		name           string
		stub           *ledgerServiceStub
		wantStatus     int
		wantConsistent bool
	}{
		{
			name: "consistent",
			stub: &ledgerServiceStub{report: &usecase.ConsistencyReport{
				TotalBalance:  decimal.NewFromInt(100),
				TotalDeposits: decimal.NewFromInt(100),
				Consistent:    true,
			}},
			wantStatus:     http.StatusOK,
			wantConsistent: true,
		},
		{
			name: "inconsistent",
			stub: &ledgerServiceStub{
				report: &usecase.ConsistencyReport{TotalBalance: decimal.NewFromInt(90), TotalDeposits: decimal.NewFromInt(100)},
				err:    domain.ErrInconsistentLedger,
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "storage failure",
			stub:       &ledgerServiceStub{err: errors.Join(domain.ErrStorageFailure, errors.New("down"))},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewLedgerHandler(tt.stub).Consistency(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.stub.report == nil {
				return
			}
			var resp dto.ConsistencyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Consistent != tt.wantConsistent {
				t.Fatalf("expected consistent=%v, got %+v", tt.wantConsistent, resp)
			}
		})
	}
}
