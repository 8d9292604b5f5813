package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

func fastRetrier(opts ...RetrierOption) *Retrier {
	r := NewRetrier(opts...)
	r.maxRetries = 2
	r.initialInterval = time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = time.Second
	return r
}

func TestRetrierRetriesDeadlock(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	r := fastRetrier(WithRetrierMetrics(m))

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return fmt.Errorf("%w: %w", domain.ErrStorageFailure, &mysqldriver.MySQLError{Number: errDeadlock})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DBRetries.WithLabelValues("1213")))
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := fastRetrier()

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return &mysqldriver.MySQLError{Number: errLockWaitTimeout}
	})

	var myErr *mysqldriver.MySQLError
	require.ErrorAs(t, err, &myErr)
	assert.Equal(t, 3, attempts)
}

func TestRetrierDoesNotRetryDomainErrors(t *testing.T) {
	r := fastRetrier()

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return domain.ErrInsufficientFunds
	})

	assert.True(t, errors.Is(err, domain.ErrInsufficientFunds))
	assert.Equal(t, 1, attempts)
}

func TestRetryableCode(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		retryable bool
	}{
		{name: "deadlock", err: &mysqldriver.MySQLError{Number: 1213}, code: "1213", retryable: true},
		{name: "lock wait timeout", err: &mysqldriver.MySQLError{Number: 1205}, code: "1205", retryable: true},
		{name: "duplicate key", err: &mysqldriver.MySQLError{Number: 1062}},
		{name: "plain error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := retryableCode(tt.err)
			assert.Equal(t, tt.retryable, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}
