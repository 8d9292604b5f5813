package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransferAmount   prometheus.Histogram
	TransferErrors   *prometheus.CounterVec
	DepositsCreated  prometheus.Counter

	// Account metrics
	AccountsCreated prometheus.Counter

	// Loan metrics
	LoansCreated  *prometheus.CounterVec
	LoanPrincipal prometheus.Histogram
	PaymentsMade  prometheus.Counter
	LoansRepaid   prometheus.Counter
	LoanErrors    *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all Prometheus metrics and registers them on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transfer metrics
		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobank_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),
		DepositsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_deposits_created_total",
			Help: "Total number of deposits created",
		}),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		// Loan metrics
		LoansCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_loans_created_total",
				Help: "Total number of loans created by initial status",
			},
			[]string{"status"},
		),
		LoanPrincipal: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobank_loan_principal",
			Help:    "Loan principals",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		}),
		PaymentsMade: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_loan_payments_made_total",
			Help: "Total number of loan installments paid",
		}),
		LoansRepaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_loans_repaid_total",
			Help: "Total number of loans fully repaid",
		}),
		LoanErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_loan_errors_total",
				Help: "Total number of loan and payment errors by type",
			},
			[]string{"error_type"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_db_retries_total",
				Help: "Total database operation retries by pg error code",
			},
			[]string{"code"},
		),

		// Outbox metrics
		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_outbox_errors_total",
			Help: "Total outbox publish failures",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"client"},
		),
	}
}
