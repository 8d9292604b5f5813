package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	httpAdapter "github.com/iho/gobank/internal/adapter/http"
	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	mysqlRepo "github.com/iho/gobank/internal/adapter/repository/mysql"
	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobank/internal/adapter/repository/redis"
	"github.com/iho/gobank/internal/infrastructure/auth"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/eventpublisher"
	"github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/infrastructure/mysql"
	"github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/infrastructure/redis"
	"github.com/iho/gobank/internal/usecase"
)

const (
	serviceName         = "gobank"
	tokenDuration       = 24 * time.Hour
	rateLimiterIdle     = 10 * time.Minute
	rateLimiterInterval = time.Minute
)

// storage is the set of repositories behind the use cases, whichever driver backs them.
type storage struct {
	txManager usecase.TransactionManager
	accounts  usecase.AccountRepository
	txns      usecase.TransactionRepository
	loans     usecase.LoanRepository
	payments  usecase.LoanPaymentRepository
	outbox    usecase.OutboxRepository
	ledger    usecase.LedgerRepository
	retrier   handler.Retrier
	checker   handler.Checker
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	m := metrics.New()

	store, err := openStorage(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer store.close()

	checkers := []handler.Checker{store.checker}

	if !cfg.OutboxEnabled {
		store.outbox = postgresRepo.NewNullOutboxRepository()
		log.Info().Msg("outbox disabled, domain events are dropped")
	}

	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checkers = append(checkers, redis.NewChecker(redisClient))
	}

	idGen := postgresRepo.NewULIDGenerator()

	accountUC := usecase.NewAccountUseCase(store.txManager, store.accounts, store.outbox, idGen, m)
	transferUC := usecase.NewTransferUseCase(store.txManager, store.accounts, store.txns, store.outbox, idGen, m)
	loanUC := usecase.NewLoanUseCase(store.txManager, store.loans, store.payments, store.outbox, idGen, nil, m)
	paymentUC := usecase.NewPaymentUseCase(store.txManager, store.loans, store.payments, store.accounts, store.txns, store.outbox, idGen, m)
	ledgerUC := usecase.NewLedgerUseCase(store.ledger)

	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled {
		verifier = auth.NewJWTManager(cfg.JWTSecret, tokenDuration)
		log.Info().Msg("bearer token authentication enabled")
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
		go limiter.RunCleanup(ctx, rateLimiterInterval, rateLimiterIdle)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC, transferUC, store.retrier),
		TransferHandler:  handler.NewTransferHandler(transferUC, store.retrier),
		LoanHandler:      handler.NewLoanHandler(loanUC, paymentUC, store.retrier),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		HealthHandler:    handler.NewHealthHandler(checkers...),
		Logger:           log,
		Metrics:          m,
		MetricsHandler:   promhttp.Handler(),
		TokenVerifier:    verifier,
		RateLimiter:      limiter,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	})

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: store.outbox,
			Publisher:  eventpublisher.NewLogPublisher(log),
			Logger:     log,
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})
		go func() {
			if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	return serve(ctx, newServer(cfg, router), cfg.HTTPShutdownTimeout, log)
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// serve runs server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log, m)
	case config.DriverMySQL:
		return openMySQL(cfg, log, m)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (*storage, error) {
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return nil, err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &storage{
		txManager: postgresRepo.NewTxManager(pool),
		accounts:  postgresRepo.NewAccountRepository(pool),
		txns:      postgresRepo.NewTransactionRepository(pool),
		loans:     postgresRepo.NewLoanRepository(pool),
		payments:  postgresRepo.NewLoanPaymentRepository(pool),
		outbox:    postgresRepo.NewOutboxRepository(pool),
		ledger:    postgresRepo.NewLedgerRepository(pool),
		retrier: postgresRepo.NewRetrier(
			postgresRepo.WithRetrierLogger(log),
			postgresRepo.WithRetrierMetrics(m),
		),
		checker: postgres.NewChecker(pool),
		close:   pool.Close,
	}, nil
}

func openMySQL(cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (*storage, error) {
	pool := mysql.DefaultPoolConfig()
	pool.MaxOpenConns = cfg.DatabaseMaxConns
	pool.MaxIdleConns = cfg.DatabaseMinConns

	db, err := mysql.OpenGorm(cfg.MySQLDSN, pool, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}
	log.Info().Msg("connected to mysql")

	if cfg.AutoMigrate {
		if err := mysqlRepo.Migrate(db); err != nil {
			closeGorm(db, log)
			return nil, fmt.Errorf("failed to migrate mysql schema: %w", err)
		}
		log.Info().Msg("mysql schema migrated")
	}

	return newGormStorage(db, log, m), nil
}

func newGormStorage(db *gorm.DB, log zerolog.Logger, m *metrics.Metrics) *storage {
	return &storage{
		txManager: mysqlRepo.NewTxManager(db),
		accounts:  mysqlRepo.NewAccountRepository(db),
		txns:      mysqlRepo.NewTransactionRepository(db),
		loans:     mysqlRepo.NewLoanRepository(db),
		payments:  mysqlRepo.NewLoanPaymentRepository(db),
		outbox:    mysqlRepo.NewOutboxRepository(db),
		ledger:    mysqlRepo.NewLedgerRepository(db),
		retrier: mysqlRepo.NewRetrier(
			mysqlRepo.WithRetrierLogger(log),
			mysqlRepo.WithRetrierMetrics(m),
		),
		checker: mysql.NewChecker(db),
		close:   func() { closeGorm(db, log) },
	}
}

func closeGorm(db *gorm.DB, log zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close mysql connection")
	}
}
