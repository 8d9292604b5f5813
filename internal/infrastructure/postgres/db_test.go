package postgres

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewPoolWithConfigDefaults(t *testing.T) {
	ctx := context.Background()

	// using invalid URL should return error
	if _, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := PoolConfig{
		DatabaseURL: "postgres://invalid:5432/db?connect_timeout=1",
		MaxConns:    1,
		MinConns:    0,
	}

	_, err := NewPoolWithConfig(ctx, cfg)
	if err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestNewPoolRejectsBadURL(t *testing.T) {
	if _, err := NewPool(context.Background(), "::::", 2, 1); err == nil {
		t.Fatalf("expected parse error")
	}
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func TestChecker(t *testing.T) {
	healthy := &Checker{pool: stubPinger{}}
	if healthy.Name() != "postgres" {
		t.Errorf("expected name postgres, got %s", healthy.Name())
	}
	if err := healthy.Ping(context.Background()); err != nil {
		t.Errorf("expected healthy ping, got %v", err)
	}

	down := &Checker{pool: stubPinger{err: errors.New("connection refused")}}
	if err := down.Ping(context.Background()); err == nil {
		t.Errorf("expected ping failure")
	}
}
