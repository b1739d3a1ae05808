package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"autosales-dashboard/internal/config"
)

func TestGracefulServer_ShutdownRunsHooks(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: time.Second}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gs := NewGracefulServer(&http.Server{Addr: "127.0.0.1:0"}, logger, cfg)

	var calls atomic.Int32
	for range 3 {
		gs.RegisterShutdownHook(func(ctx context.Context) error {
			calls.Add(1)
			return nil
		})
	}

	if err := gs.shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 hooks to run, got %d", calls.Load())
	}
}

func TestGracefulServer_ShutdownReportsHookError(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: time.Second}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gs := NewGracefulServer(&http.Server{Addr: "127.0.0.1:0"}, logger, cfg)

	boom := errors.New("boom")
	gs.RegisterShutdownHook(func(ctx context.Context) error { return boom })

	if err := gs.shutdown(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected hook error, got %v", err)
	}
}
