package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

func main() {
	cfg := GetConfig()
	logger := newLogger(cfg, os.Stderr)

	sessions := NewSessionStore(cfg, logger)
	hub := NewHub()
	sessions.SetStatusPublisher(hub.PublishStatus)
	loadPersistedSessions(cfg, sessions, logger)

	var persistOnce sync.Once
	persistOnShutdown := func(reason string) {
		persistOnce.Do(func() {
			logger.Info().Str("reason", reason).Msg("persisting sessions")
			sessions.StopAll()
			if err := persistSessions(GetConfig(), sessions, logger); err != nil {
				logger.Error().Err(err).Msg("failed to persist sessions")
			}
		})
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error().Interface("panic", recovered).Msg("panic recovered in main")
			persistOnShutdown("panic")
		}
	}()
	defer persistOnShutdown("exit")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx.Done())

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: newRouter(&api{sessions: sessions, hub: hub, logger: logger}),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	logger.Info().Str("addr", cfg.ListenAddr).Msg("backend listening")
	var runErr error
	select {
	case <-sigCtx.Done():
		logger.Info().Err(sigCtx.Err()).Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			logger.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			logger.Error().Err(closeErr).Msg("forced close failed")
		}
	}

	cancel()
	persistOnShutdown("shutdown")
	if runErr != nil {
		logger.Error().Err(runErr).Msg("exiting after server error")
	}
}
