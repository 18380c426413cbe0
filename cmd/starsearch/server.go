package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/airmomo/starsearch/internal/api"
	"github.com/airmomo/starsearch/internal/config"
)

func runServer() error {
	printStep("starsearch version %s", version)

	// godotenv.Load is a no-op if .env doesn't exist.
	_ = godotenv.Load()

	logLevel := slog.LevelInfo
	if debugLog {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := config.NewManager(settingsPath)
	if err != nil {
		return err
	}

	handler := api.NewHandler(api.Deps{
		Config:  cfg,
		Factory: &serviceFactory{},
	})

	addr := fmt.Sprintf("%s:%d", listenHost, listenPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		printSuccess("starsearch listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		printStep("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
