package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gorm.io/gorm"

	"github.com/kowalczyk-j/cosmetics-analyser/internal/config"
	"github.com/kowalczyk-j/cosmetics-analyser/internal/db"
	"github.com/kowalczyk-j/cosmetics-analyser/internal/db/mock"
	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := applog.SetLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	srv := server.New(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Session.Lifetime,
			CookieName:   cfg.Session.CookieName,
			CookieDomain: cfg.Session.CookieDomain,
			CookieSecure: cfg.Session.CookieSecure,
		},
		Database: database,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	applog.Info(ctx, "shutting down http server")
	if err := srv.Stop(); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func openDatabase(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.Database.URL) == "" {
		applog.Warn(ctx, "DATABASE_URL not set, using seeded in-memory database")
		return mock.New(ctx)
	}
	return db.Configure(cfg.Database)
}
