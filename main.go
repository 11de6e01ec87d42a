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

	"github.com/gin-gonic/gin"
	flag "github.com/spf13/pflag"

	"github.com/laureanodiez/tarjeta/internal/analytics"
	"github.com/laureanodiez/tarjeta/internal/config"
	"github.com/laureanodiez/tarjeta/internal/content"
	"github.com/laureanodiez/tarjeta/internal/preview"
	"github.com/laureanodiez/tarjeta/internal/web"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides PORT)")
	dbPath := flag.String("db", "", "analytics SQLite file (overrides DATABASE_PATH)")
	sections := flag.String("sections", "", "YAML file with the section registry")
	envFiles := flag.StringSlice("env-file", []string{".env"}, "env files to load")
	tui := flag.Bool("preview", false, "run the terminal preview instead of the server")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(logger, *envFiles, *addr, *dbPath, *sections, *tui); err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, envFiles []string, addr, dbPath, sections string, tui bool) error {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	registry, err := loadRegistry(sections)
	if err != nil {
		return err
	}

	if tui {
		return preview.Run(registry, cfg.Profile())
	}

	gin.SetMode(cfg.GinMode)
	opts := []web.Option{web.WithLogger(logger)}
	var store *analytics.Store
	if cfg.DatabasePath != "" {
		store, err = analytics.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, web.WithAnalytics(store))
		logger.Info("analytics enabled", "database", cfg.DatabasePath)
	}

	server, err := web.New(cfg, registry, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if store != nil {
		go cleanupLoop(ctx, logger, store)
	}

	if addr == "" {
		addr = cfg.Addr()
	}
	srv := &http.Server{Addr: addr, Handler: server.Handler()}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadRegistry(path string) (*content.Registry, error) {
	if path == "" {
		return content.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sections: %w", err)
	}
	defer f.Close()
	return content.Load(f)
}

// cleanupLoop drops visit records past retention at startup and daily.
func cleanupLoop(ctx context.Context, logger *slog.Logger, store *analytics.Store) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		removed, err := store.Cleanup(ctx)
		if err != nil {
			logger.Error("privacy cleanup", "error", err)
		} else if removed > 0 {
			logger.Info("privacy cleanup", "removed", removed)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
