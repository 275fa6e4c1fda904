package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"logicsim/internal/config"
	"logicsim/internal/handler"
	"logicsim/internal/hub"
	"logicsim/internal/metrics"
	"logicsim/internal/repository/sqlite"
	"logicsim/internal/service"
	"logicsim/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "logicsim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	watchPath := flag.String("watch", "", "scheme file to load and reload on change (overrides config)")
	flag.Parse()

	cfg, foundAt, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *watchPath != "" {
		cfg.Watch.Path = *watchPath
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if foundAt != "" {
		logger.Info("config loaded", zap.String("path", foundAt))
	} else {
		logger.Info("no config file found, using defaults")
	}

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	logger.Info("database opened", zap.String("path", cfg.Database.Path))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector("logicsim")
	eventBus := service.NewEventBus(logger.Named("events"))
	editor := service.NewEditor(
		service.WithLogger(logger.Named("editor")),
		service.WithEventBus(eventBus),
		service.WithMetrics(collector),
	)
	schemes := service.NewSchemeService(repo, editor, logger.Named("schemes"))

	sseHub := hub.New(logger.Named("hub"), hub.WithSnapshot(func() any {
		return service.Event{Type: service.EventSnapshot, Payload: editor.State()}
	}))
	go sseHub.Run(ctx)
	go eventBus.Forward(ctx, func(evt service.Event) { sseHub.Broadcast(evt) })

	if cfg.Watch.Path != "" {
		if err := watcher.LoadFile(editor, cfg.Watch.Path); err != nil {
			logger.Warn("initial scheme load failed", zap.String("path", cfg.Watch.Path), zap.Error(err))
		}
		w := watcher.New(cfg.Watch.Path, watcher.Reload(editor, cfg.Watch.Path, logger.Named("watcher")), logger.Named("watcher")).
			WithDebounce(cfg.Watch.Debounce.Duration())
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheme watcher stopped", zap.Error(err))
			}
		}()
	}

	h := handler.New(editor, logger.Named("http"),
		handler.WithSchemes(schemes),
		handler.WithEvents(sseHub),
		handler.WithMetrics(collector.Handler()),
	)

	// no WriteTimeout: /events responses stay open
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}

// loadConfig reads an explicit config file or searches the standard locations
func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}
