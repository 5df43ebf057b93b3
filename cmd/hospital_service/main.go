package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hospital-locator/internal/accounts"
	"hospital-locator/internal/auth"
	"hospital-locator/internal/config"
	"hospital-locator/internal/history"
	"hospital-locator/internal/logging"
	"hospital-locator/internal/places"
	"hospital-locator/internal/search"
	"hospital-locator/internal/server"
	"hospital-locator/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	appLogger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN, gormLogLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer storage.Close(db)

	if err := storage.Migrate(ctx, db, cfg.Database.Driver); err != nil {
		return err
	}
	appLogger.Info("database ready", "driver", cfg.Database.Driver)

	handler, err := setupRouter(db, cfg, appLogger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("starting server", "address", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	appLogger.Info("received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	appLogger.Info("shutdown complete")
	return nil
}

// setupRouter wires the stores and services over db.
func setupRouter(db *gorm.DB, cfg *config.Config, appLogger *slog.Logger) (http.Handler, error) {
	svc := search.NewService(
		places.NewClient(cfg.Places.DiscoverURL, cfg.Places.APIKey, cfg.Places.Timeout),
		history.NewStore(db),
	)
	return server.NewRouter(server.Deps{
		Accounts:  accounts.NewStore(db),
		Sessions:  auth.NewManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieName, cfg.Session.SecureCookie),
		Search:    svc,
		Ping:      func(ctx context.Context) error { return storage.Ping(ctx, db) },
		Logger:    appLogger,
		MapAPIKey: cfg.Places.MapAPIKey,
	})
}

func gormLogLevel(level string) logger.LogLevel {
	if level == "debug" {
		return logger.Info
	}
	return logger.Warn
}
