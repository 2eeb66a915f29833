package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/orgsync/internal/server/handlers"
	"github.com/iudanet/orgsync/internal/server/middleware"
	"github.com/iudanet/orgsync/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 30 * 24 * time.Hour

	shutdownTimeout = 10 * time.Second

	// Фоновая чистка протухших refresh tokens
	tokenCleanupInterval = time.Hour
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", ":8080", "Listen address")
	dbPath := flag.String("db", "orgsync-server.db", "Path to SQLite database")
	jwtSecret := flag.String("jwt-secret", "", "JWT signing secret (or ORGSYNC_JWT_SECRET env)")
	rateLimit := flag.Int("rate-limit", 120, "Max requests per client per window")
	rateWindow := flag.Duration("rate-window", time.Minute, "Rate limit window")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	secret := *jwtSecret
	if secret == "" {
		secret = os.Getenv("ORGSYNC_JWT_SECRET")
	}
	if secret == "" {
		logger.Error("JWT secret is required: pass -jwt-secret or set ORGSYNC_JWT_SECRET")
		os.Exit(1)
	}

	if err := run(*addr, *dbPath, secret, *rateLimit, *rateWindow, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(addr, dbPath, jwtSecret string, rateLimit int, rateWindow time.Duration, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	jwtConfig := handlers.JWTConfig{
		Secret:          []byte(jwtSecret),
		AccessTokenTTL:  defaultAccessTokenTTL,
		RefreshTokenTTL: defaultRefreshTokenTTL,
	}

	authHandler := handlers.NewAuthHandler(logger, store, store, jwtConfig)
	blobHandler := handlers.NewBlobHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, Version, store.DB().Ping)

	authMW := middleware.AuthMiddleware(logger, jwtConfig)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.Handle("POST /api/v1/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("/api/v1/blob", authMW(http.HandlerFunc(blobHandler.HandleBlob)))
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	// Цепочка: recovery -> logging (health не логируем) -> rate limit -> mux
	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(rateLimit, rateWindow, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go cleanupExpiredTokens(ctx, store, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "version", Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// cleanupExpiredTokens периодически удаляет протухшие refresh tokens
func cleanupExpiredTokens(ctx context.Context, store *sqlite.Storage, logger *slog.Logger) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := store.DeleteExpiredTokens(ctx)
			if err != nil {
				logger.Warn("failed to delete expired tokens", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("deleted expired refresh tokens", "count", deleted)
			}
		}
	}
}

func printVersion() {
	fmt.Printf("OrgSync Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
