package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/iudanet/orgsync/internal/client/api"
	"github.com/iudanet/orgsync/internal/client/auth"
	"github.com/iudanet/orgsync/internal/client/cli"
	"github.com/iudanet/orgsync/internal/client/health"
	"github.com/iudanet/orgsync/internal/client/queue"
	"github.com/iudanet/orgsync/internal/client/scheduler"
	"github.com/iudanet/orgsync/internal/client/storage"
	"github.com/iudanet/orgsync/internal/client/storage/boltdb"
	"github.com/iudanet/orgsync/internal/client/storage/memory"
	"github.com/iudanet/orgsync/internal/client/store"
	syncclient "github.com/iudanet/orgsync/internal/client/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "orgsync-client.db", "Path to local database")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx := context.Background()

	// Персистентное хранилище с деградацией в память при исчерпанной квоте
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	clientStorage := storage.NewFallback(boltStorage, memory.New(), logger)
	defer func() {
		if err := clientStorage.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	apiClient := api.NewClient(*serverURL)

	stateStore := store.NewService(clientStorage, logger)
	if err := stateStore.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load local state: %v\n", err)
		os.Exit(1)
	}

	authService := auth.NewService(apiClient, clientStorage, logger)

	recorder := health.NewRecorder(clientStorage, logger)
	if err := recorder.Load(ctx); err != nil {
		logger.Warn("failed to load sync health history", "error", err)
	}

	syncService := syncclient.NewService(apiClient, stateStore, recorder, logger)
	operationQueue := queue.NewService(clientStorage, logger)

	// Демонстрационный обработчик отложенных операций: внешних
	// интеграций у клиента пока нет, поэтому просто логируем
	operationQueue.Register("calendar_push", func(ctx context.Context, payload []byte) error {
		logger.InfoContext(ctx, "calendar push executed", "payload_size", len(payload))
		return nil
	})

	sched := scheduler.New(scheduler.DefaultConfig(), syncService, authService,
		stateStore, clientStorage, operationQueue, logger)
	stateStore.SetOnDirty(sched.MarkDirty)

	app := cli.New(stateStore, authService, syncService, sched, operationQueue,
		recorder, clientStorage.Degraded)

	if err := app.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("OrgSync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
