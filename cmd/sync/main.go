package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"palmviz/internal/config"
	"palmviz/internal/repository/postgres"
	syncer "palmviz/internal/sync"
	"palmviz/internal/wrike"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// Sync runs are batch jobs; keep a rotating file log alongside stdout.
	logWriter := os.Stdout
	if f, err := config.SetupLogFile("logs", "sync", 10); err == nil {
		defer f.Close()
		logWriter = f
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("sync starting",
		"environment", cfg.Environment,
		"account", cfg.WrikeAccount,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	credsRepo := postgres.NewCredentialsRepository(repoConfig)
	customFieldRepo := postgres.NewCustomFieldRepository(repoConfig)
	contactRepo := postgres.NewContactRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	taskRepo := postgres.NewTaskRepository(repoConfig)

	tokens := wrike.NewRefresher(
		credsRepo,
		cfg.WrikeAccount,
		cfg.WrikeClientID,
		cfg.WrikeClientSecret,
		cfg.WrikeTokenURL,
		logger,
	)
	client := wrike.NewClient(cfg.WrikeAPIURL, tokens, logger)

	orchestrator := syncer.NewOrchestrator(
		client,
		customFieldRepo,
		contactRepo,
		folderRepo,
		taskRepo,
		syncer.NewLogNotifier(logger),
		logger,
	)

	started := time.Now()
	result := orchestrator.Run(ctx)

	for _, stage := range result.Stages {
		if stage.Err != nil {
			logger.Error("stage failed",
				"run_id", result.RunID,
				"stage", stage.Stage,
				"error", stage.Err,
			)
			continue
		}
		logger.Info("stage complete",
			"run_id", result.RunID,
			"stage", stage.Stage,
			"records", stage.Records,
			"skipped_relations", len(stage.Skipped),
		)
	}

	logger.Info("sync finished",
		"run_id", result.RunID,
		"duration", time.Since(started).String(),
		"succeeded", result.Succeeded(),
	)

	if !result.Succeeded() {
		os.Exit(1)
	}
}
