package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"palmviz/internal/config"
	"palmviz/internal/handler"
	"palmviz/internal/middleware"
	"palmviz/internal/report"
	"palmviz/internal/repository/postgres"
	"palmviz/internal/wrike"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	reportRepo := postgres.NewReportRepository(repoConfig)
	credsRepo := postgres.NewCredentialsRepository(repoConfig)

	// Load report category configuration
	categories, err := report.LoadConfig(cfg.CategoriesPath)
	if err != nil {
		log.Fatalf("Failed to load category config: %v", err)
	}

	// Create services
	aggregator := report.NewAggregator(reportRepo, categories, logger)
	authenticator := wrike.NewAuthenticator(
		credsRepo,
		cfg.WrikeAccount,
		cfg.WrikeClientID,
		cfg.WrikeClientSecret,
		cfg.WrikeAuthorizeURL,
		cfg.WrikeTokenURL,
		logger,
	)

	// Create handlers
	reportHandler := handler.NewReportHandler(aggregator, logger)
	oauthHandler := handler.NewOAuthHandler(authenticator, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", reportHandler.HealthCheck)

	// Report routes
	mux.HandleFunc("GET /api/reports/{group}", reportHandler.GetReport)

	// OAuth2 setup routes
	mux.HandleFunc("GET /oauth2/authorize", oauthHandler.Authorize)
	mux.HandleFunc("GET /oauth2/callback", oauthHandler.Callback)

	// Build middleware chain
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
