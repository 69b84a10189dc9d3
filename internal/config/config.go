package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	CORSOrigins string
	// Wrike API configuration
	WrikeAPIURL       string
	WrikeAuthorizeURL string
	WrikeTokenURL     string
	WrikeClientID     string
	WrikeClientSecret string
	WrikeAccount      string
	// Report configuration
	CategoriesPath string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// Wrike API configuration
		WrikeAPIURL:       getEnv("WRIKE_API_URL", "https://www.wrike.com/api/v4"),
		WrikeAuthorizeURL: getEnv("WRIKE_AUTHORIZE_URL", "https://www.wrike.com/oauth2/authorize"),
		WrikeTokenURL:     getEnv("WRIKE_TOKEN_URL", "https://www.wrike.com/oauth2/token"),
		WrikeClientID:     getEnv("WRIKE_CLIENT_ID", ""),
		WrikeClientSecret: getEnv("WRIKE_CLIENT_SECRET", ""),
		WrikeAccount:      getEnv("WRIKE_ACCOUNT", "palm"),
		// Report configuration
		CategoriesPath: getEnv("CATEGORIES_PATH", "config/categories.yaml"),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
