package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Auth   AuthConfig
	Ai     AIConfig
	Enrich EnrichConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type AuthConfig struct {
	// Shared dashboard secret, compared for equality on login.
	DashboardPassword string
	JwtSecret         string
	// Expected prefix of a per-session service key ("sk-").
	APIKeyPrefix string
}

type AIConfig struct {
	// "openai" (default) or "ollama" for on-prem deployments.
	Provider      string
	ChatModel     string
	ImageModel    string
	OllamaBaseURL string
}

type EnrichConfig struct {
	// Worker pool bound for one enrichment/trend batch.
	MaxConcurrent int
	ProgressTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Auth: AuthConfig{
			DashboardPassword: getEnv("DASHBOARD_PASSWORD", ""),
			JwtSecret:         getEnv("JWT_SECRET", ""),
			APIKeyPrefix:      getEnv("OPENAI_KEY_PREFIX", "sk-"),
		},
		Ai: AIConfig{
			Provider:      getEnv("AI_PROVIDER", "openai"),
			ChatModel:     getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ImageModel:    getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", ""),
		},
		Enrich: EnrichConfig{
			MaxConcurrent: getEnvAsInt("ENRICH_MAX_CONCURRENT", 20),
			ProgressTopic: getEnv("ENRICH_PROGRESS_TOPIC_NAME", "ENRICH_PROGRESS"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
