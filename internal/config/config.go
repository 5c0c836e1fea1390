package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Language LanguageConfig
	Search   SearchConfig
	Ai       AIConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	TelemetryLogPath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// LanguageConfig points at the conversational language understanding service
// used for intent classification.
type LanguageConfig struct {
	Endpoint        string
	Key             string
	ProjectName     string
	ModelDeployment string
	ApiVersion      string
}

type SearchConfig struct {
	Provider  string // "http" or "pgvector"
	Endpoint  string
	Key       string
	IndexName string
	TopK      int
}

type AIConfig struct {
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string
	OllamaBaseURL     string
	HuggingFaceKey    string
	EmbeddingProvider string
	EmbeddingModel    string
}

type ChatConfig struct {
	DefaultLanguage string // language hint passed to the classifier
	IntentStore     string // "memory" or "redis"
	TranscriptTTL   int    // minutes a conversation stays resident without activity
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			TelemetryLogPath:   getEnv("TELEMETRY_LOG_PATH", "telemetry.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "CareChat"),
		},
		Language: LanguageConfig{
			Endpoint:        getEnv("LANGUAGE_ENDPOINT", ""),
			Key:             getEnv("LANGUAGE_KEY", ""),
			ProjectName:     getEnv("LANGUAGE_PROJECT_NAME", "test"),
			ModelDeployment: getEnv("LANGUAGE_MODEL_DEPLOYMENT", ""),
			ApiVersion:      getEnv("LANGUAGE_API_VERSION", "2024-11-15-preview"),
		},
		Search: SearchConfig{
			Provider:  getEnv("SEARCH_PROVIDER", "http"),
			Endpoint:  getEnv("SEARCH_SERVICE_ENDPOINT", ""),
			Key:       getEnv("SEARCH_KEY", ""),
			IndexName: getEnv("SEARCH_INDEX_NAME", "healthcare-docs"),
			TopK:      getEnvAsInt("SEARCH_TOP_K", 5),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceKey:    getEnv("HUGGINGFACE_API_KEY", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Chat: ChatConfig{
			DefaultLanguage: getEnv("CHAT_DEFAULT_LANGUAGE", "nl"),
			IntentStore:     getEnv("INTENT_STORE", "memory"),
			TranscriptTTL:   getEnvAsInt("TRANSCRIPT_TTL_MINUTES", 60),
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
