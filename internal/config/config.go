package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Memory   MemoryConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	FrontendDir        string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type APIKeys struct {
	OpenAI    string
	Anthropic string
}

type AIConfig struct {
	LLMProvider   string // "openai", "anthropic" or "ollama"
	LLMModel      string
	SummaryModel  string // cheaper model for long-term memory maintenance
	OpenAIBaseURL string
	OllamaBaseURL string
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration
}

type MemoryConfig struct {
	WindowTurns           int
	ReplyMaxChars         int
	SummaryMaxWords       int
	SummaryTimeout        time.Duration
	SummaryWorkers        int
	SummaryTopic          string
	RetainHistoryOnDelete bool
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	driver := getEnv("DB_DRIVER", "")
	dsn := getEnv("DATABASE_URL", getEnv("DB_CONNECTION_STRING", ""))
	if driver == "" {
		driver = "postgres"
		if dsn == "" {
			driver = "sqlite"
		}
	}
	if driver == "sqlite" && dsn == "" {
		dsn = "fubot.db"
	}

	llmProvider := getEnv("LLM_PROVIDER", "openai")
	llmModel := getEnv("LLM_MODEL", defaultModel(llmProvider))

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			FrontendDir:        getEnv("FRONTEND_DIR", "./frontend"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Driver:     driver,
			Connection: dsn,
		},
		Keys: APIKeys{
			OpenAI:    getEnv("OPENAI_API_KEY", ""),
			Anthropic: getEnv("ANTHROPIC_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   llmProvider,
			LLMModel:      llmModel,
			SummaryModel:  getEnv("LLM_SUMMARY_MODEL", llmModel),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Temperature:   getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:     getEnvAsInt("LLM_MAX_TOKENS", 800),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Memory: MemoryConfig{
			WindowTurns:           getEnvAsInt("MEMORY_WINDOW_TURNS", 5),
			ReplyMaxChars:         getEnvAsInt("REPLY_MAX_CHARS", 4000),
			SummaryMaxWords:       getEnvAsInt("SUMMARY_MAX_WORDS", 150),
			SummaryTimeout:        getEnvAsDuration("SUMMARY_TIMEOUT", 60*time.Second),
			SummaryWorkers:        getEnvAsInt("SUMMARY_WORKERS", 4),
			SummaryTopic:          getEnv("SUMMARY_TOPIC", "REFRESH_CONTEXT_SUMMARY"),
			RetainHistoryOnDelete: getEnvAsBool("HISTORY_RETAIN_ON_DELETE", false),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "fubot-backend"),
		},
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-3-5-haiku-latest"
	case "ollama":
		return "llama3"
	default:
		return "gpt-4o"
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
