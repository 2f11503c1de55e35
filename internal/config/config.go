// Package config provides configuration for the chat service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the chat service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Auth
	JWTSecret string

	// Agent workflow
	AgentEndpoint string
	AgentTimeout  time.Duration

	// LLM (completions for title generation)
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Title generation
	TitleMinQuestionLength int
	TitlePrompt            string

	// Chat turn behavior
	HistoryLimit int

	// Reports tool
	WeaviateHost   string
	WeaviateScheme string
	GDABaseURL     string
	ReportsBaseURL string

	// Logging
	LogLevel string
}

// DefaultTitlePrompt asks the model for a short conversational title.
const DefaultTitlePrompt = "Generate a short title for a conversation that starts with the following question. Reply with the title only.\n\nQuestion: %s"

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:               getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:            getEnv("DATABASE_URL", "file:genai_chat.db?cache=shared&mode=rwc"),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		AgentEndpoint:          getEnv("AGENT_ENDPOINT", "http://localhost:8100"),
		AgentTimeout:           time.Duration(getEnvInt("AGENT_TIMEOUT_MS", 300000)) * time.Millisecond,
		LLMBaseURL:             getEnv("LLM_BASE_URL", "http://localhost:4000/v1"),
		LLMAPIKey:              getEnv("LLM_API_KEY", ""),
		LLMModel:               getEnv("LLM_MODEL", "llama3-8b"),
		LLMTimeout:             time.Duration(getEnvInt("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		TitleMinQuestionLength: getEnvInt("TITLE_MIN_QUESTION_LENGTH", 30),
		TitlePrompt:            getEnv("TITLE_PROMPT", DefaultTitlePrompt),
		HistoryLimit:           getEnvInt("HISTORY_LIMIT", 20),
		WeaviateHost:           getEnv("WEAVIATE_HOST", "localhost:8082"),
		WeaviateScheme:         getEnv("WEAVIATE_SCHEME", "http"),
		GDABaseURL:             getEnv("GDA_BASE_URL", "http://localhost:8200"),
		ReportsBaseURL:         getEnv("REPORTS_BASE_URL", "http://localhost:8300"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
