package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type StorageConfig struct {
	DataDir        string
	HistoryBackend string // "file" or "database"
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	VLLMEndpoint     string
	VLLMModel        string
	MaxContextTokens int
	RequestTimeout   int // seconds
	SourceLanguage   string
	TargetLanguage   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Storage: StorageConfig{
			DataDir:        getEnv("DATA_DIR", "data"),
			HistoryBackend: getEnv("HISTORY_BACKEND", "file"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			VLLMEndpoint:     getEnv("VLLM_ENDPOINT", "http://localhost:8001/v1"),
			VLLMModel:        getEnv("VLLM_MODEL", "Qwen/Qwen2.5-7B-Instruct"),
			MaxContextTokens: getEnvAsInt("MAX_CONTEXT_TOKENS", 16384),
			RequestTimeout:   getEnvAsInt("LLM_REQUEST_TIMEOUT", 300),
			SourceLanguage:   getEnv("SOURCE_LANGUAGE", "Chinese"),
			TargetLanguage:   getEnv("TARGET_LANGUAGE", "English"),
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
