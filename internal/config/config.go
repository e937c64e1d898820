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
	OpenSCAD OpenSCADConfig
	Ai       AIConfig
	Agent    AgentConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	DataDir            string
}

type OpenSCADConfig struct {
	BinaryPath string
	Timeout    time.Duration
}

type AIConfig struct {
	LLMProvider  string // "anthropic"
	LLMModel     string
	AnthropicKey string
	AnthropicURL string
}

type AgentConfig struct {
	TargetScore       int
	MaxIterations     int
	SessionTTL        time.Duration
	AllowPostConverge bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
			DataDir:            getEnv("DATA_DIR", "data"),
		},
		OpenSCAD: OpenSCADConfig{
			BinaryPath: getEnv("OPENSCAD_PATH", ""),
			Timeout:    time.Duration(getEnvAsInt("OPENSCAD_TIMEOUT", 600)) * time.Second,
		},
		Ai: AIConfig{
			LLMProvider:  getEnv("LLM_PROVIDER", "anthropic"),
			LLMModel:     getEnv("LLM_MODEL", "claude-opus-4-20250514"),
			AnthropicKey: getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicURL: getEnv("ANTHROPIC_BASE_URL", ""),
		},
		Agent: AgentConfig{
			TargetScore:       getEnvAsInt("AGENT_TARGET_SCORE", 8),
			MaxIterations:     getEnvAsInt("AGENT_MAX_ITERATIONS", 8),
			SessionTTL:        time.Duration(getEnvAsInt("AGENT_SESSION_TTL", 1800)) * time.Second,
			AllowPostConverge: getEnvAsBool("AGENT_ALLOW_POST_CONVERGED", true),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
