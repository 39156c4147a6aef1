package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Optional credential; only switches the "connected" labels
	AIAPIKey string

	// Simulated latencies
	TutorResponseDelay  time.Duration
	NoteProcessingDelay time.Duration

	// Note pipeline workers
	WorkerCount int

	// Relay voice capture/playback to the connected browser
	BrowserVoice bool

	// Redis (optional event bus)
	RedisURL string

	// Study plan seed file (optional YAML)
	StudyPlanSeed string

	// Logging
	LogLevel string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 getEnvOrDefault("ENV", "development"),
		AIAPIKey:            getEnvOrDefault("AI_API_KEY", ""),
		TutorResponseDelay:  getEnvAsDurationMs("TUTOR_RESPONSE_DELAY_MS", 1500*time.Millisecond),
		NoteProcessingDelay: getEnvAsDurationMs("NOTE_PROCESSING_DELAY_MS", 3000*time.Millisecond),
		WorkerCount:         getEnvAsIntOrDefault("WORKER_COUNT", 5),
		BrowserVoice:        getEnvAsBoolOrDefault("BROWSER_VOICE", true),
		RedisURL:            getEnvOrDefault("REDIS_URL", ""),
		StudyPlanSeed:       getEnvOrDefault("STUDY_PLAN_SEED", ""),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// HasCredential reports whether an AI credential was configured. It is never
// sent anywhere.
func (c *Config) HasCredential() bool {
	return c.AIAPIKey != ""
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationMs(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return defaultVal
	}
	return time.Duration(n) * time.Millisecond
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
