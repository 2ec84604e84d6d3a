package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	QuizAPIBaseURL     string
	HTTPTimeout        time.Duration
	ResultsThreshold   int
	DBPath             string
	HistoryEnabled     bool
	HistoryWorkerCount int
	HistoryQueueSize   int
	LogLevel           string
	LogFormat          string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		QuizAPIBaseURL:     envOr("QUIZ_API_BASE_URL", "http://localhost:8000"),
		HTTPTimeout:        envDurationOr("HTTP_TIMEOUT", 10*time.Second),
		ResultsThreshold:   envIntOr("RESULTS_THRESHOLD", 5),
		DBPath:             envOr("DB_PATH", "file:quizflash.db"),
		HistoryEnabled:     envBoolOr("HISTORY_ENABLED", true),
		HistoryWorkerCount: envIntOr("HISTORY_WORKER_COUNT", 1),
		HistoryQueueSize:   envIntOr("HISTORY_QUEUE_SIZE", 64),
		LogLevel:           strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		LogFormat:          strings.ToLower(envOr("LOG_FORMAT", "pretty")),
	}
}

// Validate reports the first invalid setting, naming its environment key.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.QuizAPIBaseURL) == "" {
		return fmt.Errorf("QUIZ_API_BASE_URL cannot be empty")
	}
	u, err := url.Parse(c.QuizAPIBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("QUIZ_API_BASE_URL must be an absolute http(s) URL, got %q", c.QuizAPIBaseURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}
	if c.ResultsThreshold <= 0 {
		return fmt.Errorf("RESULTS_THRESHOLD must be positive, got %d", c.ResultsThreshold)
	}
	if c.HistoryEnabled {
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("DB_PATH cannot be empty when history is enabled")
		}
		if c.HistoryWorkerCount <= 0 {
			return fmt.Errorf("HISTORY_WORKER_COUNT must be positive, got %d", c.HistoryWorkerCount)
		}
		if c.HistoryQueueSize <= 0 {
			return fmt.Errorf("HISTORY_QUEUE_SIZE must be positive, got %d", c.HistoryQueueSize)
		}
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "pretty", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be pretty or json, got %q", c.LogFormat)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
