package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Discovery modes
const (
	DiscoveryStatic = "static"
	DiscoveryFeed   = "feed"
)

// Run modes
const (
	RunOnce   = "once"
	RunDaemon = "daemon"
)

// Config holds all application configuration
type Config struct {
	// Results and events feed
	OddsAPIKey     string
	OddsAPIBaseURL string
	DefaultSport   string
	LeagueSports   map[string]string
	FormDaysFrom   int
	RequestTimeout int // seconds
	RequestsPerSec int
	MaxRetries     int
	DiscoveryMode  string

	// Classifier
	ConfidenceThreshold float64
	ScorelineHomeMin    int
	ScorelineHomeMax    int
	ScorelineAwayMin    int
	ScorelineAwayMax    int

	// Runner
	RunMode             string
	ScheduleInterval    time.Duration
	AnalysisConcurrency int
	HTTPAddr            string
	LogLevel            string

	// Ledger
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sync sinks, each disabled when its address or token is empty
	RedisAddr        string
	RedisPassword    string
	RedisSyncKey     string
	TelegramBotToken string
	TelegramChatID   int64
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		OddsAPIKey:     os.Getenv("ODDS_API_KEY"),
		OddsAPIBaseURL: getEnvWithDefault("ODDS_API_BASE_URL", "https://api.the-odds-api.com/v4"),
		DefaultSport:   getEnvWithDefault("ODDS_SPORT", "basketball_wnba"),
		LeagueSports:   parseLeagueSports(getEnvWithDefault("LEAGUE_SPORTS", "WNBA=basketball_wnba,MLB=baseball_mlb")),
		FormDaysFrom:   getEnvIntWithDefault("FORM_DAYS_FROM", 30),
		RequestTimeout: getEnvIntWithDefault("REQUEST_TIMEOUT", 30),
		RequestsPerSec: getEnvIntWithDefault("REQUESTS_PER_SEC", 5),
		MaxRetries:     getEnvIntWithDefault("MAX_RETRIES", 3),
		DiscoveryMode:  strings.ToLower(getEnvWithDefault("DISCOVERY_MODE", DiscoveryStatic)),

		ConfidenceThreshold: getEnvFloatWithDefault("CONFIDENCE_THRESHOLD", 0.5),
		ScorelineHomeMin:    getEnvIntWithDefault("SCORELINE_HOME_MIN", 70),
		ScorelineHomeMax:    getEnvIntWithDefault("SCORELINE_HOME_MAX", 100),
		ScorelineAwayMin:    getEnvIntWithDefault("SCORELINE_AWAY_MIN", 60),
		ScorelineAwayMax:    getEnvIntWithDefault("SCORELINE_AWAY_MAX", 95),

		RunMode:             strings.ToLower(getEnvWithDefault("RUN_MODE", RunOnce)),
		ScheduleInterval:    getEnvDurationWithDefault("SCHEDULE_INTERVAL", 24*time.Hour),
		AnalysisConcurrency: getEnvIntWithDefault("ANALYSIS_CONCURRENCY", 4),
		HTTPAddr:            os.Getenv("HTTP_ADDR"),
		LogLevel:            getEnvWithDefault("LOG_LEVEL", "info"),

		DBHost:     getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnvWithDefault("DB_NAME", "analyzer_log"),
		DBSSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisSyncKey:     getEnvWithDefault("REDIS_SYNC_KEY", "analyzer_log"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with
func (c *Config) Validate() error {
	switch c.DiscoveryMode {
	case DiscoveryStatic, DiscoveryFeed:
	default:
		return fmt.Errorf("invalid DISCOVERY_MODE %q", c.DiscoveryMode)
	}
	switch c.RunMode {
	case RunOnce, RunDaemon:
	default:
		return fmt.Errorf("invalid RUN_MODE %q", c.RunMode)
	}
	if c.ConfidenceThreshold <= 0 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be positive, got %v", c.ConfidenceThreshold)
	}
	if c.ScorelineHomeMin > c.ScorelineHomeMax || c.ScorelineAwayMin > c.ScorelineAwayMax {
		return fmt.Errorf("scoreline ranges are inverted")
	}
	if c.RunMode == RunDaemon && c.ScheduleInterval <= 0 {
		return fmt.Errorf("SCHEDULE_INTERVAL must be positive in daemon mode")
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

// parseLeagueSports reads "WNBA=basketball_wnba,MLB=baseball_mlb"
func parseLeagueSports(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		league, sport, ok := strings.Cut(pair, "=")
		league, sport = strings.TrimSpace(league), strings.TrimSpace(sport)
		if !ok || league == "" || sport == "" {
			continue
		}
		out[league] = sport
	}
	return out
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
