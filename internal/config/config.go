// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	RunMode     string
	LogLevel    string
	Trends      TrendsConfig
	Content     ContentConfig
	Storage     StorageConfig
	Publish     PublishConfig
	Scheduler   SchedulerConfig
	Server      ServerConfig
	NATS        NATSConfig
}

// TrendsConfig holds trend source configuration
type TrendsConfig struct {
	Region          string
	Language        string
	TimezoneOffset  int
	RequestTimeout  time.Duration
	MaxKeywords     int
	InterestBatch   int
	RelatedKeywords int
}

// ContentConfig holds post generation configuration. The length bounds are
// advisory: composed posts are not truncated or padded to fit them.
type ContentConfig struct {
	MaxPosts        int
	HashtagsPerPost int
	MinPostLength   int
	MaxPostLength   int
	Hashtags        []string
	Templates       map[string][]string
}

// StorageConfig holds flat-file storage configuration
type StorageConfig struct {
	DataDir          string
	ProcessedLogPath string
}

// PublishConfig holds platform dispatch configuration
type PublishConfig struct {
	Enabled             bool
	PostsPerRun         int
	TwitterAPIKey       string
	TwitterAPISecret    string
	TwitterAccessToken  string
	TwitterAccessSecret string
}

// SchedulerConfig holds run scheduling configuration
type SchedulerConfig struct {
	Interval   time.Duration
	RunAtStart bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Enabled         bool
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	EventsTopic    string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		RunMode:     getEnv("RUN_MODE", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Trends: TrendsConfig{
			Region:          getEnv("TRENDS_REGION", "KE"),
			Language:        getEnv("TRENDS_LANGUAGE", "en-KE"),
			TimezoneOffset:  getEnvAsInt("TRENDS_TIMEZONE_OFFSET", 180),
			RequestTimeout:  getEnvAsDuration("TRENDS_REQUEST_TIMEOUT", 10*time.Second),
			MaxKeywords:     getEnvAsInt("TRENDS_MAX_KEYWORDS", 10),
			InterestBatch:   getEnvAsInt("TRENDS_INTEREST_BATCH", 5),
			RelatedKeywords: getEnvAsInt("TRENDS_RELATED_KEYWORDS", 3),
		},
		Content: ContentConfig{
			MaxPosts:        getEnvAsInt("CONTENT_MAX_POSTS", 5),
			HashtagsPerPost: getEnvAsInt("CONTENT_HASHTAGS_PER_POST", 3),
			MinPostLength:   getEnvAsInt("CONTENT_MIN_POST_LENGTH", 50),
			MaxPostLength:   getEnvAsInt("CONTENT_MAX_POST_LENGTH", 280),
			Hashtags:        getEnvAsSlice("CONTENT_HASHTAGS", defaultHashtags()),
			Templates:       defaultTemplates(),
		},
		Storage: StorageConfig{
			DataDir:          getEnv("STORAGE_DATA_DIR", "data"),
			ProcessedLogPath: getEnv("STORAGE_PROCESSED_LOG", "previous_trends.json"),
		},
		Publish: PublishConfig{
			Enabled:             getEnvAsBool("PUBLISH_ENABLED", false),
			PostsPerRun:         getEnvAsInt("PUBLISH_POSTS_PER_RUN", 2),
			TwitterAPIKey:       getEnv("TWITTER_API_KEY", ""),
			TwitterAPISecret:    getEnv("TWITTER_API_SECRET", ""),
			TwitterAccessToken:  getEnv("TWITTER_ACCESS_TOKEN", ""),
			TwitterAccessSecret: getEnv("TWITTER_ACCESS_TOKEN_SECRET", ""),
		},
		Scheduler: SchedulerConfig{
			Interval:   getEnvAsDuration("SCHEDULER_INTERVAL", 6*time.Hour),
			RunAtStart: getEnvAsBool("SCHEDULER_RUN_AT_START", true),
		},
		Server: ServerConfig{
			Enabled:         getEnvAsBool("SERVER_ENABLED", true),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			EventsTopic:    getEnv("NATS_EVENTS_TOPIC", "trends"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Content.MaxPosts <= 0 {
		return fmt.Errorf("content max posts must be positive")
	}

	if config.Content.MaxPostLength > 0 && config.Content.MinPostLength > config.Content.MaxPostLength {
		return fmt.Errorf(
			"min post length (%d) exceeds max post length (%d)",
			config.Content.MinPostLength, config.Content.MaxPostLength,
		)
	}

	if len(config.Content.Hashtags) < config.Content.HashtagsPerPost {
		return fmt.Errorf(
			"hashtag pool (%d) is smaller than hashtags per post (%d)",
			len(config.Content.Hashtags), config.Content.HashtagsPerPost,
		)
	}

	for category, pool := range config.Content.Templates {
		if len(pool) == 0 {
			return fmt.Errorf("template pool for category %q is empty", category)
		}
	}

	if config.Publish.Enabled && config.Publish.PostsPerRun <= 0 {
		return fmt.Errorf("publish posts per run must be positive when publishing is enabled")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
