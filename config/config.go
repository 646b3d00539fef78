package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string

	// Database configuration
	DatabaseURL  string // postgres://... or sqlite://path, file:path, *.db
	DatabaseName string // Appended to a postgres DatabaseURL when set
	AutoMigrate  bool   // Apply pending migrations on startup

	// Queue configuration
	QueueCapacity       int
	QueueEnqueueTimeout time.Duration // Upper bound on waiting for a full queue

	// NATS configuration
	NATSURL string // Optional; domain events are forwarded when set

	// Debug API configuration
	DebugAPIAddr string // Empty disables the debug API

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

const (
	DefaultQueueCapacity       = 100
	DefaultQueueEnqueueTimeout = 5 * time.Second
	DefaultDebugAPIAddr        = "127.0.0.1:8899"
	DefaultDatabaseURL         = "sqlite:///data/bot.db"
)

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Init loads the configuration and installs it as the global instance.
// Unlike Get it reports a configuration error instead of panicking.
func Init() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	instance = cfg
	return cfg, nil
}

// Load reads the configuration from the environment without touching the singleton.
// Callers that want to report a configuration error instead of panicking use this.
func Load() (*Config, error) {
	return load()
}

// LoadDatabaseURL returns DATABASE_URL and DATABASE_NAME without validating anything else.
// The migrate commands use it so they run without a Discord token.
func LoadDatabaseURL() (string, string) {
	loadDotEnv()
	return getEnvWithDefault("DATABASE_URL", DefaultDatabaseURL), os.Getenv("DATABASE_NAME")
}

// loadDotEnv reads an optional .env file; existing environment variables win
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn(".env file could not be loaded")
	}
}

// load loads configuration from environment variables, after an optional .env file
func load() (*Config, error) {
	loadDotEnv()

	config := &Config{
		// Discord
		DiscordToken: os.Getenv("DISCORD_TOKEN"),

		// Database
		DatabaseURL:  getEnvWithDefault("DATABASE_URL", DefaultDatabaseURL),
		DatabaseName: os.Getenv("DATABASE_NAME"),
		AutoMigrate:  true,

		// Queue
		QueueCapacity:       DefaultQueueCapacity,
		QueueEnqueueTimeout: DefaultQueueEnqueueTimeout,

		// NATS
		NATSURL: os.Getenv("NATS_URL"),

		// Debug API
		DebugAPIAddr: getEnvWithDefault("DEBUG_API_ADDR", DefaultDebugAPIAddr),

		// Logging
		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if autoMigrate := os.Getenv("AUTO_MIGRATE"); autoMigrate != "" {
		parsed, err := strconv.ParseBool(autoMigrate)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTO_MIGRATE value %q: %w", autoMigrate, err)
		}
		config.AutoMigrate = parsed
	}
	if capacity := os.Getenv("QUEUE_CAPACITY"); capacity != "" {
		parsed, err := strconv.Atoi(capacity)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("QUEUE_CAPACITY must be a positive integer, got %q", capacity)
		}
		config.QueueCapacity = parsed
	}
	if timeout := os.Getenv("QUEUE_ENQUEUE_TIMEOUT"); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("QUEUE_ENQUEUE_TIMEOUT must be a positive duration, got %q", timeout)
		}
		config.QueueEnqueueTimeout = parsed
	}
	// DEBUG_API_ADDR explicitly set to empty disables the debug API
	if addr, ok := os.LookupEnv("DEBUG_API_ADDR"); ok {
		config.DebugAPIAddr = strings.TrimSpace(addr)
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if strings.TrimSpace(config.DatabaseURL) == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

// IsProduction reports whether the bot runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		DiscordToken:        "test-token",
		DatabaseURL:         "sqlite://registrar-test.db",
		AutoMigrate:         true,
		QueueCapacity:       DefaultQueueCapacity,
		QueueEnqueueTimeout: DefaultQueueEnqueueTimeout,
		LogLevel:            "debug",
		Environment:         "test",
	}
}
