package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	WidgetStoreMemory = "memory"
	WidgetStoreDynamo = "dynamo"
)

type Config struct {
	Environment      string
	LogLevel         zerolog.Level
	HTTPTimeout      time.Duration
	MaxRetries       int
	OpenMeteoBaseURL string
	GeocodingBaseURL string
	ServerPort       string
	WidgetStore      string
	WidgetsTable     string
	// DynamoEndpoint points the widget store at DynamoDB Local when set
	DynamoEndpoint string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout sets the timeout applied to every weather provider fetch
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.HTTPTimeout = timeout
		}
	}
}

func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

func WithOpenMeteoBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.OpenMeteoBaseURL = baseURL
	}
}

func WithGeocodingBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.GeocodingBaseURL = baseURL
	}
}

func WithServerPort(port string) Option {
	return func(c *Config) {
		c.ServerPort = port
	}
}

// WithWidgetStore selects the widget persistence backend ("memory" or "dynamo")
func WithWidgetStore(store, table string) Option {
	return func(c *Config) {
		switch store {
		case WidgetStoreMemory, WidgetStoreDynamo:
			c.WidgetStore = store
		default:
			log.Warn().Str("store", store).Msg("Unknown widget store, using memory")
			c.WidgetStore = WidgetStoreMemory
		}
		if table != "" {
			c.WidgetsTable = table
		}
	}
}

func WithDynamoEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.DynamoEndpoint = endpoint
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:      "production",
		LogLevel:         zerolog.InfoLevel,
		HTTPTimeout:      10 * time.Second,
		MaxRetries:       3,
		OpenMeteoBaseURL: "https://api.open-meteo.com",
		GeocodingBaseURL: "https://geocoding-api.open-meteo.com",
		ServerPort:       "5000",
		WidgetStore:      WidgetStoreMemory,
		WidgetsTable:     "weather-widgets",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LoadFromEnv loads configuration from environment variables, reading an
// optional .env file first
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 10))*time.Second),
		WithMaxRetries(getEnvInt("HTTP_MAX_RETRIES", 3)),
		WithOpenMeteoBaseURL(getEnvOrDefault("WEATHER_API_URL", "https://api.open-meteo.com")),
		WithGeocodingBaseURL(getEnvOrDefault("GEOCODING_API_URL", "https://geocoding-api.open-meteo.com")),
		WithServerPort(getEnvOrDefault("PORT", "5000")),
		WithWidgetStore(getEnvOrDefault("WIDGET_STORE", WidgetStoreMemory), os.Getenv("WIDGETS_TABLE")),
		WithDynamoEndpoint(os.Getenv("DYNAMODB_ENDPOINT")),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
