package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	EventBusName  string

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Skip engine configuration
	SkipEngineBaseURL  string
	SkipEngineAPIKey   string
	GeocoderBaseURL    string
	RequestTimeoutSecs int

	// Persistence selection: "memory" keeps sessions in process,
	// "dynamodb" snapshots them to the configured table
	PersistenceDriver string

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "mnuda-sessions")),
		EventBusName:  getEnv("EVENT_BUS_NAME", "mnuda-events"),

		IsLambda:           getEnvBool("IS_LAMBDA", false),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		SkipEngineBaseURL:  getEnv("SKIP_ENGINE_BASE_URL", "https://api.skipengine.example.com"),
		SkipEngineAPIKey:   getEnv("SKIP_ENGINE_API_KEY", ""),
		GeocoderBaseURL:    getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		RequestTimeoutSecs: getEnvInt("REQUEST_TIMEOUT_SECS", 30),

		PersistenceDriver: getEnv("PERSISTENCE_DRIVER", "memory"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig for backwards compatibility
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.PersistenceDriver != "memory" && c.PersistenceDriver != "dynamodb" {
		return fmt.Errorf("PERSISTENCE_DRIVER must be memory or dynamodb, got %q", c.PersistenceDriver)
	}
	if c.Environment == "production" {
		if c.SkipEngineAPIKey == "" {
			return fmt.Errorf("SKIP_ENGINE_API_KEY is required in production")
		}
		if c.PersistenceDriver == "dynamodb" && c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
