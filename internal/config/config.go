package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers accepted by STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config is the top-level application configuration.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Store     StoreConfig
	Mongo     MongoConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

// AppConfig holds HTTP server settings.
type AppConfig struct {
	Name            string
	Env             string
	Port            string
	BasePath        string
	ShutdownTimeout time.Duration
}

// LogConfig sets the zap log level.
type LogConfig struct {
	Level string
}

// StoreConfig selects the sales storage backend.
type StoreConfig struct {
	Driver string
}

// MongoConfig holds MongoDB connection parameters.
type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

// CORSConfig lists the allowed origins. "*" or an empty list allows all.
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig configures the token bucket shared by the report routes.
// RequestsPerSecond <= 0 disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads the optional env file at path and then the process environment.
// Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
		}
	}

	v.SetDefault("APP_NAME", "sales-reports")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("RUNNING_PORT", "8081")
	v.SetDefault("API_BASE_PATH", "/api/v1")
	v.SetDefault("SHUTDOWN_TIMEOUT", 15)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "sales")
	v.SetDefault("MONGO_COLLECTION", "sales")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", 10)
	v.SetDefault("MONGO_QUERY_TIMEOUT", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)

	cfg := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Env:             v.GetString("APP_ENV"),
			Port:            v.GetString("RUNNING_PORT"),
			BasePath:        v.GetString("API_BASE_PATH"),
			ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("MONGO_URI"),
			Database:       v.GetString("MONGO_DATABASE"),
			Collection:     v.GetString("MONGO_COLLECTION"),
			ConnectTimeout: time.Duration(v.GetInt("MONGO_CONNECT_TIMEOUT")) * time.Second,
			QueryTimeout:   time.Duration(v.GetInt("MONGO_QUERY_TIMEOUT")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.App.Port == "" {
		return fmt.Errorf("RUNNING_PORT must not be empty")
	}
	return nil
}

// IsDevelopment reports whether the app runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
