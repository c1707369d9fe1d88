package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// ErrConfiguration indicates missing or invalid startup configuration.
var ErrConfiguration = errors.New("invalid configuration")

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// LLM configuration
	LLM LLMConfig `mapstructure:"llm"`

	// Pipeline configuration
	Pipeline PipelineConfig `mapstructure:"pipeline"`

	// Cache configuration
	Cache CacheConfig `mapstructure:"cache"`

	// Ingest configuration
	Ingest IngestConfig `mapstructure:"ingest"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds graph database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // neo4j
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// LLMConfig holds LLM configuration
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // groq, openai
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// PipelineConfig holds retrieval pipeline configuration
type PipelineConfig struct {
	// MaxDepth is the traversal path-length ceiling.
	MaxDepth int `mapstructure:"max_depth"`
	// MaxFacts caps the assembled context size.
	MaxFacts int `mapstructure:"max_facts"`
	// TraversalWorkers bounds concurrent per-entity traversal.
	TraversalWorkers int `mapstructure:"traversal_workers"`
	// ExtractRetries is the retry budget for malformed extraction output.
	ExtractRetries int `mapstructure:"extract_retries"`
	// QueryTimeout bounds each graph store round trip.
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// CacheConfig holds ingestion cache configuration
type CacheConfig struct {
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// IngestConfig holds document ingestion configuration
type IngestConfig struct {
	Workers   int `mapstructure:"workers"`
	BatchSize int `mapstructure:"batch_size"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// Validate checks the credentials required before any Turn can run.
func (c *Config) Validate() error {
	if c.Database.URI == "" {
		return fmt.Errorf("%w: database URI is required", ErrConfiguration)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: LLM API key is required", ErrConfiguration)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid port %d", ErrConfiguration, c.Server.Port)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	// Database defaults
	viper.SetDefault("database.driver", "neo4j")
	viper.SetDefault("database.uri", "bolt://localhost:7687")
	viper.SetDefault("database.username", "neo4j")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "neo4j")

	// LLM defaults match the source system: Groq with temperature 0
	viper.SetDefault("llm.provider", "groq")
	viper.SetDefault("llm.model", "llama-3.3-70b-versatile")
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.max_tokens", 2048)
	viper.SetDefault("llm.timeout", "60s")

	// Pipeline defaults
	viper.SetDefault("pipeline.max_depth", 10)
	viper.SetDefault("pipeline.max_facts", 200)
	viper.SetDefault("pipeline.traversal_workers", 4)
	viper.SetDefault("pipeline.extract_retries", 2)
	viper.SetDefault("pipeline.query_timeout", "30s")

	// Cache defaults
	viper.SetDefault("cache.path", "graphrag-cache")
	viper.SetDefault("cache.ttl", "720h")

	// Ingest defaults
	viper.SetDefault("ingest.workers", 8)
	viper.SetDefault("ingest.batch_size", 100)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" && config.LLM.Provider == "groq" {
		config.LLM.APIKey = apiKey
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" && config.LLM.APIKey == "" {
		config.LLM.APIKey = apiKey
	}

	// Database credentials
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Database.URI = uri
	}
	if user := os.Getenv("NEO4J_USERNAME"); user != "" {
		config.Database.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Database.Password = pass
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
}
