package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("NEO4J_URI", "")
	t.Setenv("NEO4J_USERNAME", "")
	t.Setenv("NEO4J_PASSWORD", "")
	t.Setenv("SERVER_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "neo4j", cfg.Database.Driver)
	assert.Equal(t, "bolt://localhost:7687", cfg.Database.URI)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Zero(t, cfg.LLM.Temperature)
	assert.Equal(t, 10, cfg.Pipeline.MaxDepth)
	assert.Equal(t, 200, cfg.Pipeline.MaxFacts)
	assert.Equal(t, 4, cfg.Pipeline.TraversalWorkers)
	assert.Equal(t, 2, cfg.Pipeline.ExtractRetries)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.QueryTimeout)
	assert.Equal(t, "graphrag-cache", cfg.Cache.Path)
	assert.Equal(t, 8, cfg.Ingest.Workers)
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("NEO4J_URI", "bolt://graph.internal:7687")
	t.Setenv("NEO4J_USERNAME", "reader")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("SERVER_HOST", "0.0.0.0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gsk-test", cfg.LLM.APIKey)
	assert.Equal(t, "bolt://graph.internal:7687", cfg.Database.URI)
	assert.Equal(t, "reader", cfg.Database.Username)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Database: DatabaseConfig{URI: "bolt://localhost:7687"},
		LLM:      LLMConfig{APIKey: "key"},
		Server:   ServerConfig{Port: 8080},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database URI", func(c *Config) { c.Database.URI = "" }},
		{"missing API key", func(c *Config) { c.LLM.APIKey = "" }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}
