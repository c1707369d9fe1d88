package graphrag

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	root "github.com/soundprediction/go-graphrag"
	"github.com/soundprediction/go-graphrag/pkg/config"
	"github.com/soundprediction/go-graphrag/pkg/driver"
	"github.com/soundprediction/go-graphrag/pkg/llm"
	"github.com/soundprediction/go-graphrag/pkg/logger"
	"github.com/soundprediction/go-graphrag/pkg/traverser"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "graphrag",
	Short: "Hybrid graph-RAG question answering",
	Long: `graphrag answers natural-language questions by extracting entities with a
language model, traversing a knowledge graph for the facts connected to them,
and synthesizing an answer grounded on those facts.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default graphrag.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.AutomaticEnv()
	viper.BindEnv("database.uri", "NEO4J_URI")
	viper.BindEnv("database.username", "NEO4J_USERNAME")
	viper.BindEnv("database.password", "NEO4J_PASSWORD")
	viper.BindEnv("database.database", "NEO4J_DATABASE")
	viper.BindEnv("llm.api_key", "GROQ_API_KEY", "OPENAI_API_KEY")
	viper.BindEnv("llm.base_url", "LLM_BASE_URL")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("graphrag")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.graphrag")
	}

	// Missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

// buildPipeline wires the driver, LLM client and pipeline from config.
// Callers own closing the returned client.
func buildPipeline(cfg *config.Config, log *slog.Logger) (*root.Client, *driver.Neo4jDriver, llm.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	graphDriver, err := driver.NewNeo4jDriver(
		cfg.Database.URI,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Database,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create graph driver: %w", err)
	}

	llmClient, err := buildLLMClient(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	pipeline := root.NewClient(graphDriver, llmClient, &root.Config{
		MaxDepth:         cfg.Pipeline.MaxDepth,
		MaxFacts:         cfg.Pipeline.MaxFacts,
		TraversalWorkers: cfg.Pipeline.TraversalWorkers,
		ExtractRetries:   cfg.Pipeline.ExtractRetries,
		QueryTimeout:     cfg.Pipeline.QueryTimeout,
		Logger:           log,
	})

	return pipeline, graphDriver, llmClient, nil
}

func buildLLMClient(cfg *config.Config) (llm.Client, error) {
	llmConfig := llm.Config{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}

	var client llm.Client
	switch cfg.LLM.Provider {
	case "groq":
		client = llm.NewGroqClient(llmConfig)
	case "openai":
		client = llm.NewOpenAIClient(llmConfig)
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", config.ErrConfiguration, cfg.LLM.Provider)
	}

	return llm.NewBreakerClient(client), nil
}

func newTraverser(graphDriver *driver.Neo4jDriver, cfg *config.Config, log *slog.Logger) *traverser.Traverser {
	return traverser.New(graphDriver, traverser.Options{
		MaxDepth:     cfg.Pipeline.MaxDepth,
		QueryTimeout: cfg.Pipeline.QueryTimeout,
		Logger:       log,
	})
}

func newLoggerFromConfig(cfg *config.Config) *slog.Logger {
	return logger.NewDefaultLogger(logger.ParseLevel(cfg.Log.Level))
}
