package graphrag

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/go-graphrag/pkg/cache"
	"github.com/soundprediction/go-graphrag/pkg/config"
	"github.com/soundprediction/go-graphrag/pkg/ingest"
	"github.com/soundprediction/go-graphrag/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the graphrag HTTP server",
	Long: `Start the HTTP server exposing the question-answering pipeline.

Endpoints:
- POST /answer        answer a question from graph facts
- GET  /graph/:entity relationship data for graph visualization
- POST /ingest        ingest a CSV file into the graph
- GET  /health        connectivity check`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "Server host")
	serveCmd.Flags().Int("port", 8080, "Server port")
	serveCmd.Flags().String("mode", "release", "Server mode (debug, release, test)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyServeFlags(cmd, cfg)

	log := newLoggerFromConfig(cfg)

	pipeline, graphDriver, llmClient, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer pipeline.Close(context.Background())

	ingestCache, err := cache.NewBadgerCache(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("failed to open ingest cache: %w", err)
	}
	defer ingestCache.Close()

	transformer := ingest.NewTransformer(llmClient, ingestCache, cfg.Ingest.Workers, log)
	ingestor := ingest.NewIngestor(graphDriver, transformer, log)

	srv := server.New(&cfg.Server, server.Dependencies{
		Pipeline:  pipeline,
		Traverser: newTraverser(graphDriver, cfg, log),
		Ingestor:  ingestor,
		Store:     graphDriver,
	})
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Info("shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	}
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode, _ = cmd.Flags().GetString("mode")
	}
}
