package graphrag

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soundprediction/go-graphrag/pkg/config"
	"github.com/soundprediction/go-graphrag/pkg/logger"
)

var chatVerbose bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question answering over the knowledge graph",
	Long: `Start an interactive chat session. Each question runs one full pipeline
turn against the knowledge graph.

Type 'quit' to exit and 'verbose' to toggle diagnostic output.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "Show per-step diagnostics and retrieved facts")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	verbose := chatVerbose
	log := chatLogger(cfg, chatVerbose)

	pipeline, _, _, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer pipeline.Close(context.Background())

	fmt.Println("graphrag chat — type 'quit' to exit, 'verbose' to toggle diagnostics")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(question) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return nil
		case "verbose":
			verbose = !verbose
			fmt.Printf("verbose: %v\n", verbose)
			continue
		case "":
			continue
		}

		turn, err := pipeline.Answer(cmd.Context(), question)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		if turn == nil {
			continue
		}

		if verbose {
			fmt.Printf("Entities: %v\n", turn.Entities)
			for _, fact := range turn.Facts() {
				fmt.Printf("  %s\n", fact)
			}
			for _, d := range turn.Diagnostics {
				status := "ok"
				if !d.OK {
					status = d.Error
				}
				fmt.Printf("  [%s %s] %s (%s)\n", d.Step, d.Entity, status, d.Elapsed)
			}
		}
		if turn.Answer != "" {
			fmt.Printf("\n%s\n\n", turn.Answer)
		}
	}
}

func chatLogger(cfg *config.Config, verbose bool) *slog.Logger {
	level := logger.ParseLevel(cfg.Log.Level)
	if verbose {
		level = slog.LevelDebug
	}
	return logger.NewDefaultLogger(level)
}
