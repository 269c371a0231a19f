package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/groqcli/internal/config"
	"github.com/user/groqcli/internal/imagesource"
	"github.com/user/groqcli/pkg/llm"
	"github.com/user/groqcli/pkg/llm/openai"
)

var envPath string

var rootCmd = &cobra.Command{
	Use:           "groqcli",
	Short:         "Chat and vision prompts against a Groq (OpenAI-compatible) API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envPath, "env", config.DefaultEnvFile, "KEY=VALUE file with settings")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the configuration and sets up logging. It exits on failure.
func loadConfig() *config.Config {
	cfg, err := config.Load(envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func newProvider(cfg *config.Config) llm.Provider {
	return openai.New(&llm.Config{
		BaseURL: cfg.Groq.BaseURL,
		APIKey:  cfg.Groq.APIKey,
		Timeout: cfg.Groq.Timeout,
	})
}

func newResolver(cfg *config.Config) *imagesource.Resolver {
	return imagesource.New(imagesource.WithTimeout(cfg.Image.FetchTimeout))
}
