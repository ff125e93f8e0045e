package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"clipforge/internal/config"
	"clipforge/internal/logger"
	"clipforge/internal/pipeline"
	"clipforge/internal/watcher"
)

// One split of a long recording should never take this long.
const runTimeout = 3 * time.Hour

func runOnce(cmd *cobra.Command, input string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	req := pipeline.Request{InputPath: absIn, Cfg: cfg, Log: log}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	runDir, err := pipeline.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), runDir)
	return nil
}

func runWatch(cmd *cobra.Command, dir string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	handle := func(ctx context.Context, path string) error {
		ctx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()
		req := pipeline.Request{InputPath: path, Cfg: cfg, Log: log}
		if err := req.Validate(); err != nil {
			return err
		}
		_, err := pipeline.Run(ctx, req)
		return err
	}

	w, err := watcher.New(absDir, handle, log, cfg.Watch.MaxConcurrent)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// loadConfig merges the yaml file, flags and environment into one validated
// Config. The environment is read here and nowhere else.
func loadConfig(cmd *cobra.Command) (config.Config, logger.Logger, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.Paths.Output = out
	}
	if n, _ := cmd.Flags().GetInt("count"); n != 0 {
		cfg.Segments.Count = n
	}
	if v, _ := cmd.Flags().GetFloat64("min"); v != 0 {
		cfg.Segments.MinDuration = v
	}
	if v, _ := cmd.Flags().GetFloat64("max"); v != 0 {
		cfg.Segments.MaxDuration = v
	}
	if p, _ := cmd.Flags().GetString("position"); p != "" {
		cfg.Overlay.Position = p
	}

	cfg.Providers.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Providers.OpenRouterAPIKey = os.Getenv("OPENROUTER_API_KEY")
	cfg.Providers.GeminiAPIKeys = splitKeys(os.Getenv("GEMINI_API_KEYS"))
	if cfg.Providers.OpenRouterBaseURL == "" {
		cfg.Providers.OpenRouterBaseURL = os.Getenv("OPENROUTER_BASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	return cfg, logger.New(cfg.Logging.Level), nil
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
