package crawl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/139QQ/news-look-sub005/models"
)

// Action runs one crawl pass over every enabled source.
func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	// SIGINT cancels between articles; in-flight requests are abandoned.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summaries, err := RunAll(ctx, cfg, logger)
	if err != nil {
		return err
	}

	printSummaries(summaries)
	return nil
}

func loadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		// A missing config file falls back to defaults; anything else is fatal.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = models.DefaultConfig()
	}

	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("sources") {
		cfg.EnabledSources = strings.Split(c.String("sources"), ",")
	}
	if c.IsSet("max-retries") {
		cfg.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("timeout") {
		cfg.RequestTimeoutSeconds = c.Int("timeout")
	}
	return cfg, nil
}

func printSummaries(summaries []Summary) {
	fmt.Printf("%-12s %-12s %-8s %-8s %-8s %s\n",
		"Source", "Discovered", "Stored", "Skipped", "Failed", "Error")
	fmt.Println(strings.Repeat("-", 72))
	for _, s := range summaries {
		errText := ""
		if s.Err != nil {
			errText = s.Err.Error()
		}
		fmt.Printf("%-12s %-12d %-8d %-8d %-8d %s\n",
			s.Source, s.Discovered, s.Stored, s.Skipped, s.Failed, errText)
	}
}
