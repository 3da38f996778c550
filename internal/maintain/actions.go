// Package maintain implements the maintenance CLI surface: consolidation,
// catalog statistics, article listing, and config generation.
package maintain

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/139QQ/news-look-sub005/models"
	"github.com/139QQ/news-look-sub005/pkg/consolidate"
	"github.com/139QQ/news-look-sub005/pkg/store"
)

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func dataDir(c *cli.Context) string {
	if c.IsSet("data-dir") {
		return c.String("data-dir")
	}
	if cfg, err := models.LoadConfig(c.String("config")); err == nil {
		return cfg.DataDir
	}
	return models.DefaultConfig().DataDir
}

// ConsolidateAction runs the repair/merge pass over all store files.
func ConsolidateAction(c *cli.Context) error {
	logger := newLogger(c)

	report, err := consolidate.New(dataDir(c), nil, logger).Run()
	if err != nil {
		return fmt.Errorf("consolidation failed to start: %w", err)
	}

	fmt.Printf("Repaired filenames: %d\n", len(report.Repaired))
	for from, to := range report.Repaired {
		fmt.Printf("  %s -> %s\n", from, to)
	}
	fmt.Printf("Reclassified rows:  %d\n", report.Reclassified)
	fmt.Printf("Merged rows:        %d\n", report.MergedRows)
	if len(report.Skipped) > 0 {
		fmt.Printf("Skipped stores:     %s\n", strings.Join(report.Skipped, ", "))
	}
	if len(report.Unmapped) > 0 {
		fmt.Printf("Needs manual review (unmapped corrupted names):\n")
		for _, p := range report.Unmapped {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

// StatsAction prints aggregate counts for the catalog or one source.
func StatsAction(c *cli.Context) error {
	catalog := store.NewCatalog(dataDir(c))
	stats, err := catalog.AggregateStats(c.String("source"))
	if err != nil {
		return fmt.Errorf("failed to aggregate stats: %w", err)
	}

	fmt.Printf("Articles:   %d\n", stats.Count)
	fmt.Printf("Unknown:    %d\n", stats.UnknownCount)
	fmt.Printf("Duplicates: %d\n", stats.DuplicateCount)
	return nil
}

// ListAction prints stored articles, newest first.
func ListAction(c *cli.Context) error {
	q := store.ListQuery{
		Source: c.String("source"),
		Limit:  c.Int("limit"),
		Offset: c.Int("offset"),
	}
	if c.IsSet("since") {
		since, err := time.Parse("2006-01-02", c.String("since"))
		if err != nil {
			return fmt.Errorf("invalid --since date: %w", err)
		}
		q.Since = since
	}

	rows, err := store.NewCatalog(dataDir(c)).ListArticles(q)
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("No articles found")
		return nil
	}

	for _, r := range rows {
		fmt.Printf("%s  %-8s  %+.2f  %s\n",
			r.CrawlTime.Format("2006-01-02 15:04"), r.Source, r.SentimentScore, r.Title)
	}
	fmt.Printf("\nTotal: %d articles\n", len(rows))
	return nil
}

// ConfigInitAction writes a default config.yaml.
func ConfigInitAction(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := models.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}
