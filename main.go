package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/139QQ/news-look-sub005/internal/crawl"
	"github.com/139QQ/news-look-sub005/internal/maintain"
)

func main() {
	app := &cli.App{
		Name:  "newslook",
		Usage: "financial news crawler with per-source stores and consolidation",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to YAML configuration"},
			&cli.StringFlag{Name: "data-dir", Usage: "override the store data directory"},
			&cli.BoolFlag{Name: "quiet", Usage: "log errors only"},
		},
		Commands: []*cli.Command{
			{
				Name:  "crawl",
				Usage: "run one crawl pass over the enabled sources",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sources", Usage: "comma-separated source names (overrides config)"},
					&cli.IntFlag{Name: "max-retries", Usage: "fetch retry bound per URL"},
					&cli.IntFlag{Name: "timeout", Usage: "per-request timeout in seconds"},
				},
				Action: crawl.Action,
			},
			{
				Name:   "consolidate",
				Usage:  "repair store filenames, reconcile unknown sources, merge duplicates",
				Action: maintain.ConsolidateAction,
			},
			{
				Name:  "stats",
				Usage: "print article/unknown/duplicate counts",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Usage: "restrict to one source"},
				},
				Action: maintain.StatsAction,
			},
			{
				Name:  "list",
				Usage: "list stored articles, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Usage: "restrict to one source"},
					&cli.StringFlag{Name: "since", Usage: "only articles crawled on/after this date (2006-01-02)"},
					&cli.IntFlag{Name: "limit", Value: 20},
					&cli.IntFlag{Name: "offset"},
				},
				Action: maintain.ListAction,
			},
			{
				Name:  "config",
				Usage: "configuration helpers",
				Subcommands: []*cli.Command{
					{
						Name:  "init",
						Usage: "write a default config.yaml",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
						},
						Action: maintain.ConfigInitAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
