package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/139QQ/news-look-sub005/models"
	"github.com/139QQ/news-look-sub005/pkg/classify"
	"github.com/139QQ/news-look-sub005/pkg/dedup"
	"github.com/139QQ/news-look-sub005/pkg/fetcher"
	"github.com/139QQ/news-look-sub005/pkg/sources"
	"github.com/139QQ/news-look-sub005/pkg/store"
)

// Summary reports one source's crawl outcome. A run always completes and
// returns counts; per-article failures never propagate up.
type Summary struct {
	Source     string
	Discovered int
	Stored     int
	// Skipped counts duplicates, ad/download pages, quality rejections, and
	// parse skips; Failed counts fetch and write errors.
	Skipped int
	Failed  int
	// Err is set only for listing-level failures where the source produced
	// nothing at all.
	Err error
}

// Pipeline is one source's crawl instance: fetch, parse, classify, dedup,
// persist. Each pipeline owns its store exclusively for the whole run.
type Pipeline struct {
	adapter    sources.Adapter
	fetcher    *fetcher.Fetcher
	classifier *classify.Classifier
	cfg        *models.Config
	logger     *slog.Logger
	locks      *store.LockRegistry
}

func NewPipeline(adapter sources.Adapter, cfg *models.Config, classifier *classify.Classifier, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		adapter:    adapter,
		fetcher:    fetcher.New(cfg.RequestTimeout(), cfg.MaxRetries),
		classifier: classifier,
		cfg:        cfg,
		logger:     logger.With("source", adapter.Name()),
		locks:      store.Locks,
	}
}

// Run crawls one source. Articles are processed sequentially in discovery
// order; cancellation is honored between articles.
func (p *Pipeline) Run(ctx context.Context) Summary {
	summary := Summary{Source: p.adapter.Name()}

	storePath := filepath.Join(p.cfg.DataDir, p.adapter.Name()+".db")
	if !p.locks.TryLock(storePath) {
		summary.Err = fmt.Errorf("store %s is busy (consolidation in progress?)", storePath)
		p.logger.Error("crawl aborted", "error", summary.Err)
		return summary
	}
	defer p.locks.Unlock(storePath)

	s, err := store.Open(storePath)
	if err != nil {
		summary.Err = err
		p.logger.Error("failed to open store", "error", err)
		return summary
	}
	defer s.Close()

	urls, err := p.adapter.ListArticleURLs(ctx, p.fetcher)
	if err != nil {
		summary.Err = err
		p.logger.Error("listing traversal failed", "error", err)
		return summary
	}
	summary.Discovered = len(urls)
	p.logger.Info("listing complete", "discovered", len(urls))

	d := dedup.New(s)
	for _, u := range urls {
		if ctx.Err() != nil {
			p.logger.Info("crawl cancelled", "remaining", summary.Discovered-summary.Stored-summary.Skipped-summary.Failed)
			break
		}
		p.processArticle(ctx, s, d, u, &summary)
	}

	p.logger.Info("crawl finished",
		"discovered", summary.Discovered,
		"stored", summary.Stored,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary
}

func (p *Pipeline) processArticle(ctx context.Context, s *store.Store, d *dedup.Deduplicator, rawURL string, summary *Summary) {
	// Classification on the URL alone comes first; ad and download pages
	// never cost a fetch.
	if kind := p.adapter.ClassifyURL(rawURL); kind != models.URLArticle {
		p.logger.Debug("url skipped", "url", rawURL, "kind", kind.String())
		summary.Skipped++
		return
	}

	dup, err := d.IsDuplicate(rawURL)
	if err != nil {
		p.logger.Warn("dedup lookup failed", "url", rawURL, "error", err)
		summary.Failed++
		return
	}
	if dup {
		summary.Skipped++
		return
	}

	html, err := p.fetcher.Get(ctx, rawURL)
	if err != nil {
		p.logger.Warn("fetch failed", "url", rawURL, "error", err)
		summary.Failed++
		return
	}

	fields, err := p.adapter.Parse(rawURL, html)
	if err != nil {
		var perr *sources.ParseError
		if errors.As(err, &perr) {
			// Missing fields are routine; skip silently, log, move on.
			p.logger.Debug("parse skipped", "url", rawURL, "error", err)
			summary.Skipped++
			return
		}
		p.logger.Warn("parse failed", "url", rawURL, "error", err)
		summary.Failed++
		return
	}

	if !p.classifier.IsQuality(fields.Title, fields.Body) {
		p.logger.Debug("quality filter rejected", "url", rawURL)
		summary.Skipped++
		return
	}
	content := classify.Clean(fields.Body)

	article := &models.Article{
		URL:            rawURL,
		Title:          fields.Title,
		Content:        content,
		Source:         p.adapter.Name(),
		PublishTime:    fields.PublishTime,
		CrawlTime:      time.Now(),
		SentimentScore: p.classifier.Sentiment(content),
		Keywords:       p.classifier.Keywords(content, p.cfg.Classifier.TopKeywords),
		QualityOK:      true,
	}

	inserted, err := s.Insert(article)
	if err != nil {
		// Surfaced, not swallowed: operators need to see write failures.
		p.logger.Error("write failed", "url", rawURL, "error", err)
		summary.Failed++
		return
	}
	if !inserted {
		summary.Skipped++
		return
	}
	d.MarkSeen(rawURL)
	summary.Stored++
}

// RunAll crawls every enabled source concurrently, one pipeline per source.
// Sources share no mutable crawl state; only the summaries are collected.
func RunAll(ctx context.Context, cfg *models.Config, logger *slog.Logger) ([]Summary, error) {
	adapters, err := sources.Enabled(cfg.EnabledSources)
	if err != nil {
		return nil, err
	}

	classifier := classify.New(cfg.Classifier)

	var wg sync.WaitGroup
	results := make(chan Summary, len(adapters))
	for _, a := range adapters {
		wg.Add(1)
		go func(a sources.Adapter) {
			defer wg.Done()
			results <- NewPipeline(a, cfg, classifier, logger).Run(ctx)
		}(a)
	}
	wg.Wait()
	close(results)

	summaries := make([]Summary, 0, len(adapters))
	for s := range results {
		summaries = append(summaries, s)
	}
	return summaries, nil
}
