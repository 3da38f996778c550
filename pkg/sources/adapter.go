// Package sources holds the per-site adapters: URL classification, listing
// traversal, and HTML field extraction. One adapter per publisher, selected
// through a configuration-driven registry.
package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/139QQ/news-look-sub005/models"
	"github.com/139QQ/news-look-sub005/pkg/fetcher"
)

// ParseError reports a page whose required fields could not be extracted.
// The pipeline logs it and skips the article; it is never fatal to a crawl.
type ParseError struct {
	Source  string
	URL     string
	Missing string // which required field was absent
	Err     error
}

func (e *ParseError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("parse %s (%s): missing %s", e.URL, e.Source, e.Missing)
	}
	return fmt.Sprintf("parse %s (%s): %v", e.URL, e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Adapter is the per-source capability interface. ClassifyURL must work on
// the URL alone, before any fetch, so ad and download pages cost nothing.
type Adapter interface {
	Name() string
	ClassifyURL(rawURL string) models.URLKind
	ListArticleURLs(ctx context.Context, f *fetcher.Fetcher) ([]string, error)
	Parse(pageURL string, html []byte) (*models.RawFields, error)
}

// registry maps canonical source names to adapters. Selection is driven by
// the enabled_sources config list, never by runtime type inspection.
var registry = map[string]Adapter{}

func register(a Adapter) { registry[a.Name()] = a }

func init() {
	register(newSina())
	register(newEastmoney())
	register(newFeedAdapter("网易财经", "https://money.163.com/special/00251G8F/rss_gegu.xml", "money.163.com"))
	register(newFeedAdapter("凤凰财经", "https://finance.ifeng.com/rss/index.xml", "finance.ifeng.com"))
	register(newFeedAdapter("腾讯财经", "https://news.qq.com/newsgn/rss_newsgn.xml", "finance.qq.com"))
}

// Lookup returns the adapter registered under a canonical source name.
func Lookup(name string) (Adapter, bool) {
	a, ok := registry[name]
	return a, ok
}

// Enabled resolves the configured source names, erroring on names with no
// registered adapter.
func Enabled(names []string) ([]Adapter, error) {
	adapters := make([]Adapter, 0, len(names))
	for _, n := range names {
		a, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("no adapter registered for source %q", n)
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// domainSources resolves a URL's host to a canonical source name. Used for
// unknown-source reconciliation during consolidation.
var domainSources = map[string]string{
	"finance.sina.com.cn": "新浪财经",
	"sina.com.cn":         "新浪财经",
	"eastmoney.com":       "东方财富",
	"money.163.com":       "网易财经",
	"163.com":             "网易财经",
	"finance.ifeng.com":   "凤凰财经",
	"ifeng.com":           "凤凰财经",
	"finance.qq.com":      "腾讯财经",
	"qq.com":              "腾讯财经",
}

// SourceForURL guesses the canonical source from a URL's domain. Returns ""
// when no mapping applies.
func SourceForURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	for {
		if name, ok := domainSources[host]; ok {
			return name
		}
		dot := strings.IndexByte(host, '.')
		if dot < 0 {
			return ""
		}
		host = host[dot+1:]
	}
}

// classifyByPatterns applies a per-source blocklist of path/query signatures.
func classifyByPatterns(rawURL string, adPatterns, downloadPatterns []string) models.URLKind {
	lower := strings.ToLower(rawURL)
	for _, p := range downloadPatterns {
		if strings.Contains(lower, p) {
			return models.URLDownload
		}
	}
	for _, p := range adPatterns {
		if strings.Contains(lower, p) {
			return models.URLAdPage
		}
	}
	return models.URLArticle
}

// commonDownloadPatterns are app-store and client-download signatures shared
// by every adapter's blocklist.
var commonDownloadPatterns = []string{
	"/app/", "app.", "download", "itunes.apple.com", "apps.apple.com", "android.myapp.com",
}

// commonAdPatterns mark promotion and campaign landing pages.
var commonAdPatterns = []string{
	"/ad/", "/ads/", "adclick", "promotion", "/zhuanti/", "sax.sina.com", "emarketing",
}
