package sources

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"github.com/139QQ/news-look-sub005/models"
	"github.com/139QQ/news-look-sub005/pkg/fetcher"
)

// sina crawls 新浪财经. Listing comes from the rolling-news page; article
// pages use a stable id-based layout.
type sina struct {
	listURL string
}

func newSina() *sina {
	return &sina{listURL: "https://finance.sina.com.cn/roll/"}
}

func (s *sina) Name() string { return "新浪财经" }

func (s *sina) ClassifyURL(rawURL string) models.URLKind {
	if !strings.Contains(rawURL, "sina.com") {
		return models.URLUnknown
	}
	return classifyByPatterns(rawURL, commonAdPatterns, commonDownloadPatterns)
}

// ListArticleURLs pulls article links from the rolling-news listing in
// document order, so pipeline processing follows discovery order.
func (s *sina) ListArticleURLs(ctx context.Context, f *fetcher.Fetcher) ([]string, error) {
	body, err := f.Get(ctx, s.listURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Source: s.Name(), URL: s.listURL, Err: err}
	}

	var urls []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, "finance.sina.com.cn") || !strings.HasSuffix(href, ".shtml") {
			return
		}
		if s.ClassifyURL(href) != models.URLArticle {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		urls = append(urls, href)
	})
	return urls, nil
}

func (s *sina) Parse(pageURL string, html []byte) (*models.RawFields, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &ParseError{Source: s.Name(), URL: pageURL, Err: err}
	}

	title := strings.TrimSpace(doc.Find("h1.main-title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		return nil, &ParseError{Source: s.Name(), URL: pageURL, Missing: "title"}
	}

	body := strings.TrimSpace(doc.Find("div#artibody, div.article").First().Text())
	if body == "" {
		return nil, &ParseError{Source: s.Name(), URL: pageURL, Missing: "content"}
	}

	byline := strings.TrimSpace(doc.Find("a.source, span.source").First().Text())

	var publish time.Time
	if raw := strings.TrimSpace(doc.Find("span.date, span#pub_date").First().Text()); raw != "" {
		if t, err := dateparse.ParseAny(raw); err == nil {
			publish = t
		}
	}

	return &models.RawFields{
		Title:       title,
		Body:        body,
		Byline:      byline,
		PublishTime: publish,
	}, nil
}
