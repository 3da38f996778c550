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

// eastmoney crawls 东方财富. Its listing pages link heavily into promotion
// and app-download pages, so the blocklist is longer than the default.
type eastmoney struct {
	listURL  string
	ads      []string
	download []string
}

func newEastmoney() *eastmoney {
	return &eastmoney{
		listURL:  "https://finance.eastmoney.com/a/cywjh.html",
		ads:      append([]string{"/vip/", "acttg.eastmoney.com", "/huodong/"}, commonAdPatterns...),
		download: append([]string{"emdcapp", "/mobile/"}, commonDownloadPatterns...),
	}
}

func (e *eastmoney) Name() string { return "东方财富" }

func (e *eastmoney) ClassifyURL(rawURL string) models.URLKind {
	if !strings.Contains(rawURL, "eastmoney.com") {
		return models.URLUnknown
	}
	return classifyByPatterns(rawURL, e.ads, e.download)
}

func (e *eastmoney) ListArticleURLs(ctx context.Context, f *fetcher.Fetcher) ([]string, error) {
	body, err := f.Get(ctx, e.listURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Source: e.Name(), URL: e.listURL, Err: err}
	}

	var urls []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, "finance.eastmoney.com/a/") || !strings.HasSuffix(href, ".html") {
			return
		}
		if e.ClassifyURL(href) != models.URLArticle {
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

func (e *eastmoney) Parse(pageURL string, html []byte) (*models.RawFields, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &ParseError{Source: e.Name(), URL: pageURL, Err: err}
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		return nil, &ParseError{Source: e.Name(), URL: pageURL, Missing: "title"}
	}

	body := strings.TrimSpace(doc.Find("div#ContentBody, div.txtinfos").First().Text())
	if body == "" {
		return nil, &ParseError{Source: e.Name(), URL: pageURL, Missing: "content"}
	}

	byline := strings.TrimSpace(doc.Find("div.source span, span.data-source").First().Text())

	var publish time.Time
	if raw := strings.TrimSpace(doc.Find("div.time, span.time").First().Text()); raw != "" {
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
