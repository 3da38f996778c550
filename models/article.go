// Package models defines the data structures shared across the crawl and
// consolidation pipelines.
package models

import (
	"strings"
	"time"
)

// UnknownSource is the sentinel stored by older crawler versions when a row
// could not be attributed. Consolidation tries to reclassify these rows.
const UnknownSource = "未知来源"

// Article is the canonical unit flowing through the pipeline and stored in
// every source database.
type Article struct {
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Source         string    `json:"source"`
	PublishTime    time.Time `json:"publish_time"`
	CrawlTime      time.Time `json:"crawl_time"`
	SentimentScore float64   `json:"sentiment_score"`
	Keywords       []string  `json:"keywords"` // insertion order = relevance rank
	QualityOK      bool      `json:"quality_ok"`
}

// HasKnownSource reports whether the article carries a usable source name.
func (a *Article) HasKnownSource() bool {
	s := strings.TrimSpace(a.Source)
	return s != "" && s != UnknownSource
}

// RawFields holds the source-specific extraction result before cleaning,
// classification, and scoring.
type RawFields struct {
	Title       string
	Body        string
	Byline      string
	PublishTime time.Time
}
