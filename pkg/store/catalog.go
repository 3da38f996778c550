package store

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/139QQ/news-look-sub005/models"
)

// Catalog is the read-only view over every store file in the data directory.
// It backs the stats and list commands and must work even before a
// consolidation pass, when rows for one logical source may be spread over
// several inconsistently named files.
type Catalog struct {
	dataDir string
}

func NewCatalog(dataDir string) *Catalog {
	return &Catalog{dataDir: dataDir}
}

// ArticleRow pairs an article with the store file it came from.
type ArticleRow struct {
	models.Article
	StorePath string
}

// StorePaths lists every .db file in the data directory. SQLite sidecar
// files and consolidation backups use other extensions and are not matched.
func (c *Catalog) StorePaths() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(c.dataDir, "*.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan data dir: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ListArticles merges matching rows from every openable store, ordered by
// crawl_time descending. Stores that cannot be opened are skipped so a
// partially fragmented catalog still answers queries.
func (c *Catalog) ListArticles(q ListQuery) ([]ArticleRow, error) {
	paths, err := c.StorePaths()
	if err != nil {
		return nil, err
	}

	perStore := q
	perStore.Limit = 0 // limit/offset apply to the merged result
	perStore.Offset = 0

	var all []ArticleRow
	for _, path := range paths {
		s, err := Open(path)
		if err != nil {
			continue
		}
		articles, err := s.ListArticles(perStore)
		_ = s.Close()
		if err != nil {
			continue
		}
		for _, a := range articles {
			all = append(all, ArticleRow{Article: a, StorePath: path})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CrawlTime.After(all[j].CrawlTime)
	})

	if q.Offset > 0 {
		if q.Offset >= len(all) {
			return nil, nil
		}
		all = all[q.Offset:]
	}
	if q.Limit > 0 && len(all) > q.Limit {
		all = all[:q.Limit]
	}
	return all, nil
}

// AggregateStats summarizes the whole catalog.
type AggregateStats struct {
	Count          int
	UnknownCount   int
	DuplicateCount int
}

// AggregateStats counts rows, unknown-source rows, and cross-store
// duplicates, optionally restricted to one source name.
func (c *Catalog) AggregateStats(source string) (AggregateStats, error) {
	rows, err := c.ListArticles(ListQuery{Source: source})
	if err != nil {
		return AggregateStats{}, err
	}

	var stats AggregateStats
	seen := make(map[[2]string]int, len(rows))
	for _, r := range rows {
		stats.Count++
		if !r.HasKnownSource() {
			stats.UnknownCount++
		}
		key := [2]string{r.Source, r.URL}
		seen[key]++
		if seen[key] > 1 {
			stats.DuplicateCount++
		}
	}
	return stats, nil
}
