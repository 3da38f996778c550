// Package store persists normalized articles into per-source embedded SQLite
// databases and exposes the read interface behind the stats and list commands.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/139QQ/news-look-sub005/models"
)

// timeLayout keeps timestamps lexicographically sortable inside SQLite.
const timeLayout = time.RFC3339

// WriteError reports a storage-layer failure. The crawl pipeline logs it and
// moves on to the next article; it never aborts the run.
type WriteError struct {
	Source string
	URL    string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s (%s): %v", e.URL, e.Source, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Store is one source's embedded database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and ensures the uniform schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema for %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// OpenSource opens the store for a source name inside dataDir. The filename
// is the source name itself, which may contain non-ASCII characters.
func OpenSource(dataDir, source string) (*Store, error) {
	return Open(filepath.Join(dataDir, source+".db"))
}

func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Insert persists an article. Re-inserting an already present URL is a
// no-op; the bool reports whether a row was actually written.
func (s *Store) Insert(a *models.Article) (bool, error) {
	keywords, err := json.Marshal(a.Keywords)
	if err != nil {
		return false, &WriteError{Source: a.Source, URL: a.URL, Err: err}
	}

	var publish string
	if !a.PublishTime.IsZero() {
		publish = a.PublishTime.UTC().Format(timeLayout)
	}
	crawl := a.CrawlTime
	if crawl.IsZero() {
		crawl = time.Now()
	}

	res, err := s.db.Exec(`
		INSERT INTO news (url, title, content, source, publish_time, crawl_time, sentiment_score, keywords)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`, a.URL, a.Title, a.Content, a.Source, publish, crawl.UTC().Format(timeLayout), a.SentimentScore, string(keywords))
	if err != nil {
		return false, &WriteError{Source: a.Source, URL: a.URL, Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, &WriteError{Source: a.Source, URL: a.URL, Err: err}
	}
	return n > 0, nil
}

// HasURL is the definitive duplicate check backing the in-memory dedup cache.
func (s *Store) HasURL(url string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM news WHERE url = ?", url).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check URL: %w", err)
	}
	return true, nil
}

// ListQuery narrows ListArticles results. Zero values mean "no filter".
type ListQuery struct {
	Source string
	Since  time.Time
	Limit  int
	Offset int
}

// ListArticles returns stored articles newest-crawled first.
func (s *Store) ListArticles(q ListQuery) ([]models.Article, error) {
	query := "SELECT url, title, content, source, publish_time, crawl_time, sentiment_score, keywords FROM news WHERE 1=1"
	args := []any{}

	if q.Source != "" {
		query += " AND source = ?"
		args = append(args, q.Source)
	}
	if !q.Since.IsZero() {
		query += " AND crawl_time >= ?"
		args = append(args, q.Since.UTC().Format(timeLayout))
	}
	query += " ORDER BY crawl_time DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}
	if q.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, q.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(r rowScanner) (models.Article, error) {
	var (
		a              models.Article
		publish, crawl sql.NullString
		keywords       sql.NullString
	)
	if err := r.Scan(&a.URL, &a.Title, &a.Content, &a.Source, &publish, &crawl, &a.SentimentScore, &keywords); err != nil {
		return a, fmt.Errorf("failed to scan article: %w", err)
	}
	if publish.Valid && publish.String != "" {
		if t, err := time.Parse(timeLayout, publish.String); err == nil {
			a.PublishTime = t
		}
	}
	if crawl.Valid && crawl.String != "" {
		if t, err := time.Parse(timeLayout, crawl.String); err == nil {
			a.CrawlTime = t
		}
	}
	if keywords.Valid && keywords.String != "" {
		_ = json.Unmarshal([]byte(keywords.String), &a.Keywords)
	}
	a.QualityOK = true // failing articles are never persisted
	return a, nil
}

// Stats summarizes one store.
type Stats struct {
	Count        int
	UnknownCount int
}

// Stats counts total rows and rows still lacking a usable source.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow("SELECT COUNT(*) FROM news").Scan(&st.Count); err != nil {
		return st, fmt.Errorf("failed to count rows: %w", err)
	}
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM news WHERE TRIM(source) = '' OR source IS NULL OR source = ?",
		models.UnknownSource,
	).Scan(&st.UnknownCount)
	if err != nil {
		return st, fmt.Errorf("failed to count unknown rows: %w", err)
	}
	return st, nil
}

// UnknownRows returns the URLs of rows whose source is blank after trimming,
// null, or the unknown-source sentinel. The predicate matches what
// models.Article.HasKnownSource rejects.
func (s *Store) UnknownRows() ([]string, error) {
	rows, err := s.db.Query(
		"SELECT url FROM news WHERE TRIM(source) = '' OR source IS NULL OR source = ?",
		models.UnknownSource,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query unknown rows: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// SetSource reclassifies one row. Used by consolidation repair only; regular
// rows are append-mostly.
func (s *Store) SetSource(url, source string) error {
	_, err := s.db.Exec("UPDATE news SET source = ? WHERE url = ?", source, url)
	if err != nil {
		return fmt.Errorf("failed to reclassify source: %w", err)
	}
	return nil
}

// CrawlTime returns the stored crawl_time for a URL, or the zero time when
// the URL is absent.
func (s *Store) CrawlTime(url string) (time.Time, bool, error) {
	var raw string
	err := s.db.QueryRow("SELECT crawl_time FROM news WHERE url = ?", url).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read crawl_time: %w", err)
	}
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, true, nil
	}
	return t, true, nil
}

// Replace overwrites the row for a.URL. Merge uses it when an incoming row
// wins the earliest-crawl-time conflict.
func (s *Store) Replace(a *models.Article) error {
	keywords, err := json.Marshal(a.Keywords)
	if err != nil {
		return &WriteError{Source: a.Source, URL: a.URL, Err: err}
	}
	var publish string
	if !a.PublishTime.IsZero() {
		publish = a.PublishTime.UTC().Format(timeLayout)
	}
	_, err = s.db.Exec(`
		INSERT INTO news (url, title, content, source, publish_time, crawl_time, sentiment_score, keywords)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			source = excluded.source,
			publish_time = excluded.publish_time,
			crawl_time = excluded.crawl_time,
			sentiment_score = excluded.sentiment_score,
			keywords = excluded.keywords
	`, a.URL, a.Title, a.Content, a.Source, publish, a.CrawlTime.UTC().Format(timeLayout), a.SentimentScore, string(keywords))
	if err != nil {
		return &WriteError{Source: a.Source, URL: a.URL, Err: err}
	}
	return nil
}
