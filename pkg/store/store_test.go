package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/139QQ/news-look-sub005/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "新浪财经.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleArticle() *models.Article {
	return &models.Article{
		URL:            "https://finance.sina.com.cn/stock/a/2024-01-05/doc-1.shtml",
		Title:          "沪指放量上涨收复三千点",
		Content:        "今日A股市场放量上涨，沪指收复三千点整数关口。",
		Source:         "新浪财经",
		PublishTime:    time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC),
		CrawlTime:      time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		SentimentScore: 0.5,
		Keywords:       []string{"上涨", "沪指"},
		QualityOK:      true,
	}
}

func TestInsert_Idempotent(t *testing.T) {
	s := setupTestStore(t)

	inserted, err := s.Insert(sampleArticle())
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !inserted {
		t.Error("first Insert() inserted = false, want true")
	}

	inserted, err = s.Insert(sampleArticle())
	if err != nil {
		t.Fatalf("second Insert() error = %v", err)
	}
	if inserted {
		t.Error("second Insert() inserted = true, want no-op")
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Count != 1 {
		t.Errorf("Stats().Count = %d, want exactly 1 row", stats.Count)
	}
}

func TestRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	want := sampleArticle()
	if _, err := s.Insert(want); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	articles, err := s.ListArticles(ListQuery{})
	if err != nil {
		t.Fatalf("ListArticles() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("ListArticles() returned %d articles, want 1", len(articles))
	}

	got := articles[0]
	if got.URL != want.URL {
		t.Errorf("URL = %q, want %q", got.URL, want.URL)
	}
	if got.Title != want.Title {
		t.Errorf("Title = %q, want %q", got.Title, want.Title)
	}
	if got.Content != want.Content {
		t.Errorf("Content = %q, want %q", got.Content, want.Content)
	}
	if got.Source != want.Source {
		t.Errorf("Source = %q, want %q", got.Source, want.Source)
	}
	if !got.CrawlTime.Equal(want.CrawlTime) {
		t.Errorf("CrawlTime = %v, want %v", got.CrawlTime, want.CrawlTime)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "上涨" {
		t.Errorf("Keywords = %v, want %v", got.Keywords, want.Keywords)
	}
}

func TestInsert_ClosedStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "新浪财经.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.Close()

	_, err = s.Insert(sampleArticle())
	if err == nil {
		t.Fatal("Insert() error = nil on closed store, want error")
	}
	var werr *WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("error type = %T, want *WriteError", err)
	}
	if werr.URL != sampleArticle().URL {
		t.Errorf("WriteError.URL = %q, want the failing article's URL", werr.URL)
	}
}

func TestHasURL(t *testing.T) {
	s := setupTestStore(t)
	a := sampleArticle()

	has, err := s.HasURL(a.URL)
	if err != nil {
		t.Fatalf("HasURL() error = %v", err)
	}
	if has {
		t.Error("HasURL() = true before insert")
	}

	if _, err := s.Insert(a); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	has, err = s.HasURL(a.URL)
	if err != nil {
		t.Fatalf("HasURL() error = %v", err)
	}
	if !has {
		t.Error("HasURL() = false after insert")
	}
}

func TestListArticles_SinceAndLimit(t *testing.T) {
	s := setupTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		a := sampleArticle()
		a.URL = a.URL + string(rune('a'+i))
		a.CrawlTime = base.Add(time.Duration(i) * time.Hour)
		if _, err := s.Insert(a); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := s.ListArticles(ListQuery{Since: base.Add(2 * time.Hour)})
	if err != nil {
		t.Fatalf("ListArticles() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("since filter returned %d articles, want 3", len(got))
	}

	got, err = s.ListArticles(ListQuery{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListArticles() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit/offset returned %d articles, want 2", len(got))
	}
	// Newest first; offset 1 skips the hour-4 row.
	if !got[0].CrawlTime.Equal(base.Add(3 * time.Hour)) {
		t.Errorf("first article crawl_time = %v, want %v", got[0].CrawlTime, base.Add(3*time.Hour))
	}
}

func TestStats_UnknownCount(t *testing.T) {
	s := setupTestStore(t)

	a := sampleArticle()
	if _, err := s.Insert(a); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	b := sampleArticle()
	b.URL += "-unknown"
	b.Source = models.UnknownSource
	if _, err := s.Insert(b); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	c := sampleArticle()
	c.URL += "-empty"
	c.Source = ""
	if _, err := s.Insert(c); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// Whitespace-only sources count as unknown, matching HasKnownSource.
	d := sampleArticle()
	d.URL += "-blank"
	d.Source = "  "
	if _, err := s.Insert(d); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Count != 4 {
		t.Errorf("Count = %d, want 4", stats.Count)
	}
	if stats.UnknownCount != 3 {
		t.Errorf("UnknownCount = %d, want 3", stats.UnknownCount)
	}

	urls, err := s.UnknownRows()
	if err != nil {
		t.Fatalf("UnknownRows() error = %v", err)
	}
	if len(urls) != 3 {
		t.Errorf("UnknownRows() returned %d, want 3", len(urls))
	}
}

func TestSetSource(t *testing.T) {
	s := setupTestStore(t)
	a := sampleArticle()
	a.Source = models.UnknownSource
	if _, err := s.Insert(a); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := s.SetSource(a.URL, "新浪财经"); err != nil {
		t.Fatalf("SetSource() error = %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.UnknownCount != 0 {
		t.Errorf("UnknownCount = %d after reclassification, want 0", stats.UnknownCount)
	}
}

func TestLockRegistry(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.db")
	b := filepath.Join(dir, "b.db")

	r := NewLockRegistry()
	if !r.TryLock(a) {
		t.Fatal("TryLock() = false on free lock")
	}
	if r.TryLock(a) {
		t.Error("TryLock() = true on held lock")
	}
	if !r.TryLock(b) {
		t.Error("TryLock() = false on a different path")
	}
	r.Unlock(a)
	if !r.TryLock(a) {
		t.Error("TryLock() = false after Unlock")
	}
}

func TestLockRegistry_ExcludesOtherProcesses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "新浪财经.db")

	crawler := NewLockRegistry()
	if !crawler.TryLock(path) {
		t.Fatal("TryLock() = false on free lock")
	}
	defer crawler.Unlock(path)

	// A separate registry stands in for a second newslook process; the
	// sidecar lock file must keep it out.
	consolidator := NewLockRegistry()
	if consolidator.TryLock(path) {
		t.Error("TryLock() = true from a second registry while the lock file exists")
	}

	// A registry that never held the lock cannot release it either.
	consolidator.Unlock(path)
	if consolidator.TryLock(path) {
		t.Error("TryLock() = true after a foreign Unlock, want lock still held")
	}
}
