package store

// Every source database carries this exact schema. Consolidation depends on
// the layout being uniform across stores, so schema changes must migrate all
// existing files.
const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA temp_store = MEMORY;

CREATE TABLE IF NOT EXISTS news (
    url TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    source TEXT NOT NULL DEFAULT '',
    publish_time TEXT,
    crawl_time TEXT NOT NULL,
    sentiment_score REAL NOT NULL DEFAULT 0,
    keywords TEXT
);

CREATE INDEX IF NOT EXISTS idx_news_source ON news(source);
CREATE INDEX IF NOT EXISTS idx_news_crawl_time ON news(crawl_time);
`
