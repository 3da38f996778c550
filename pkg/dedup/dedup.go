// Package dedup identifies already-seen articles within a crawl session.
package dedup

import "github.com/139QQ/news-look-sub005/pkg/store"

// Deduplicator layers a per-session in-memory set over the definitive store
// lookup. The set avoids repeated queries inside one run; the store lookup
// prevents false negatives across process restarts.
type Deduplicator struct {
	store *store.Store
	seen  map[string]struct{}
}

func New(s *store.Store) *Deduplicator {
	return &Deduplicator{
		store: s,
		seen:  make(map[string]struct{}),
	}
}

// IsDuplicate reports whether the URL is already present in this source's
// store or was processed earlier in the session.
func (d *Deduplicator) IsDuplicate(url string) (bool, error) {
	if _, ok := d.seen[url]; ok {
		return true, nil
	}
	has, err := d.store.HasURL(url)
	if err != nil {
		return false, err
	}
	if has {
		d.seen[url] = struct{}{}
	}
	return has, nil
}

// MarkSeen records a URL after a successful persist so the session cache
// stays ahead of the store.
func (d *Deduplicator) MarkSeen(url string) {
	d.seen[url] = struct{}{}
}
