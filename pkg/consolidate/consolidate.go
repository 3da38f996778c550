// Package consolidate repairs fragmented per-source storage: mojibake
// filenames, rows with no usable source, and the same logical source spread
// over duplicate store files. Every pass is idempotent and safe to re-run.
package consolidate

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/139QQ/news-look-sub005/models"
	"github.com/139QQ/news-look-sub005/pkg/sources"
	"github.com/139QQ/news-look-sub005/pkg/store"
)

// ConsolidationError reports a store that could not be opened or repaired.
// The batch skips it and continues.
type ConsolidationError struct {
	Path string
	Err  error
}

func (e *ConsolidationError) Error() string {
	return fmt.Sprintf("consolidate %s: %v", e.Path, e.Err)
}

func (e *ConsolidationError) Unwrap() error { return e.Err }

// StoreState is the consolidation lifecycle position of one store file.
// Transitions are one-directional: Fragmented → CanonicalNamed →
// Consolidated.
type StoreState int

const (
	StateFragmented StoreState = iota
	StateCanonicalNamed
	StateConsolidated
)

func (s StoreState) String() string {
	switch s {
	case StateFragmented:
		return "fragmented"
	case StateCanonicalNamed:
		return "canonical-named"
	default:
		return "consolidated"
	}
}

// Report is the transient outcome of one consolidation run, used purely for
// operator reporting.
type Report struct {
	Repaired     map[string]string // corrupted filename → canonical filename
	Reclassified int               // unknown-source rows given a source
	MergedRows   int               // rows merged across duplicate stores
	Skipped      []string          // stores skipped (locked or unreadable), each listed once
	Unmapped     []string          // corrupted filenames with no mapping entry
}

// skip records a store path, once, no matter how many passes fail on it.
func (r *Report) skip(path string) {
	for _, p := range r.Skipped {
		if p == path {
			return
		}
	}
	r.Skipped = append(r.Skipped, path)
}

// Consolidator walks the data directory and runs the three repair passes.
type Consolidator struct {
	dataDir string
	mapping map[string]string
	locks   *store.LockRegistry
	logger  *slog.Logger
	now     func() time.Time
}

// New builds a Consolidator over a data directory. A nil mapping uses the
// default mojibake table.
func New(dataDir string, mapping map[string]string, logger *slog.Logger) *Consolidator {
	if mapping == nil {
		mapping = DefaultMojibake()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consolidator{
		dataDir: dataDir,
		mapping: mapping,
		locks:   store.Locks,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes filename repair, unknown-source reconciliation, and duplicate
// merge over every store in the directory. Per-store failures are reported
// in the summary, never raised.
func (c *Consolidator) Run() (*Report, error) {
	report := &Report{Repaired: make(map[string]string)}

	paths, err := store.NewCatalog(c.dataDir).StorePaths()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := c.repairStore(path, report); err != nil {
			c.logger.Warn("store skipped", "path", path, "error", err)
			report.skip(path)
		}
	}

	// Reconciliation runs over the post-repair set of canonical stores.
	paths, err = store.NewCatalog(c.dataDir).StorePaths()
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		n, err := c.reconcileUnknown(path)
		if err != nil {
			c.logger.Warn("store skipped during reconciliation", "path", path, "error", err)
			report.skip(path)
			continue
		}
		report.Reclassified += n
	}

	c.logger.Info("consolidation finished",
		"repaired", len(report.Repaired),
		"reclassified", report.Reclassified,
		"merged_rows", report.MergedRows,
		"skipped", len(report.Skipped),
		"unmapped", len(report.Unmapped))
	return report, nil
}

// State classifies a store file's lifecycle position without modifying it.
func (c *Consolidator) State(path string) (StoreState, error) {
	base := storeBase(path)
	if IsCorruptedName(base) {
		return StateFragmented, nil
	}
	s, err := store.Open(path)
	if err != nil {
		return StateCanonicalNamed, &ConsolidationError{Path: path, Err: err}
	}
	defer s.Close()
	stats, err := s.Stats()
	if err != nil {
		return StateCanonicalNamed, &ConsolidationError{Path: path, Err: err}
	}
	if stats.UnknownCount > 0 {
		return StateCanonicalNamed, nil
	}
	return StateConsolidated, nil
}

// repairStore handles one file in the filename-repair pass. Corrupted names
// are resolved through the mapping table; the rows are merged into the
// canonical store and the original file is kept as a timestamped backup.
func (c *Consolidator) repairStore(path string, report *Report) error {
	base := storeBase(path)
	if !IsCorruptedName(base) {
		return nil
	}

	canonical, ok := c.mapping[base]
	if !ok {
		// Never guess a canonical name; leave the file for manual review.
		c.logger.Warn("corrupted store name has no mapping entry", "path", path)
		report.Unmapped = append(report.Unmapped, path)
		return nil
	}

	canonicalPath := filepath.Join(c.dataDir, canonical+".db")
	if !c.locks.TryLock(path) {
		return &ConsolidationError{Path: path, Err: fmt.Errorf("store busy")}
	}
	defer c.locks.Unlock(path)
	if !c.locks.TryLock(canonicalPath) {
		return &ConsolidationError{Path: canonicalPath, Err: fmt.Errorf("store busy")}
	}
	defer c.locks.Unlock(canonicalPath)

	merged, err := c.mergeInto(path, canonicalPath, canonical)
	if err != nil {
		return err
	}
	report.MergedRows += merged

	// The original bytes survive as a timestamped backup under a name the
	// catalog no longer scans; only then does the corrupted file go away.
	backup := path + ".bak-" + c.now().Format("20060102150405")
	if err := copyFile(path, backup); err != nil {
		return &ConsolidationError{Path: path, Err: err}
	}
	if err := os.Remove(path); err != nil {
		return &ConsolidationError{Path: path, Err: err}
	}

	report.Repaired[filepath.Base(path)] = canonical + ".db"
	c.logger.Info("store filename repaired", "from", filepath.Base(path), "to", canonical+".db", "backup", filepath.Base(backup))
	return nil
}

// mergeInto copies every row of src into the canonical store keyed by
// (source, url), keeping the earliest crawl_time on conflict.
func (c *Consolidator) mergeInto(srcPath, dstPath, canonicalSource string) (int, error) {
	src, err := store.Open(srcPath)
	if err != nil {
		return 0, &ConsolidationError{Path: srcPath, Err: err}
	}
	defer src.Close()

	dst, err := store.Open(dstPath)
	if err != nil {
		return 0, &ConsolidationError{Path: dstPath, Err: err}
	}
	defer dst.Close()

	articles, err := src.ListArticles(store.ListQuery{})
	if err != nil {
		return 0, &ConsolidationError{Path: srcPath, Err: err}
	}

	merged := 0
	for i := range articles {
		a := articles[i]
		if !a.HasKnownSource() {
			// Rows from the corrupted file belong to the resolved source
			// unless they carry their own attribution.
			a.Source = canonicalSource
		}

		existing, present, err := dst.CrawlTime(a.URL)
		if err != nil {
			return merged, &ConsolidationError{Path: dstPath, Err: err}
		}
		switch {
		case !present:
			if _, err := dst.Insert(&a); err != nil {
				return merged, &ConsolidationError{Path: dstPath, Err: err}
			}
			merged++
		case a.CrawlTime.Before(existing):
			if err := dst.Replace(&a); err != nil {
				return merged, &ConsolidationError{Path: dstPath, Err: err}
			}
			merged++
		}
	}
	return merged, nil
}

// reconcileUnknown reclassifies rows whose source is empty or the unknown
// sentinel, first from the store's filename, then from the URL domain. Rows
// that resist both heuristics stay flagged; they are never dropped.
func (c *Consolidator) reconcileUnknown(path string) (int, error) {
	if !c.locks.TryLock(path) {
		return 0, &ConsolidationError{Path: path, Err: fmt.Errorf("store busy")}
	}
	defer c.locks.Unlock(path)

	s, err := store.Open(path)
	if err != nil {
		return 0, &ConsolidationError{Path: path, Err: err}
	}
	defer s.Close()

	urls, err := s.UnknownRows()
	if err != nil {
		return 0, &ConsolidationError{Path: path, Err: err}
	}
	if len(urls) == 0 {
		return 0, nil
	}

	// The filename is authoritative when it names a registered source.
	var fromFile string
	if base := storeBase(path); !IsCorruptedName(base) {
		if _, ok := sources.Lookup(base); ok {
			fromFile = base
		}
	}

	reclassified := 0
	for _, u := range urls {
		source := fromFile
		if source == "" {
			source = sources.SourceForURL(u)
		}
		if source == "" || source == models.UnknownSource {
			continue
		}
		if err := s.SetSource(u, source); err != nil {
			return reclassified, &ConsolidationError{Path: path, Err: err}
		}
		reclassified++
	}
	return reclassified, nil
}

func storeBase(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".db")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
