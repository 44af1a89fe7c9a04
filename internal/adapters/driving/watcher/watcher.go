// Package watcher imports inventory files dropped into a watched folder.
//
// The folder holds one directory per tenant slug. A file written to
// <dir>/<tenant-slug>/ is imported in merge mode once writes have settled
// for the debounce window, then moved to the tenant's processed/ or failed/
// directory. Failed files get a sibling .error file with the reason.
//
// Parsers are chosen by extension: .csv and .tsv use the csv parser and
// .txt uses the ai parser. Other files are left alone.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

// Directories created inside each tenant folder.
const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

const defaultDebounce = 500 * time.Millisecond

// Importer runs an inventory import.
type Importer interface {
	Import(ctx context.Context, req driving.ImportRequest) (*domain.ImportReport, error)
}

// TenantResolver finds a tenant by slug.
type TenantResolver interface {
	Resolve(ctx context.Context, ref string) (*domain.Tenant, error)
}

// Stats counts watcher activity.
type Stats struct {
	Imported int
	Failed   int
	Retried  int
	Errors   int
}

// Watcher imports files dropped into per-tenant folders.
type Watcher struct {
	dir      string
	debounce time.Duration
	importer Importer
	tenants  TenantResolver
	log      *zap.SugaredLogger
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]time.Time
	stats   Stats
}

// New creates a watcher for cfg.WatchDir.
func New(cfg domain.ImportSettings, importer Importer, tenants TenantResolver) *Watcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		dir:      cfg.WatchDir,
		debounce: debounce,
		importer: importer,
		tenants:  tenants,
		log:      logger.Named("watcher"),
		now:      time.Now,
		pending:  make(map[string]time.Time),
	}
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Stats returns a snapshot of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run watches the directory until ctx is cancelled. Files already present
// when Run starts are imported as well.
func (w *Watcher) Run(ctx context.Context) error {
	if w.dir == "" {
		return fmt.Errorf("watch directory: %w", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating watch directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading watch directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			w.addTenantDir(fsw, filepath.Join(w.dir, e.Name()))
		}
	}
	w.log.Infow("watching for inventory drops", "dir", w.dir, "debounce", w.debounce)

	ticker := time.NewTicker(w.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debugw("watcher stopped", "dir", w.dir)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watch error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) tickInterval() time.Duration {
	tick := w.debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	if tick > 100*time.Millisecond {
		tick = 100 * time.Millisecond
	}
	return tick
}

// addTenantDir watches a tenant folder and queues the files already in it.
func (w *Watcher) addTenantDir(fsw *fsnotify.Watcher, dir string) {
	if err := fsw.Add(dir); err != nil {
		w.log.Warnw("cannot watch tenant folder", "dir", dir, "error", err)
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.log.Warnw("cannot read tenant folder", "dir", dir, "error", err)
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			w.enqueue(filepath.Join(dir, e.Name()))
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	parent := filepath.Dir(event.Name)
	switch parent {
	case filepath.Clean(w.dir):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addTenantDir(fsw, event.Name)
		}
	default:
		if filepath.Dir(parent) == filepath.Clean(w.dir) {
			w.enqueue(event.Name)
		}
	}
}

func (w *Watcher) enqueue(path string) {
	if ParserFor(path) == "" {
		return
	}
	w.mu.Lock()
	w.pending[path] = w.now()
	w.mu.Unlock()
}

// flush imports files whose last event is older than the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	now := w.now()
	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		if ctx.Err() != nil {
			return
		}
		w.process(ctx, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	blob, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.log.Warnw("cannot read dropped file", "path", path, "error", err)
		}
		return
	}

	slug := filepath.Base(filepath.Dir(path))
	tenant, err := w.tenants.Resolve(ctx, slug)
	if err != nil {
		w.fail(path, fmt.Errorf("resolving tenant %q: %w", slug, err))
		return
	}

	report, err := w.importer.Import(ctx, driving.ImportRequest{
		TenantID: tenant.ID,
		Parser:   ParserFor(path),
		Source:   filepath.Base(path),
		Blob:     blob,
		Mode:     domain.ImportMerge,
	})
	switch {
	case errors.Is(err, domain.ErrImportInProgress):
		w.log.Debugw("import busy, retrying later", "path", path)
		w.mu.Lock()
		w.pending[path] = w.now()
		w.stats.Retried++
		w.mu.Unlock()
		return
	case err != nil:
		w.fail(path, err)
		return
	}

	if _, err := w.move(path, ProcessedDir); err != nil {
		w.log.Errorw("cannot move imported file", "path", path, "error", err)
	}
	w.mu.Lock()
	w.stats.Imported++
	w.mu.Unlock()

	log := w.log.With("tenant", tenant.Slug, "file", report.Source, "batch", report.BatchID)
	if len(report.Errors) > 0 {
		log.Warnw("inventory imported with row errors",
			"created", report.Created, "updated", report.Updated, "row_errors", len(report.Errors))
		return
	}
	log.Infow("inventory imported", "created", report.Created, "updated", report.Updated)
}

func (w *Watcher) fail(path string, cause error) {
	w.log.Warnw("inventory import failed", "path", path, "error", cause)
	w.mu.Lock()
	w.stats.Failed++
	w.mu.Unlock()

	dest, err := w.move(path, FailedDir)
	if err != nil {
		w.log.Errorw("cannot move failed file", "path", path, "error", err)
		return
	}
	if err := os.WriteFile(dest+".error", []byte(cause.Error()+"\n"), 0o644); err != nil {
		w.log.Errorw("cannot write error note", "path", dest, "error", err)
	}
}

// move renames path into sub, prefixing a timestamp so repeated drops of
// the same name never collide.
func (w *Watcher) move(path, sub string) (string, error) {
	dir := filepath.Join(filepath.Dir(path), sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, w.now().UTC().Format("20060102T150405.000")+"-"+filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// ParserFor returns the import parser for a file name, or "" when the file is ignored.
func ParserFor(path string) string {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
		return ""
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv":
		return "csv"
	case ".txt":
		return "ai"
	default:
		return ""
	}
}
