// Package store persists events as JSON lines under a store directory and
// reads them back for search and summaries.
//
// Layout: <store_dir>/<YYYY-MM-DD>/<run_id>.jsonl, one event per line, the
// date taken from the event timestamp in UTC.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/guckdev/hunch/internal/event"
	"github.com/guckdev/hunch/internal/logging"
	"github.com/guckdev/hunch/internal/metrics"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	// Extension of store files.
	Extension = ".jsonl"

	defaultFileStem = "events"
)

// Writer appends events to the store. Directories are created on first
// write, not in NewWriter, so an unused store leaves no trace on disk.
type Writer struct {
	dir     string
	logger  *logging.Logger
	mu      sync.Mutex
	written uint64
}

// NewWriter creates a Writer rooted at dir. A nil logger discards.
func NewWriter(dir string, logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Writer{dir: dir, logger: logger}
}

// Dir returns the store directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Written returns how many events this Writer has appended.
func (w *Writer) Written() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Append writes ev as one JSON line. Suppressed events are skipped and
// reported with written=false and a nil error. Filesystem errors are
// wrapped so errors.Is(err, fs.ErrPermission) still works.
func (w *Writer) Append(ctx context.Context, ev event.Event) (bool, error) {
	if ev.Suppressed {
		metrics.EventsTotal.WithLabelValues(ev.Level.String(), metrics.StatusSuppressed).Inc()
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return false, fmt.Errorf("marshal event: %w", err)
	}
	line = append(line, '\n')

	path := PathFor(w.dir, ev)
	start := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := appendLine(path, line); err != nil {
		metrics.StoreWriteErrors.Inc()
		metrics.EventsTotal.WithLabelValues(ev.Level.String(), metrics.StatusFailed).Inc()
		w.logger.ErrorContext(ctx, "failed to append event",
			logging.File(path), logging.EventID(ev.ID), logging.Error(err))
		return false, err
	}

	w.written++
	metrics.StoreWriteDuration.Observe(time.Since(start).Seconds())
	metrics.StoreBytesTotal.Add(float64(len(line)))
	metrics.EventsTotal.WithLabelValues(ev.Level.String(), metrics.StatusWritten).Inc()
	w.logger.DebugContext(ctx, "appended event", logging.File(path), logging.EventID(ev.ID))
	return true, nil
}

func appendLine(path string, line []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return fmt.Errorf("open store file: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write store file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close store file: %w", err)
	}
	return nil
}

// PathFor returns the file ev is appended to under dir.
func PathFor(dir string, ev event.Event) string {
	day := ev.Timestamp.UTC().Format(time.DateOnly)
	return filepath.Join(dir, day, fileStem(ev.RunID)+Extension)
}

// fileStem makes a run ID safe to use as a file name.
func fileStem(runID string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, runID)
	stem = strings.Trim(stem, ".")
	if stem == "" {
		return defaultFileStem
	}
	return stem
}
