package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/guckdev/hunch/internal/event"
)

// ErrUnknownGroup is returned by Stats for an unsupported grouping.
var ErrUnknownGroup = errors.New("unknown group")

// maxLine bounds a single stored event.
const maxLine = 4 << 20

// Query filters stored events. Zero fields match everything.
type Query struct {
	MinLevel  event.Level
	Service   string
	SessionID string
	RunID     string
	Type      string
	// Contains is a case-folded substring match on the message.
	Contains string
	Since    time.Time
	Until    time.Time
	// Limit caps the number of results; 0 means no cap.
	Limit int
}

// Match reports whether ev passes every filter in q.
func (q Query) Match(ev event.Event) bool {
	if q.MinLevel.Valid() && !ev.Level.AtLeast(q.MinLevel) {
		return false
	}
	if q.Service != "" && ev.Service != q.Service {
		return false
	}
	if q.SessionID != "" && ev.SessionID != q.SessionID {
		return false
	}
	if q.RunID != "" && ev.RunID != q.RunID {
		return false
	}
	if q.Type != "" && ev.Type != q.Type {
		return false
	}
	if q.Contains != "" && !strings.Contains(fold(ev.Message), fold(q.Contains)) {
		return false
	}
	if !q.Since.IsZero() && ev.Timestamp.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && ev.Timestamp.After(q.Until) {
		return false
	}
	return true
}

// fold applies Unicode case folding, so "STRASSE" matches "straße".
func fold(s string) string {
	return cases.Fold().String(s)
}

// Result is the outcome of Search.
type Result struct {
	Events []event.Event
	// Truncated is set when Limit cut matching events.
	Truncated bool
	// Skipped counts lines that could not be decoded.
	Skipped int
}

// Search returns matching events under dir, newest first. A missing store
// directory yields an empty result.
func Search(ctx context.Context, dir string, q Query) (Result, error) {
	var res Result
	skipped, err := scan(ctx, dir, func(ev event.Event) {
		if q.Match(ev) {
			res.Events = append(res.Events, ev)
		}
	})
	if err != nil {
		return Result{}, err
	}
	res.Skipped = skipped

	sort.SliceStable(res.Events, func(i, j int) bool {
		return res.Events[i].Timestamp.After(res.Events[j].Timestamp)
	})
	if q.Limit > 0 && len(res.Events) > q.Limit {
		res.Events = res.Events[:q.Limit]
		res.Truncated = true
	}
	return res, nil
}

// GroupBy selects the key Stats counts by.
type GroupBy string

const (
	ByLevel   GroupBy = "level"
	ByService GroupBy = "service"
	ByType    GroupBy = "type"
	BySource  GroupBy = "source"
)

// ParseGroupBy validates a grouping name.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(s))); g {
	case ByLevel, ByService, ByType, BySource:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGroup, s)
	}
}

func (g GroupBy) key(ev event.Event) string {
	switch g {
	case ByLevel:
		return ev.Level.String()
	case ByService:
		return ev.Service
	case ByType:
		return ev.Type
	case BySource:
		return ev.Source.String()
	}
	return ""
}

// Bucket is one row of Stats output.
type Bucket struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Stats counts matching events grouped by by, largest bucket first. The
// query limit is ignored.
func Stats(ctx context.Context, dir string, q Query, by GroupBy) ([]Bucket, error) {
	if _, err := ParseGroupBy(string(by)); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	if _, err := scan(ctx, dir, func(ev event.Event) {
		if q.Match(ev) {
			counts[by.key(ev)]++
		}
	}); err != nil {
		return nil, err
	}

	buckets := make([]Bucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, Bucket{Key: k, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets, nil
}

// Session summarises the events sharing a session ID.
type Session struct {
	ID         string    `json:"id" yaml:"id"`
	LastTS     time.Time `json:"last_ts" yaml:"last_ts"`
	EventCount int       `json:"event_count" yaml:"event_count"`
	ErrorCount int       `json:"error_count" yaml:"error_count"`
}

// Sessions summarises sessions among matching events, most recent first.
// Events without a session ID are ignored. Limit caps the number of sessions.
func Sessions(ctx context.Context, dir string, q Query) ([]Session, error) {
	byID := make(map[string]*Session)
	if _, err := scan(ctx, dir, func(ev event.Event) {
		if ev.SessionID == "" || !q.Match(ev) {
			return
		}
		s, ok := byID[ev.SessionID]
		if !ok {
			s = &Session{ID: ev.SessionID}
			byID[ev.SessionID] = s
		}
		s.EventCount++
		if ev.Level.AtLeast(event.LevelError) {
			s.ErrorCount++
		}
		if ev.Timestamp.After(s.LastTS) {
			s.LastTS = ev.Timestamp
		}
	}); err != nil {
		return nil, err
	}

	sessions := make([]Session, 0, len(byID))
	for _, s := range byID {
		sessions = append(sessions, *s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].LastTS.Equal(sessions[j].LastTS) {
			return sessions[i].LastTS.After(sessions[j].LastTS)
		}
		return sessions[i].ID < sessions[j].ID
	})
	if q.Limit > 0 && len(sessions) > q.Limit {
		sessions = sessions[:q.Limit]
	}
	return sessions, nil
}

// scan decodes every event in every store file under dir and hands it to fn.
// It returns the number of lines that could not be decoded.
func scan(ctx context.Context, dir string, fn func(event.Event)) (int, error) {
	files, err := storeFiles(dir)
	if err != nil {
		return 0, err
	}

	skipped := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}
		n, err := scanFile(path, fn)
		if err != nil {
			return skipped, err
		}
		skipped += n
	}
	return skipped, nil
}

func storeFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), Extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk store: %w", err)
	}
	return files, nil
}

func scanFile(path string, fn func(event.Event)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	skipped := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		line := sc.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var ev event.Event
		if err := json.Unmarshal(line, &ev); err != nil || !ev.Level.Valid() {
			skipped++
			continue
		}
		fn(ev)
	}
	if err := sc.Err(); err != nil {
		return skipped, fmt.Errorf("read store file %s: %w", path, err)
	}
	return skipped, nil
}
