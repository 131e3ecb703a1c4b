package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/guckdev/hunch/internal/event"
	"github.com/guckdev/hunch/internal/store"
)

// parseKeyValues splits k=v pairs. Values keep their text; see parseData
// for typed values.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		out[k] = v
	}
	return out, nil
}

// parseData is parseKeyValues with integers, floats and booleans converted.
func parseData(pairs []string) (map[string]any, error) {
	kv, err := parseKeyValues(pairs)
	if err != nil || kv == nil {
		return nil, err
	}
	out := make(map[string]any, len(kv))
	for k, v := range kv {
		out[k] = scalar(v)
	}
	return out, nil
}

func scalar(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// parseTime accepts a duration back from now ("90m") or an RFC 3339 time.
func parseTime(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want a duration like 1h or an RFC 3339 timestamp", s)
}

// queryFlags are the filters shared by search, stats and sessions.
type queryFlags struct {
	level     string
	service   string
	session   string
	run       string
	eventType string
	contains  string
	since     string
	until     string
	limit     int
}

func (q *queryFlags) register(cmd *cobra.Command, defaultLimit int) {
	f := cmd.Flags()
	f.StringVar(&q.level, "level", "", "minimum level: trace, debug, info, warn, error, fatal")
	f.StringVar(&q.service, "service", "", "only events from this service")
	f.StringVar(&q.session, "session", "", "only events with this session id")
	f.StringVar(&q.run, "run", "", "only events with this run id")
	f.StringVar(&q.eventType, "type", "", "only events of this type")
	f.StringVar(&q.contains, "contains", "", "case-insensitive substring of the message")
	f.StringVar(&q.since, "since", "", "start time: duration back from now (1h) or RFC 3339")
	f.StringVar(&q.until, "until", "", "end time: duration back from now or RFC 3339")
	f.IntVar(&q.limit, "limit", defaultLimit, "maximum results (0 for no limit)")
}

func (q queryFlags) build(now time.Time) (store.Query, error) {
	query := store.Query{
		Service:   q.service,
		SessionID: q.session,
		RunID:     q.run,
		Type:      q.eventType,
		Contains:  q.contains,
		Limit:     q.limit,
	}
	if q.level != "" {
		lvl, err := event.ParseLevel(q.level)
		if err != nil {
			return store.Query{}, err
		}
		query.MinLevel = lvl
	}

	var err error
	if query.Since, err = parseTime(q.since, now); err != nil {
		return store.Query{}, err
	}
	if query.Until, err = parseTime(q.until, now); err != nil {
		return store.Query{}, err
	}
	return query, nil
}
