// Package event defines the typed shape of a hunch event and validates it at
// construction time.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidEvent is returned when an event fails validation.
var ErrInvalidEvent = errors.New("invalid event")

// DefaultType is used when the caller does not set an event type.
const DefaultType = "log"

type Event struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"ts"`
	Level      Level             `json:"level"`
	Type       string            `json:"type"`
	Service    string            `json:"service,omitempty"`
	RunID      string            `json:"run_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Message    string            `json:"message"`
	Source     Source            `json:"source"`
	Data       map[string]any    `json:"data,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
	TraceID    string            `json:"trace_id,omitempty"`
	SpanID     string            `json:"span_id,omitempty"`
	Suppressed bool              `json:"suppressed,omitempty"`
}

// Spec carries the caller-supplied fields of an event. Zero values take
// defaults in New.
type Spec struct {
	ID         string
	Timestamp  time.Time
	Level      Level
	Type       string
	Service    string
	RunID      string
	SessionID  string
	Message    string
	Source     Source
	Data       map[string]any
	Tags       map[string]string
	TraceID    string
	SpanID     string
	Suppressed bool
}

// New validates s and builds an Event. The message is trimmed and must not
// be empty; the level and source kind must be enumerated values; every data
// value must be a scalar. Maps are copied so the returned Event does not
// alias caller state.
func New(s Spec) (Event, error) {
	msg := strings.TrimSpace(s.Message)
	if msg == "" {
		return Event{}, fmt.Errorf("%w: message is empty", ErrInvalidEvent)
	}
	if !s.Level.Valid() {
		return Event{}, fmt.Errorf("%w: %s", ErrInvalidEvent, s.Level)
	}
	if !s.Source.Kind.Valid() {
		return Event{}, fmt.Errorf("%w: %s", ErrInvalidEvent, s.Source.Kind)
	}

	data, err := copyData(s.Data)
	if err != nil {
		return Event{}, err
	}

	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}
	typ := strings.TrimSpace(s.Type)
	if typ == "" {
		typ = DefaultType
	}

	return Event{
		ID:         id,
		Timestamp:  ts.UTC(),
		Level:      s.Level,
		Type:       typ,
		Service:    s.Service,
		RunID:      s.RunID,
		SessionID:  s.SessionID,
		Message:    msg,
		Source:     s.Source,
		Data:       data,
		Tags:       copyTags(s.Tags),
		TraceID:    s.TraceID,
		SpanID:     s.SpanID,
		Suppressed: s.Suppressed,
	}, nil
}

// IsScalar reports whether v may be stored as an event data value.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	default:
		return false
	}
}

func copyData(in map[string]any) (map[string]any, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("%w: empty data key", ErrInvalidEvent)
		}
		if !IsScalar(v) {
			return nil, fmt.Errorf("%w: data %q is %T, not a scalar", ErrInvalidEvent, k, v)
		}
		out[k] = v
	}
	return out, nil
}

func copyTags(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
