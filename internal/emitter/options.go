package emitter

import (
	"time"

	"github.com/guckdev/hunch/internal/event"
)

// EmitOption sets optional fields on a single event.
type EmitOption func(*event.Spec)

func WithSource(src event.Source) EmitOption {
	return func(s *event.Spec) {
		s.Source = src
	}
}

// WithData attaches scalar metadata. Non-scalar values fail validation.
func WithData(data map[string]any) EmitOption {
	return func(s *event.Spec) {
		s.Data = data
	}
}

func WithTags(tags map[string]string) EmitOption {
	return func(s *event.Spec) {
		s.Tags = tags
	}
}

func WithType(typ string) EmitOption {
	return func(s *event.Spec) {
		s.Type = typ
	}
}

// WithService overrides the config's default_service.
func WithService(service string) EmitOption {
	return func(s *event.Spec) {
		if service != "" {
			s.Service = service
		}
	}
}

// WithSessionID overrides HUNCH_SESSION_ID for one event.
func WithSessionID(id string) EmitOption {
	return func(s *event.Spec) {
		if id != "" {
			s.SessionID = id
		}
	}
}

func WithTrace(traceID, spanID string) EmitOption {
	return func(s *event.Spec) {
		s.TraceID = traceID
		s.SpanID = spanID
	}
}

func WithTimestamp(ts time.Time) EmitOption {
	return func(s *event.Spec) {
		s.Timestamp = ts
	}
}

func WithID(id string) EmitOption {
	return func(s *event.Spec) {
		s.ID = id
	}
}
