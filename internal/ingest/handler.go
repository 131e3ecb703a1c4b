package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/event"
	"github.com/guckdev/hunch/internal/logging"
	"github.com/guckdev/hunch/internal/metrics"
	"github.com/guckdev/hunch/internal/store"
)

var (
	ErrNoData   = errors.New("no data")
	ErrDisabled = errors.New("hunch is disabled for this project")
	ErrTooLarge = errors.New("request body too large")
)

// Input is the JSON shape accepted by the emit endpoint. Every field is
// optional except message.
type Input struct {
	ID        string            `json:"id"`
	Timestamp *time.Time        `json:"ts"`
	Level     string            `json:"level"`
	Type      string            `json:"type"`
	Service   string            `json:"service"`
	SessionID string            `json:"session_id"`
	Message   string            `json:"message"`
	Source    *InputSource      `json:"source"`
	Data      map[string]any    `json:"data"`
	Tags      map[string]string `json:"tags"`
	TraceID   string            `json:"trace_id"`
	SpanID    string            `json:"span_id"`
}

type InputSource struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// level falls back to info for a missing or unknown level.
func (in Input) level() event.Level {
	lvl, err := event.ParseLevel(in.Level)
	if err != nil {
		return event.LevelInfo
	}
	return lvl
}

// source falls back to the browser kind, since that is who posts here.
func (in Input) source() event.Source {
	src := event.Source{Kind: event.SourceBrowser}
	if in.Source == nil {
		return src
	}
	src.Name = in.Source.Name
	if kind, err := event.ParseSourceKind(in.Source.Kind); err == nil && kind != event.SourceUnknown {
		src.Kind = kind
	}
	return src
}

func (in Input) options() []emitter.EmitOption {
	opts := []emitter.EmitOption{
		emitter.WithID(in.ID),
		emitter.WithType(in.Type),
		emitter.WithService(in.Service),
		emitter.WithSessionID(in.SessionID),
		emitter.WithSource(in.source()),
		emitter.WithData(in.Data),
		emitter.WithTags(in.Tags),
		emitter.WithTrace(in.TraceID, in.SpanID),
	}
	if in.Timestamp != nil {
		opts = append(opts, emitter.WithTimestamp(*in.Timestamp))
	}
	return opts
}

// Response is the body of a successful emit.
type Response struct {
	Accepted   int `json:"accepted"`
	Suppressed int `json:"suppressed"`
}

// Handler serves the emit endpoint for one project.
type Handler struct {
	project config.Config
	emitter *emitter.Emitter
	writer  *store.Writer
	logger  *logging.Logger
	maxBody int64
}

func NewHandler(project config.Config, em *emitter.Emitter, w *store.Writer, logger *logging.Logger, maxBody int64) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{
		project: project,
		emitter: em,
		writer:  w,
		logger:  logger,
		maxBody: maxBody,
	}
}

// HandleEmit accepts one event object or an array of them. The whole batch
// is validated before anything is written. Writes are not transactional: if
// the store fails mid-batch, earlier events stay on disk and the response
// is 500.
func (h *Handler) HandleEmit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := h.handleEmit(w, r)
	elapsed := time.Since(start)
	metrics.IngestRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	metrics.IngestDuration.Observe(elapsed.Seconds())

	h.logger.DebugContext(r.Context(), "emit request",
		logging.Method(r.Method),
		logging.Path(r.URL.Path),
		logging.Status(status),
		logging.Duration(elapsed),
	)
}

func (h *Handler) handleEmit(w http.ResponseWriter, r *http.Request) int {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		return h.sendError(w, fmt.Errorf("method %s not allowed", r.Method), http.StatusMethodNotAllowed)
	}
	if !h.project.Enabled {
		return h.sendError(w, ErrDisabled, http.StatusForbidden)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	defer r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return h.sendError(w, ErrTooLarge, http.StatusRequestEntityTooLarge)
		}
		return h.sendError(w, err, http.StatusBadRequest)
	}

	inputs, err := decodeInputs(body)
	if err != nil {
		return h.sendError(w, err, http.StatusBadRequest)
	}

	events := make([]event.Event, 0, len(inputs))
	for i, in := range inputs {
		ev, err := h.emitter.Emit(h.project, in.level(), in.Message, in.options()...)
		if err != nil {
			metrics.InvalidEvents.Inc()
			return h.sendError(w, fmt.Errorf("event %d: %w", i, err), http.StatusBadRequest)
		}
		events = append(events, ev)
	}

	var resp Response
	for _, ev := range events {
		written, err := h.writer.Append(ctx, ev)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to store event", logging.EventID(ev.ID), logging.Error(err))
			return h.sendError(w, errors.New("failed to store event"), http.StatusInternalServerError)
		}
		if written {
			resp.Accepted++
		} else {
			resp.Suppressed++
		}
	}

	h.logger.DebugContext(ctx, "ingested events",
		logging.Count(resp.Accepted), "suppressed", resp.Suppressed)
	return h.sendJSON(w, http.StatusOK, resp)
}

// decodeInputs reads a single object or an array of objects. Numbers stay
// json.Number so data values remain scalars.
func decodeInputs(body []byte) ([]Input, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrNoData
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var inputs []Input
	if trimmed[0] == '[' {
		if err := dec.Decode(&inputs); err != nil {
			return nil, fmt.Errorf("decode events: %w", err)
		}
	} else {
		var in Input
		if err := dec.Decode(&in); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		inputs = append(inputs, in)
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON value")
	}
	if len(inputs) == 0 {
		return nil, ErrNoData
	}
	return inputs, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, v any) int {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
	return status
}

func (h *Handler) sendError(w http.ResponseWriter, err error, status int) int {
	return h.sendJSON(w, status, map[string]string{
		"error": err.Error(),
	})
}
