package seeder

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/event"
)

// Kinds lists the event shapes the generator knows.
var Kinds = []string{"http", "db", "auth", "job", "browser"}

// Generated is one fake event before it goes through the emitter.
type Generated struct {
	Level   event.Level
	Type    string
	Message string
	Source  event.Source
	Data    map[string]any
}

// Options converts g into emitter options.
func (g Generated) Options() []emitter.EmitOption {
	return []emitter.EmitOption{
		emitter.WithType(g.Type),
		emitter.WithSource(g.Source),
		emitter.WithData(g.Data),
	}
}

// Generate creates a single fake event of the given kind. Unknown kinds fall
// back to http.
func Generate(f *gofakeit.Faker, kind string) Generated {
	switch kind {
	case "db":
		return generateDBEvent(f)
	case "auth":
		return generateAuthEvent(f)
	case "job":
		return generateJobEvent(f)
	case "browser":
		return generateBrowserEvent(f)
	default:
		return generateHTTPEvent(f)
	}
}

func generateHTTPEvent(f *gofakeit.Faker) Generated {
	method := f.HTTPMethod()
	path := "/" + f.Word() + "/" + f.Word()
	status := f.RandomInt([]int{200, 200, 200, 201, 204, 301, 400, 404, 500, 503})
	latency := f.Number(2, 900)

	level := event.LevelInfo
	switch {
	case status >= 500:
		level = event.LevelError
	case status >= 400 || latency > 600:
		level = event.LevelWarn
	}

	return Generated{
		Level:   level,
		Type:    "http",
		Message: fmt.Sprintf("%s %s -> %d", method, path, status),
		Source:  event.Source{Kind: event.SourceProcess, Name: "api"},
		Data: map[string]any{
			"method":     method,
			"path":       path,
			"status":     status,
			"latency_ms": latency,
			"client_ip":  f.IPv4Address(),
		},
	}
}

func generateDBEvent(f *gofakeit.Faker) Generated {
	ops := []string{"SELECT", "INSERT", "UPDATE", "DELETE"}
	op := f.RandomString(ops)
	table := f.Word()
	rows := f.Number(0, 500)
	elapsed := f.Float64Range(0.2, 1200)

	level := event.LevelDebug
	msg := fmt.Sprintf("%s %s (%d rows)", op, table, rows)
	if elapsed > 1000 {
		level = event.LevelWarn
		msg = fmt.Sprintf("slow query: %s %s", op, table)
	}

	return Generated{
		Level:   level,
		Type:    "db",
		Message: msg,
		Source:  event.Source{Kind: event.SourceSDK, Name: "db"},
		Data: map[string]any{
			"op":         op,
			"table":      table,
			"rows":       rows,
			"elapsed_ms": elapsed,
		},
	}
}

func generateAuthEvent(f *gofakeit.Faker) Generated {
	actions := []string{"login", "logout", "mfa_verify", "password_change"}
	action := f.RandomString(actions)
	success := f.Float32Range(0, 1) > 0.15

	level := event.LevelInfo
	outcome := "succeeded"
	if !success {
		level = event.LevelWarn
		outcome = "failed"
	}

	return Generated{
		Level:   level,
		Type:    "auth",
		Message: fmt.Sprintf("%s %s for %s", action, outcome, f.Username()),
		Source:  event.Source{Kind: event.SourceProcess, Name: "auth"},
		Data: map[string]any{
			"action":  action,
			"success": success,
			"email":   f.Email(),
			"ip":      f.IPv4Address(),
		},
	}
}

func generateJobEvent(f *gofakeit.Faker) Generated {
	job := f.AppName()
	attempt := f.Number(1, 5)

	level := event.LevelInfo
	msg := fmt.Sprintf("job %s finished", job)
	if attempt == 5 {
		level = event.LevelError
		msg = fmt.Sprintf("job %s gave up after %d attempts", job, attempt)
	} else if attempt > 1 {
		level = event.LevelWarn
		msg = fmt.Sprintf("job %s retried (attempt %d)", job, attempt)
	}

	return Generated{
		Level:   level,
		Type:    "job",
		Message: msg,
		Source:  event.Source{Kind: event.SourceScript, Name: "worker"},
		Data: map[string]any{
			"job":     job,
			"job_id":  f.UUID(),
			"attempt": attempt,
		},
	}
}

func generateBrowserEvent(f *gofakeit.Faker) Generated {
	level := event.LevelInfo
	msg := "page view " + f.URL()
	if f.Bool() {
		level = event.LevelError
		msg = "uncaught TypeError: " + f.HackerPhrase()
	}

	return Generated{
		Level:   level,
		Type:    "browser",
		Message: msg,
		Source:  event.Source{Kind: event.SourceBrowser, Name: f.DomainName()},
		Data: map[string]any{
			"user_agent": f.UserAgent(),
		},
	}
}

// eventTime spreads index out of total across the window ending at now, with
// ±40% jitter around the even spacing.
func eventTime(f *gofakeit.Faker, now time.Time, window time.Duration, index, total int) time.Time {
	if window <= 0 || total <= 0 {
		return now
	}

	baseInterval := float64(window) / float64(total)
	baseOffset := time.Duration(float64(index) * baseInterval)

	jitterRange := baseInterval * 0.4
	jitter := time.Duration(f.Float64Range(-1, 1) * jitterRange)

	offset := baseOffset + jitter
	if offset < 0 {
		offset = 0
	}
	if offset > window {
		offset = window
	}

	return now.Add(-(window - offset))
}
