package event

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TrimsMessageAndDefaults(t *testing.T) {
	before := time.Now().UTC()

	ev, err := New(Spec{Level: LevelInfo, Message: "  server started \n"})
	require.NoError(t, err)

	assert.Equal(t, "server started", ev.Message)
	assert.Equal(t, LevelInfo, ev.Level)
	assert.Equal(t, DefaultType, ev.Type)
	assert.Equal(t, SourceUnknown, ev.Source.Kind)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, time.UTC, ev.Timestamp.Location())
	assert.False(t, ev.Timestamp.Before(before.Add(-time.Second)))
	assert.Nil(t, ev.Data)
	assert.Nil(t, ev.Tags)
}

func TestNew_EmptyMessage(t *testing.T) {
	for _, msg := range []string{"", "   ", "\t\n"} {
		_, err := New(Spec{Level: LevelInfo, Message: msg})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidEvent), "message %q", msg)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Spec{Message: "hi"})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = New(Spec{Level: Level(99), Message: "hi"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestNew_InvalidSourceKind(t *testing.T) {
	_, err := New(Spec{Level: LevelInfo, Message: "hi", Source: Source{Kind: SourceKind(42)}})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestNew_DataMustBeScalar(t *testing.T) {
	_, err := New(Spec{
		Level:   LevelInfo,
		Message: "hi",
		Data:    map[string]any{"nested": map[string]any{"a": 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = New(Spec{
		Level:   LevelInfo,
		Message: "hi",
		Data:    map[string]any{" ": 1},
	})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestNew_CopiesMaps(t *testing.T) {
	data := map[string]any{"user": "alice", "count": 3, "ok": true, "ratio": 0.5, "none": nil}
	tags := map[string]string{"env": "dev"}

	ev, err := New(Spec{Level: LevelWarn, Message: "hi", Data: data, Tags: tags})
	require.NoError(t, err)

	data["user"] = "mallory"
	tags["env"] = "prod"

	assert.Equal(t, "alice", ev.Data["user"])
	assert.Equal(t, "dev", ev.Tags["env"])
	assert.Len(t, ev.Data, 5)
}

func TestNew_KeepsCallerTimestampInUTC(t *testing.T) {
	loc := time.FixedZone("plus2", 2*60*60)
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, loc)

	ev, err := New(Spec{Level: LevelInfo, Message: "hi", Timestamp: ts, ID: "fixed"})
	require.NoError(t, err)

	assert.Equal(t, "fixed", ev.ID)
	assert.True(t, ev.Timestamp.Equal(ts))
	assert.Equal(t, time.UTC, ev.Timestamp.Location())
}

func TestEvent_JSONShape(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ev, err := New(Spec{
		ID:        "evt-1",
		Timestamp: ts,
		Level:     LevelError,
		Service:   "api",
		Message:   "boom",
		Source:    Source{Kind: SourceScript, Name: "deploy.sh"},
		Data:      map[string]any{"code": 500},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "evt-1", decoded["id"])
	assert.Equal(t, "2025-01-02T03:04:05Z", decoded["ts"])
	assert.Equal(t, "error", decoded["level"])
	assert.Equal(t, "log", decoded["type"])
	assert.Equal(t, map[string]any{"kind": "script", "name": "deploy.sh"}, decoded["source"])
	assert.NotContains(t, decoded, "suppressed")

	var back Event
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, LevelError, back.Level)
	assert.Equal(t, SourceScript, back.Source.Kind)
}

func TestIsScalar(t *testing.T) {
	assert.True(t, IsScalar(nil))
	assert.True(t, IsScalar("s"))
	assert.True(t, IsScalar(uint8(1)))
	assert.True(t, IsScalar(json.Number("1.5")))
	assert.False(t, IsScalar([]string{"a"}))
	assert.False(t, IsScalar(struct{}{}))
}
