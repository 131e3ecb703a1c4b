package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"fatal", LevelFatal, false},
		{"", 0, true},
		{"critical", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevels_TotalOrder(t *testing.T) {
	levels := Levels()
	require.Len(t, levels, 6)
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1], levels[i])
		assert.True(t, levels[i].AtLeast(levels[i-1]))
		assert.False(t, levels[i-1].AtLeast(levels[i]))
	}
}

func TestLevel_Valid(t *testing.T) {
	for _, l := range Levels() {
		assert.True(t, l.Valid(), l.String())
	}
	assert.False(t, Level(0).Valid())
	assert.False(t, Level(7).Valid())
	assert.Equal(t, "level(7)", Level(7).String())
}

func TestLevel_TextRoundTrip(t *testing.T) {
	var l Level
	require.NoError(t, l.UnmarshalText([]byte("warn")))
	assert.Equal(t, LevelWarn, l)

	require.NoError(t, l.UnmarshalText([]byte("")))
	assert.Equal(t, Level(0), l)

	assert.Error(t, l.UnmarshalText([]byte("loud")))

	_, err := json.Marshal(Level(0))
	assert.Error(t, err)
}

func TestParseSourceKind(t *testing.T) {
	k, err := ParseSourceKind("")
	require.NoError(t, err)
	assert.Equal(t, SourceUnknown, k)

	k, err = ParseSourceKind("Browser")
	require.NoError(t, err)
	assert.Equal(t, SourceBrowser, k)

	_, err = ParseSourceKind("satellite")
	assert.Error(t, err)
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "test", Source{Kind: SourceTest}.String())
	assert.Equal(t, "process:worker", Source{Kind: SourceProcess, Name: "worker"}.String())
}
