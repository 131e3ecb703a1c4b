package hunch

import (
	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/internal/emitter"
	"github.com/guckdev/hunch/internal/event"
)

type (
	Level      = event.Level
	SourceKind = event.SourceKind
	Source     = event.Source
	Event      = event.Event
	Config     = config.Config
	Loaded     = config.Loaded
	EmitOption = emitter.EmitOption
)

const (
	LevelTrace = event.LevelTrace
	LevelDebug = event.LevelDebug
	LevelInfo  = event.LevelInfo
	LevelWarn  = event.LevelWarn
	LevelError = event.LevelError
	LevelFatal = event.LevelFatal
)

const (
	SourceUnknown = event.SourceUnknown
	SourceProcess = event.SourceProcess
	SourceSDK     = event.SourceSDK
	SourceScript  = event.SourceScript
	SourceTest    = event.SourceTest
	SourceMCP     = event.SourceMCP
	SourceBrowser = event.SourceBrowser
)

var (
	ErrConfigNotFound = config.ErrConfigNotFound
	ErrNotAFile       = config.ErrNotAFile
	ErrConfigParse    = config.ErrConfigParse
	ErrConfigRead     = config.ErrConfigRead
	ErrInvalidEvent   = event.ErrInvalidEvent
)

var (
	ParseLevel      = event.ParseLevel
	ParseSourceKind = event.ParseSourceKind
)

var (
	WithSource    = emitter.WithSource
	WithData      = emitter.WithData
	WithTags      = emitter.WithTags
	WithType      = emitter.WithType
	WithService   = emitter.WithService
	WithSessionID = emitter.WithSessionID
	WithTrace     = emitter.WithTrace
	WithTimestamp = emitter.WithTimestamp
)
