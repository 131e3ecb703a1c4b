package event

import (
	"fmt"
	"strings"
)

// SourceKind identifies the category of emitter that produced an event.
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	SourceProcess
	SourceSDK
	SourceScript
	SourceTest
	SourceMCP
	SourceBrowser
)

var sourceKindNames = map[SourceKind]string{
	SourceUnknown: "unknown",
	SourceProcess: "process",
	SourceSDK:     "sdk",
	SourceScript:  "script",
	SourceTest:    "test",
	SourceMCP:     "mcp",
	SourceBrowser: "browser",
}

// ParseSourceKind converts a kind name to a SourceKind. Empty input maps to
// SourceUnknown.
func ParseSourceKind(s string) (SourceKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return SourceUnknown, nil
	}
	for kind, n := range sourceKindNames {
		if n == name {
			return kind, nil
		}
	}
	return SourceUnknown, fmt.Errorf("unknown source kind %q", s)
}

// Valid reports whether k is one of the enumerated kinds.
func (k SourceKind) Valid() bool {
	_, ok := sourceKindNames[k]
	return ok
}

func (k SourceKind) String() string {
	if name, ok := sourceKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("source_kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k SourceKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid source kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SourceKind) UnmarshalText(text []byte) error {
	parsed, err := ParseSourceKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Source identifies who produced an event. Name is optional.
type Source struct {
	Kind SourceKind `json:"kind"`
	Name string     `json:"name,omitempty"`
}

func (s Source) String() string {
	if s.Name == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + ":" + s.Name
}
