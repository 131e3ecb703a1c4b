package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guckdev/hunch/internal/env"
)

// RegistryVersion is written into every registry entry.
const RegistryVersion = 1

// RegistryEntry announces a running ingest server so other tools can find
// it without knowing the port.
type RegistryEntry struct {
	Version    int       `json:"version"`
	PID        int       `json:"pid"`
	RootDir    string    `json:"root_dir"`
	ConfigPath string    `json:"config_path,omitempty"`
	Host       string    `json:"host"`
	Path       string    `json:"path"`
	Port       int       `json:"port"`
	StartedAt  time.Time `json:"started_at"`
	SessionID  string    `json:"session_id,omitempty"`
}

// RegistryDir picks the registry directory: explicit value, then
// HUNCH_INGEST_REGISTRY_DIR, then ~/.hunch/ingest.
func RegistryDir(explicit string, vars env.Vars) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	o, err := vars.Overrides()
	if err != nil {
		return "", err
	}
	if o.IngestRegistryDir != "" {
		return o.IngestRegistryDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".hunch", "ingest"), nil
}

// Registration is a written registry entry. Remove deletes it.
type Registration struct {
	Path  string
	Entry RegistryEntry

	once sync.Once
	err  error
}

// Register writes entry to <dir>/<uuid>.json. The file is written to a
// temporary name in the same directory and renamed into place, so readers
// never see a partial entry.
func Register(dir string, entry RegistryEntry) (*Registration, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create registry directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal registry entry: %w", err)
	}

	path := filepath.Join(dir, uuid.NewString()+".json")
	if err := writeAtomic(path, data); err != nil {
		return nil, err
	}
	return &Registration{Path: path, Entry: entry}, nil
}

// Remove deletes the registry file. It is safe to call more than once; a
// file that is already gone is not an error.
func (r *Registration) Remove() error {
	if r == nil {
		return nil
	}
	r.once.Do(func() {
		if err := os.Remove(r.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.err = fmt.Errorf("remove registry entry: %w", err)
		}
	})
	return r.err
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create registry temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write registry temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close registry temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename registry entry: %w", err)
	}
	return nil
}

// ReadRegistry returns every entry in dir. Unreadable or malformed files
// are skipped; a missing directory yields no entries.
func ReadRegistry(dir string) ([]RegistryEntry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read registry directory: %w", err)
	}

	var entries []RegistryEntry
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			continue
		}
		var entry RegistryEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
