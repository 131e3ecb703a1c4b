package config

import "path/filepath"

// ResolveStoreDir returns the absolute store directory for cfg.
//
// A relative store_dir is joined with rootDir; an absolute one is returned
// as-is. Both are cleaned so the result never has a trailing separator and
// compares equal byte for byte across calls. No filesystem access happens.
func ResolveStoreDir(cfg Config, rootDir string) string {
	dir := filepath.FromSlash(cfg.StoreDir)
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(rootDir, dir)
}
