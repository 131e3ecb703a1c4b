// Package hunch is the embeddable API for recording structured events into a
// project's local hunch store.
//
// A project is marked by a .hunch.json file. LoadConfig finds it from an
// explicit path, HUNCH_CONFIG, or the working directory (explicit value,
// HUNCH_CWD, INIT_CWD, then the process directory), and resolves the store
// directory relative to the project root. No parent directories are
// searched.
//
// Most programs only need a Client:
//
//	c, err := hunch.NewClient(hunch.Options{})
//	if err != nil {
//		return err
//	}
//	c.Info(ctx, "cache warmed", hunch.WithData(map[string]any{"keys": 120}))
package hunch
