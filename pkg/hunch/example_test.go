package hunch_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/guckdev/hunch/pkg/hunch"
)

func ExampleClient_Emit() {
	root, _ := os.MkdirTemp("", "hunch-example")
	defer os.RemoveAll(root)
	os.WriteFile(filepath.Join(root, ".hunch.json"), []byte(`{"default_service":"checkout","min_level":"info"}`), 0o644)

	c, err := hunch.NewClient(hunch.Options{Cwd: root, Env: map[string]string{}})
	if err != nil {
		fmt.Println(err)
		return
	}

	ev, _ := c.Emit(context.Background(), hunch.LevelWarn, "payment retried",
		hunch.WithData(map[string]any{"attempt": 2}))
	fmt.Println(ev.Level, ev.Service, ev.Message, ev.Suppressed)

	ev, _ = c.Debug(context.Background(), "cart loaded")
	fmt.Println(ev.Level, ev.Suppressed)
	// Output:
	// warn checkout payment retried false
	// debug true
}

func ExampleResolveStoreDir() {
	cfg := hunch.Config{StoreDir: "logs/hunch"}
	fmt.Println(filepath.ToSlash(hunch.ResolveStoreDir(cfg, "/srv/app")))
	// Output: /srv/app/logs/hunch
}
