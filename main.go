package main

import (
	"os"

	"github.com/guckdev/hunch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
