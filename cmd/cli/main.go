package main

import (
	"os"

	"movequote/cmd/cli/cmd"
	"movequote/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
