package main

import (
	"log/slog"
	"os"

	"github.com/zosconnect/orchestrate/pkg/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}
