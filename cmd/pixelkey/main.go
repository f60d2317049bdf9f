// Package main is the entry point for pixelkey.
package main

import (
	"os"

	"pixelkey-go/infrastructure/logging"
)

func main() {
	logger, closeLog, err := logging.Setup(nil)
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	root := newRootCommand(logger)
	if err := root.Execute(); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
