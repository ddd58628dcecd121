package main

import (
	"os"

	"investcharts/cmd/commands"
	"investcharts/internal/logger"
)

func main() {
	if err := commands.Execute(); err != nil {
		logger.Error("Command failed", err)
		os.Exit(1)
	}
}
