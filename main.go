package main

import (
	"fmt"
	"os"

	"github.com/deploymenttheory/go-job-composer/cmd"
	"github.com/deploymenttheory/go-job-composer/internal/config"
	"github.com/deploymenttheory/go-job-composer/internal/logger"
)

func main() {
	// Get app configuration file from environment if specified
	configFile := os.Getenv(config.EnvPrefix + "_CONFIG")

	if err := config.Initialize(configFile); err != nil {
		// For app configuration errors, we print to stderr and exit since we can't continue
		fmt.Fprintf(os.Stderr, "Error initializing configuration: %v\n", err)
		os.Exit(1)
	}

	code := cmd.Execute()

	// Ensure logs are flushed before exit
	_ = logger.Sync()
	os.Exit(code)
}
