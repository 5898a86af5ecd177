// Package main provides the entry point for the interview tracker API server
// and its operational commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-tracker/internal/config"
	"github.com/jonathan/interview-tracker/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:          "interview_tracker",
	Short:        "Interview Tracker HTTP API Server",
	Long:         "Interview Tracker records scheduled job interviews and their feedback for candidates and administrators via REST API.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and configures the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	observability.SetupLogger(cfg.LogLevel, cfg.IsDevelopment())
	return cfg, nil
}
