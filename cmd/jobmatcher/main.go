// Package main provides the entry point for the job-matcher CLI and HTTP API
// server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonLog    bool
	debugLog   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobmatcher",
	Short: "ML job matching engine",
	Long:  "jobmatcher ranks job postings against a candidate profile using weighted multi-field embedding similarity, with optional re-ranking by geographic proximity.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Emit JSON-encoded logs")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
