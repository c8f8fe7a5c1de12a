// Package main provides the entry point for the compliance-review HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "compliance_server",
	Short: "Compliance Review HTTP API Server",
	Long:  "Compliance Review analyses clinical documents against a catalogue of compliance references using a configurable LLM provider and reports structured issues with byte offsets.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
