// Package main provides the entry point for the contextual CTA agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cta_agent",
	Short: "Contextual CTA insertion agent",
	Long:  "cta_agent enhances marketing articles with contextually relevant, UTM-tracked calls to action matched against an offer catalog.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
