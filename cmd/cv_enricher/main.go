// Package main provides the cv_enricher CLI: it gathers external data about
// a candidate and enriches their CV with it.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cv_enricher",
	Short: "CV enrichment pipeline",
	Long:  "cv_enricher gathers a candidate's public footprint (GitHub, LinkedIn, web search, personal website), validates and caches it, and merges it into the CV with full attribution.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
