package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-enricher/internal/observability"
	"github.com/jonathan/cv-enricher/internal/types"
)

var fetchExternalCmd = &cobra.Command{
	Use:   "fetch-external",
	Short: "Fetch and validate external data without enriching",
	Long:  "Queries the enabled sources for the candidate's public footprint and writes the validated aggregate, without touching the CV.",
	RunE:  runFetchExternal,
}

var (
	fetchCVPath       string
	fetchUserID       string
	fetchOutPath      string
	fetchConfigPath   string
	fetchSources      []string
	fetchForceRefresh bool
	fetchVerbose      bool
)

func init() {
	fetchExternalCmd.Flags().StringVarP(&fetchCVPath, "cv", "i", "", "Path to CV JSON file (required)")
	fetchExternalCmd.Flags().StringVarP(&fetchUserID, "user-id", "u", "", "User identifier (defaults to a new UUID)")
	fetchExternalCmd.Flags().StringVarP(&fetchOutPath, "out", "o", "", "Output path for the aggregate JSON (required)")
	fetchExternalCmd.Flags().StringVar(&fetchConfigPath, "config", "", "Path to JSON config file")
	fetchExternalCmd.Flags().StringSliceVar(&fetchSources, "sources", nil, "Sources to query (github,linkedin,web,website; default all)")
	fetchExternalCmd.Flags().BoolVar(&fetchForceRefresh, "force-refresh", false, "Bypass the cache and fetch fresh data")
	fetchExternalCmd.Flags().BoolVarP(&fetchVerbose, "verbose", "v", false, "Print detailed progress")

	if err := fetchExternalCmd.MarkFlagRequired("cv"); err != nil {
		panic(fmt.Sprintf("failed to mark cv flag as required: %v", err))
	}
	if err := fetchExternalCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(fetchExternalCmd)
}

func runFetchExternal(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	application, cleanup, err := buildApp(ctx, fetchConfigPath, fetchVerbose)
	if err != nil {
		return err
	}
	defer cleanup()

	cv, err := loadCV(fetchCVPath)
	if err != nil {
		return err
	}

	userID := fetchUserID
	if userID == "" {
		userID = uuid.New().String()
	}

	result, err := application.orch.Orchestrate(ctx, &types.OrchestrationRequest{
		UserID:    userID,
		CV:        cv,
		CVID:      cv.ID,
		DataTypes: parseDataTypes(fetchSources),
		Options:   types.OrchestrationOptions{ForceRefresh: fetchForceRefresh},
	})
	if err != nil {
		return fmt.Errorf("failed to fetch external data: %w", err)
	}

	if fetchVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintOrchestrationResult(result)
		if result.EnrichedData != nil {
			printer.PrintValidationStatus(result.EnrichedData.ValidationStatus)
		}
	}

	if err := writeJSON(fetchOutPath, result); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Status: %s (%d/%d sources)\n",
		result.Status, result.SourcesSuccessful, result.SourcesQueried)
	_, _ = fmt.Fprintf(os.Stdout, "Aggregate: %s\n", fetchOutPath)

	return nil
}
