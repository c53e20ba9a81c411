package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-enricher/internal/observability"
	"github.com/jonathan/cv-enricher/internal/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fetch external data and enrich a CV",
	Long:  "Runs the full pipeline: fetches the candidate's public footprint from the enabled sources, validates the aggregate, merges it into the CV, and writes the enriched CV with an attribution report.",
	RunE:  runEnrich,
}

var (
	enrichCVPath       string
	enrichUserID       string
	enrichOutPath      string
	enrichReportPath   string
	enrichConfigPath   string
	enrichSources      []string
	enrichForceRefresh bool
	enrichVerbose      bool
)

func init() {
	enrichCmd.Flags().StringVarP(&enrichCVPath, "cv", "i", "", "Path to CV JSON file (required)")
	enrichCmd.Flags().StringVarP(&enrichUserID, "user-id", "u", "", "User identifier (defaults to a new UUID)")
	enrichCmd.Flags().StringVarP(&enrichOutPath, "out", "o", "", "Output path for the enriched CV JSON (required)")
	enrichCmd.Flags().StringVar(&enrichReportPath, "report", "", "Optional path for the text enrichment report")
	enrichCmd.Flags().StringVar(&enrichConfigPath, "config", "", "Path to JSON config file")
	enrichCmd.Flags().StringSliceVar(&enrichSources, "sources", nil, "Sources to query (github,linkedin,web,website; default all)")
	enrichCmd.Flags().BoolVar(&enrichForceRefresh, "force-refresh", false, "Bypass the cache and fetch fresh data")
	enrichCmd.Flags().BoolVarP(&enrichVerbose, "verbose", "v", false, "Print detailed progress")

	if err := enrichCmd.MarkFlagRequired("cv"); err != nil {
		panic(fmt.Sprintf("failed to mark cv flag as required: %v", err))
	}
	if err := enrichCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	application, cleanup, err := buildApp(ctx, enrichConfigPath, enrichVerbose)
	if err != nil {
		return err
	}
	defer cleanup()

	cv, err := loadCV(enrichCVPath)
	if err != nil {
		return err
	}

	userID := enrichUserID
	if userID == "" {
		userID = uuid.New().String()
	}

	printer := observability.NewPrinter(os.Stdout)

	var runID uuid.UUID
	if application.db != nil {
		runID, err = application.db.CreateEnrichmentRun(ctx, userID, cv.ID)
		if err != nil {
			application.log.Warn("failed to record enrichment run", zap.Error(err))
		}
	}

	if enrichVerbose {
		printer.PrintStep(1, 3, "Fetching external data")
	}
	orchResult, err := application.orch.Orchestrate(ctx, &types.OrchestrationRequest{
		UserID:    userID,
		CV:        cv,
		CVID:      cv.ID,
		DataTypes: parseDataTypes(enrichSources),
		Options:   types.OrchestrationOptions{ForceRefresh: enrichForceRefresh},
	})
	if err != nil {
		return fmt.Errorf("failed to fetch external data: %w", err)
	}
	if enrichVerbose {
		printer.PrintOrchestrationResult(orchResult)
		if orchResult.EnrichedData != nil {
			printer.PrintValidationStatus(orchResult.EnrichedData.ValidationStatus)
		}
	}

	if enrichVerbose {
		printer.PrintStep(2, 3, "Enriching CV")
	}
	result, err := application.enrich.EnrichCV(cv, orchResult.EnrichedData)
	if err != nil {
		return fmt.Errorf("failed to enrich CV: %w", err)
	}
	if enrichVerbose {
		printer.PrintEnrichmentResult(result)
	}

	if enrichVerbose {
		printer.PrintStep(3, 3, "Writing output")
	}
	if err := writeJSON(enrichOutPath, result); err != nil {
		return err
	}
	if enrichReportPath != "" {
		if err := os.WriteFile(enrichReportPath, []byte(result.Report), 0644); err != nil {
			return fmt.Errorf("failed to write report %s: %w", enrichReportPath, err)
		}
	}

	if application.db != nil && runID != uuid.Nil {
		qi := result.QualityImprovement
		if err := application.db.CompleteEnrichmentRun(ctx, runID, string(orchResult.Status), qi.Before, qi.After, result); err != nil {
			application.log.Warn("failed to complete enrichment run record", zap.Error(err))
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Enriched CV: %s\n", enrichOutPath)
	_, _ = fmt.Fprintf(os.Stdout, "Quality: %d -> %d\n",
		result.QualityImprovement.Before, result.QualityImprovement.After)

	return nil
}
