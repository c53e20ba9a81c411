package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-enricher/internal/cache"
	"github.com/jonathan/cv-enricher/internal/observability"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the external-data cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache counters",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached entries for a user",
	Long:  "Removes every cached entry belonging to the given user from both the memory and persistent tiers.",
	RunE:  runCacheClear,
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired entries from the persistent cache",
	Long:  "Runs one sweep over the persistent tier, or keeps sweeping on a schedule with --schedule.",
	RunE:  runCacheSweep,
}

var (
	cacheConfigPath    string
	cacheUserID        string
	cacheSweepSchedule string
)

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheConfigPath, "config", "", "Path to JSON config file")
	cacheClearCmd.Flags().StringVarP(&cacheUserID, "user-id", "u", "", "User identifier (required)")
	cacheSweepCmd.Flags().StringVar(&cacheSweepSchedule, "schedule", "", "Cron spec to keep sweeping on (e.g. '@every 1h'); empty runs once")

	if err := cacheClearCmd.MarkFlagRequired("user-id"); err != nil {
		panic(fmt.Sprintf("failed to mark user-id flag as required: %v", err))
	}

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheSweepCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	application, cleanup, err := buildApp(ctx, cacheConfigPath, false)
	if err != nil {
		return err
	}
	defer cleanup()

	stats := application.cache.Stats()
	printer := observability.NewPrinter(os.Stdout)
	printer.PrintCacheStats(stats.MemoryEntries, stats.MemoryHits, stats.PersistentHits,
		stats.Misses, stats.Evictions, stats.Rejected)

	return nil
}

func runCacheSweep(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	application, cleanup, err := buildApp(ctx, cacheConfigPath, false)
	if err != nil {
		return err
	}
	defer cleanup()

	if application.db == nil {
		return fmt.Errorf("cache sweep requires a configured database")
	}

	sweeper := cache.NewSweeper(application.db, cacheSweepSchedule, application.log)
	if cacheSweepSchedule == "" {
		sweeper.SweepOnce(ctx)
		_, _ = fmt.Fprintln(os.Stdout, "Sweep complete")
		return nil
	}

	if err := sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sweeper: %w", err)
	}
	defer sweeper.Stop()

	_, _ = fmt.Fprintf(os.Stdout, "Sweeping on schedule %s, press Ctrl-C to stop\n", cacheSweepSchedule)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	application, cleanup, err := buildApp(ctx, cacheConfigPath, false)
	if err != nil {
		return err
	}
	defer cleanup()

	application.cache.ClearUserCache(ctx, cacheUserID)
	_, _ = fmt.Fprintf(os.Stdout, "Cleared cache entries for user %s\n", cacheUserID)

	return nil
}
