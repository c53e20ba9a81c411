package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enricher/internal/cache"
	"github.com/jonathan/cv-enricher/internal/config"
	"github.com/jonathan/cv-enricher/internal/db"
	"github.com/jonathan/cv-enricher/internal/enrichment"
	"github.com/jonathan/cv-enricher/internal/logger"
	"github.com/jonathan/cv-enricher/internal/orchestration"
	"github.com/jonathan/cv-enricher/internal/sources"
	"github.com/jonathan/cv-enricher/internal/types"
)

// app bundles the wired services shared by the CLI commands.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	db     *db.DB // nil when no database is configured or reachable
	cache  *cache.Service
	orch   *orchestration.Orchestrator
	enrich *enrichment.Service
}

// buildApp wires the full service graph from config file, environment, and
// flags. The database is optional: when it is unreachable the cache degrades
// to memory-only and run records are skipped.
func buildApp(ctx context.Context, configPath string, verbose bool) (*app, func(), error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = *loaded
	}
	cfg.LoadEnv()
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	var database *db.DB
	var store cache.Store
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn("database unavailable, caching in memory only", zap.Error(err))
		} else {
			store = database
		}
	}

	cacheSvc := cache.New(store, cache.Config{
		Capacity:      cfg.CacheCapacity,
		DefaultTTL:    cfg.CacheTTL(),
		MaxEntryBytes: cfg.CacheMaxEntryBytes,
	}, log)

	adapters := []sources.Adapter{
		sources.NewGitHubAdapter(sources.DefaultGitHubBaseURL, cfg.GitHubToken),
		sources.NewLinkedInAdapter(cfg.UseBrowser, log),
		sources.NewWebsiteAdapter(log),
	}
	search, err := sources.NewWebSearchAdapter(ctx, cfg.GoogleAPIKey, cfg.SearchEngineID, log)
	if err != nil {
		log.Warn("web search unavailable", zap.Error(err))
	} else {
		adapters = append(adapters, search)
	}
	for i, a := range adapters {
		adapters[i] = sources.WithCache(a, cacheSvc, sources.AdapterTTL, log)
	}

	orch := orchestration.New(orchestration.Config{
		Adapters: adapters,
		Cache:    cacheSvc,
		Timeout:  cfg.Timeout(),
		Log:      log,
	})

	enrichSvc := enrichment.NewService(enrichment.Config{
		ExperienceConflictThreshold: cfg.ExperienceConflictThreshold,
		Logger:                      log,
	})

	cleanup := func() {
		if database != nil {
			database.Close()
		}
		_ = log.Sync()
	}

	return &app{
		cfg:    cfg,
		log:    log,
		db:     database,
		cache:  cacheSvc,
		orch:   orch,
		enrich: enrichSvc,
	}, cleanup, nil
}

// loadCV reads and parses a CV JSON file.
func loadCV(path string) (*types.CV, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CV file %s: %w", path, err)
	}
	var cv types.CV
	if err := json.Unmarshal(data, &cv); err != nil {
		return nil, fmt.Errorf("failed to parse CV JSON: %w", err)
	}
	return &cv, nil
}

// writeJSON marshals v with indentation and writes it to path.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// parseDataTypes maps flag values to source ids, defaulting to all sources.
func parseDataTypes(raw []string) []types.SourceID {
	if len(raw) == 0 {
		return []types.SourceID{types.SourceGitHub, types.SourceLinkedIn, types.SourceWeb, types.SourceWebsite}
	}
	ids := make([]types.SourceID, 0, len(raw))
	for _, r := range raw {
		ids = append(ids, types.SourceID(r))
	}
	return ids
}
