// Package orchestration fans requests out to the enabled source adapters,
// merges their payloads into one aggregate, and caches the validated result.
package orchestration

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cv-enricher/internal/cache"
	"github.com/jonathan/cv-enricher/internal/sources"
	"github.com/jonathan/cv-enricher/internal/types"
	"github.com/jonathan/cv-enricher/internal/validation"
)

// DefaultTimeout bounds the whole fan-out batch.
const DefaultTimeout = 30 * time.Second

// ResultTTL is how long a validated aggregate stays cached.
const ResultTTL = time.Hour

// Orchestrator coordinates the source adapters. Construct one per process
// and share it; all state mutated during a request is request-local except
// the cache, which is safe for concurrent use.
type Orchestrator struct {
	registry map[types.SourceID]types.ExternalDataSource
	ordered  []types.ExternalDataSource
	adapters map[types.SourceID]sources.Adapter
	cache    *cache.Service
	valsvc   *validation.Service
	policy   ResiliencePolicy
	timeout  time.Duration
	validate *validator.Validate
	log      *zap.Logger
}

// Config holds orchestrator construction parameters.
type Config struct {
	Registry []types.ExternalDataSource
	Adapters []sources.Adapter
	Cache    *cache.Service
	Validate *validation.Service
	Policy   ResiliencePolicy
	Timeout  time.Duration
	Log      *zap.Logger
}

// New creates an orchestrator. Cache may be nil (every request fetches
// fresh); Policy defaults to PassthroughPolicy.
func New(cfg Config) *Orchestrator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Policy == nil {
		cfg.Policy = PassthroughPolicy{}
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Validate == nil {
		cfg.Validate = validation.NewService(cfg.Log)
	}
	if len(cfg.Registry) == 0 {
		cfg.Registry = sources.DefaultRegistry()
	}

	o := &Orchestrator{
		registry: make(map[types.SourceID]types.ExternalDataSource, len(cfg.Registry)),
		adapters: make(map[types.SourceID]sources.Adapter, len(cfg.Adapters)),
		cache:    cfg.Cache,
		valsvc:   cfg.Validate,
		policy:   cfg.Policy,
		timeout:  cfg.Timeout,
		validate: validator.New(),
		log:      cfg.Log,
	}
	for _, src := range cfg.Registry {
		o.registry[src.ID] = src
		o.ordered = append(o.ordered, src)
	}
	sort.Slice(o.ordered, func(i, j int) bool {
		return o.ordered[i].Priority < o.ordered[j].Priority
	})
	for _, a := range cfg.Adapters {
		o.adapters[a.ID()] = a
	}
	return o
}

// fetchOutcome is one settled adapter task.
type fetchOutcome struct {
	source    types.SourceID
	payload   *types.SourcePayload
	err       error
	fetchedAt time.Time
}

// Orchestrate gathers external data for one request. Adapter failures
// degrade the result to partial or failed status; only request validation
// and merge faults return an error.
func (o *Orchestrator) Orchestrate(ctx context.Context, req *types.OrchestrationRequest) (*types.OrchestrationResult, error) {
	if err := o.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid orchestration request: %w", err)
	}

	started := time.Now()
	result := &types.OrchestrationResult{
		RequestID: uuid.New().String(),
	}

	// Unknown ids are silently dropped; disabled sources are skipped too.
	queried := o.selectSources(req.DataTypes)

	key := CacheKey(req.UserID, req.CVID, queried)
	if !req.Options.ForceRefresh && o.cache != nil {
		if data, ok := o.cache.Get(ctx, key); ok {
			var cached types.EnrichedData
			if err := json.Unmarshal(data, &cached); err == nil {
				result.Status = types.StatusSuccess
				result.EnrichedData = &cached
				result.CacheHits = 1
				result.FetchDuration = time.Since(started)
				return result, nil
			}
			o.log.Warn("orchestration cache entry unreadable, refetching", zap.String("key", key))
		}
	}

	enriched := &types.EnrichedData{
		OriginalCVID: req.CVID,
		UserID:       req.UserID,
		FetchedAt:    started,
	}

	if len(queried) == 0 {
		result.Status = types.StatusFailed
		result.EnrichedData = o.valsvc.Validate(enriched)
		result.FetchDuration = time.Since(started)
		return result, nil
	}

	timeout := o.timeout
	if req.Options.Timeout > 0 {
		timeout = req.Options.Timeout
	}

	outcomes := o.fanOut(ctx, req, queried, timeout)

	result.SourcesQueried = len(queried)
	settled := make(map[types.SourceID]bool, len(queried))
	for outcome := range outcomes {
		settled[outcome.source] = true
		srcResult := types.DataSourceResult{
			Source:    outcome.source,
			FetchedAt: outcome.fetchedAt,
		}
		if outcome.err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", outcome.source, outcome.err))
			o.log.Warn("source fetch failed",
				zap.String("source", string(outcome.source)), zap.Error(outcome.err))
		} else {
			// Merge faults are fatal for the whole request.
			if err := mergePayload(enriched, outcome.source, outcome.payload); err != nil {
				return nil, fmt.Errorf("merge failed: %w", err)
			}
			srcResult.Success = true
			srcResult.DataPoints = outcome.payload.DataPoints()
			result.SourcesSuccessful++
		}
		enriched.Sources = append(enriched.Sources, srcResult)
	}

	// Sources that lost the timeout race never settled; record them as
	// failures but keep everything that completed in time.
	for _, id := range queried {
		if settled[id] {
			continue
		}
		result.Errors = append(result.Errors, fmt.Sprintf("%s: timed out after %s", id, timeout))
		enriched.Sources = append(enriched.Sources, types.DataSourceResult{
			Source:    id,
			FetchedAt: time.Now(),
		})
	}

	switch {
	case result.SourcesSuccessful == result.SourcesQueried && len(result.Errors) == 0:
		result.Status = types.StatusSuccess
	case result.SourcesSuccessful > 0:
		result.Status = types.StatusPartial
	default:
		result.Status = types.StatusFailed
	}

	result.EnrichedData = o.valsvc.Validate(enriched)

	if o.cache != nil {
		o.cache.Set(ctx, key, result.EnrichedData, ResultTTL, "orchestration")
	}

	result.FetchDuration = time.Since(started)
	return result, nil
}

// selectSources filters the requested ids down to registered, enabled
// sources, deduplicated and ordered by ascending priority.
func (o *Orchestrator) selectSources(requested []types.SourceID) []types.SourceID {
	want := make(map[types.SourceID]bool, len(requested))
	for _, id := range requested {
		want[id] = true
	}
	var selected []types.SourceID
	for _, src := range o.ordered {
		if !src.Enabled || !want[src.ID] {
			continue
		}
		if _, ok := o.adapters[src.ID]; !ok {
			continue
		}
		selected = append(selected, src.ID)
	}
	return selected
}

// fanOut launches one goroutine per source and returns a channel that yields
// outcomes in settle order. The channel closes when every task settles or
// the timeout fires, whichever is first. The shared fetch context is
// cancelled when the race ends, so losing tasks are actively cancelled
// rather than silently abandoned.
func (o *Orchestrator) fanOut(ctx context.Context, req *types.OrchestrationRequest, queried []types.SourceID, timeout time.Duration) <-chan fetchOutcome {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)

	raw := make(chan fetchOutcome, len(queried))
	fetchReq := buildSourceRequest(req)

	for _, id := range queried {
		adapter := o.adapters[id]
		src := o.registry[id]
		go func(id types.SourceID, adapter sources.Adapter, name string) {
			payload, err := o.policy.Execute(fetchCtx, name, func(ctx context.Context) (*types.SourcePayload, error) {
				return adapter.Fetch(ctx, fetchReq)
			})
			raw <- fetchOutcome{source: id, payload: payload, err: err, fetchedAt: time.Now()}
		}(id, adapter, src.Name)
	}

	out := make(chan fetchOutcome)
	go func() {
		defer cancel()
		defer close(out)
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		for settled := 0; settled < len(queried); settled++ {
			select {
			case outcome := <-raw:
				out <- outcome
			case <-timer.C:
				return
			}
		}
	}()
	return out
}

// buildSourceRequest derives the per-source identifiers from the CV.
func buildSourceRequest(req *types.OrchestrationRequest) sources.Request {
	r := sources.Request{UserID: req.UserID}
	if req.CV == nil {
		return r
	}
	r.FullName = req.CV.PersonalInfo.Name
	r.GitHubUsername = githubUsername(req.CV.PersonalInfo.GitHub)
	r.LinkedInURL = req.CV.PersonalInfo.LinkedIn
	r.WebsiteURL = req.CV.PersonalInfo.Website
	return r
}

// githubUsername accepts either a bare username or a profile URL.
func githubUsername(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if idx := strings.Index(ref, "github.com/"); idx >= 0 {
		ref = ref[idx+len("github.com/"):]
	}
	ref = strings.Trim(ref, "/")
	if idx := strings.Index(ref, "/"); idx >= 0 {
		ref = ref[:idx]
	}
	return ref
}

// CacheKey builds the orchestration cache key from the user, CV, and the
// sorted list of queried sources.
func CacheKey(userID, cvID string, dataTypes []types.SourceID) string {
	ids := make([]string, len(dataTypes))
	for i, id := range dataTypes {
		ids[i] = string(id)
	}
	sort.Strings(ids)
	return userID + ":orchestration:" + cvID + ":" + strings.Join(ids, ",")
}
