package orchestration

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/cv-enricher/internal/cache"
	"github.com/jonathan/cv-enricher/internal/sources"
	"github.com/jonathan/cv-enricher/internal/types"
)

// stubAdapter is a canned-response adapter for orchestrator tests.
type stubAdapter struct {
	id      types.SourceID
	payload *types.SourcePayload
	err     error
	delay   time.Duration
	calls   int32
}

func (s *stubAdapter) ID() types.SourceID { return s.id }

func (s *stubAdapter) Fetch(ctx context.Context, _ sources.Request) (*types.SourcePayload, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func githubStub() *stubAdapter {
	return &stubAdapter{
		id: types.SourceGitHub,
		payload: &types.SourcePayload{GitHub: &types.GitHubData{
			Username:  "jane",
			Languages: map[string]int{"Go": 1000},
		}},
	}
}

func linkedinStub() *stubAdapter {
	return &stubAdapter{
		id: types.SourceLinkedIn,
		payload: &types.SourcePayload{LinkedIn: &types.LinkedInData{
			Headline: "Engineer",
			Skills:   []string{"Go", "Kubernetes"},
		}},
	}
}

func testRequest(ids ...types.SourceID) *types.OrchestrationRequest {
	return &types.OrchestrationRequest{
		UserID: "u1",
		CV: &types.CV{
			ID:           "cv1",
			PersonalInfo: types.PersonalInfo{Name: "Jane Doe", GitHub: "jane"},
		},
		CVID:      "cv1",
		DataTypes: ids,
	}
}

func TestOrchestrateAllSourcesSucceed(t *testing.T) {
	orch := New(Config{
		Adapters: []sources.Adapter{githubStub(), linkedinStub()},
		Log:      zap.NewNop(),
	})

	result, err := orch.Orchestrate(context.Background(), testRequest(types.SourceGitHub, types.SourceLinkedIn))
	require.NoError(t, err)

	assert.Equal(t, types.StatusSuccess, result.Status)
	assert.Equal(t, 2, result.SourcesQueried)
	assert.Equal(t, 2, result.SourcesSuccessful)
	assert.Empty(t, result.Errors)

	require.NotNil(t, result.EnrichedData)
	assert.Equal(t, "u1", result.EnrichedData.UserID)
	assert.NotNil(t, result.EnrichedData.GitHub)
	assert.NotNil(t, result.EnrichedData.LinkedIn)
	assert.ElementsMatch(t, []string{"Go", "Kubernetes"}, result.EnrichedData.AggregatedSkills)
	require.NotNil(t, result.EnrichedData.ValidationStatus)
	assert.True(t, result.EnrichedData.ValidationStatus.IsValid)
}

func TestOrchestrateInvalidRequest(t *testing.T) {
	orch := New(Config{Adapters: []sources.Adapter{githubStub()}, Log: zap.NewNop()})

	_, err := orch.Orchestrate(context.Background(), &types.OrchestrationRequest{
		UserID: "u1",
		CV:     &types.CV{},
		// DataTypes missing
	})
	assert.Error(t, err)
}

func TestOrchestrateUnknownSourceDropped(t *testing.T) {
	orch := New(Config{Adapters: []sources.Adapter{githubStub()}, Log: zap.NewNop()})

	result, err := orch.Orchestrate(context.Background(),
		testRequest(types.SourceGitHub, types.SourceID("bogus")))
	require.NoError(t, err)

	assert.Equal(t, 1, result.SourcesQueried)
	assert.Equal(t, types.StatusSuccess, result.Status)
}

func TestOrchestrateOnlyUnknownSourcesFails(t *testing.T) {
	orch := New(Config{Adapters: []sources.Adapter{githubStub()}, Log: zap.NewNop()})

	result, err := orch.Orchestrate(context.Background(), testRequest(types.SourceID("bogus")))
	require.NoError(t, err)

	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, 0, result.SourcesQueried)
}

func TestOrchestratePartialOnAdapterError(t *testing.T) {
	failing := &stubAdapter{id: types.SourceLinkedIn, err: errors.New("profile fetch blocked")}
	orch := New(Config{
		Adapters: []sources.Adapter{githubStub(), failing},
		Log:      zap.NewNop(),
	})

	result, err := orch.Orchestrate(context.Background(), testRequest(types.SourceGitHub, types.SourceLinkedIn))
	require.NoError(t, err)

	assert.Equal(t, types.StatusPartial, result.Status)
	assert.Equal(t, 1, result.SourcesSuccessful)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "linkedin")
	assert.NotNil(t, result.EnrichedData.GitHub)
	assert.Nil(t, result.EnrichedData.LinkedIn)
}

func TestOrchestrateAllAdaptersFail(t *testing.T) {
	orch := New(Config{
		Adapters: []sources.Adapter{
			&stubAdapter{id: types.SourceGitHub, err: errors.New("rate limited")},
		},
		Log: zap.NewNop(),
	})

	result, err := orch.Orchestrate(context.Background(), testRequest(types.SourceGitHub))
	require.NoError(t, err)

	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, 0, result.SourcesSuccessful)
}

func TestOrchestrateTimeoutKeepsFastSources(t *testing.T) {
	slow := &stubAdapter{
		id:      types.SourceLinkedIn,
		delay:   500 * time.Millisecond,
		payload: &types.SourcePayload{LinkedIn: &types.LinkedInData{}},
	}
	orch := New(Config{
		Adapters: []sources.Adapter{githubStub(), slow},
		Log:      zap.NewNop(),
	})

	req := testRequest(types.SourceGitHub, types.SourceLinkedIn)
	req.Options.Timeout = 100 * time.Millisecond

	result, err := orch.Orchestrate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, types.StatusPartial, result.Status)
	assert.Equal(t, 1, result.SourcesSuccessful)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "linkedin")
	assert.NotNil(t, result.EnrichedData.GitHub)
}

func TestOrchestrateSecondCallServedFromCache(t *testing.T) {
	github := githubStub()
	orch := New(Config{
		Adapters: []sources.Adapter{github},
		Cache:    cache.New(nil, cache.DefaultConfig(), zap.NewNop()),
		Log:      zap.NewNop(),
	})

	req := testRequest(types.SourceGitHub)

	first, err := orch.Orchestrate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)

	second, err := orch.Orchestrate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, types.StatusSuccess, second.Status)
	assert.Equal(t, 1, second.CacheHits)
	assert.Equal(t, 0, second.SourcesQueried)
	assert.Equal(t, int32(1), atomic.LoadInt32(&github.calls))
	require.NotNil(t, second.EnrichedData)
	assert.NotNil(t, second.EnrichedData.GitHub)
}

func TestOrchestrateForceRefreshBypassesCache(t *testing.T) {
	github := githubStub()
	orch := New(Config{
		Adapters: []sources.Adapter{github},
		Cache:    cache.New(nil, cache.DefaultConfig(), zap.NewNop()),
		Log:      zap.NewNop(),
	})

	req := testRequest(types.SourceGitHub)
	_, err := orch.Orchestrate(context.Background(), req)
	require.NoError(t, err)

	req.Options.ForceRefresh = true
	result, err := orch.Orchestrate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, result.CacheHits)
	assert.Equal(t, int32(2), atomic.LoadInt32(&github.calls))
}

func TestCacheKeyIsOrderIndependent(t *testing.T) {
	a := CacheKey("u1", "cv1", []types.SourceID{types.SourceWeb, types.SourceGitHub})
	b := CacheKey("u1", "cv1", []types.SourceID{types.SourceGitHub, types.SourceWeb})

	assert.Equal(t, a, b)
	assert.Equal(t, "u1:orchestration:cv1:github,web", a)
}

func TestSelectSourcesHonorsPriorityOrder(t *testing.T) {
	orch := New(Config{
		Adapters: []sources.Adapter{githubStub(), linkedinStub()},
		Log:      zap.NewNop(),
	})

	selected := orch.selectSources([]types.SourceID{types.SourceGitHub, types.SourceLinkedIn})
	// LinkedIn has priority 1 in the default registry.
	require.Len(t, selected, 2)
	assert.Equal(t, types.SourceLinkedIn, selected[0])
	assert.Equal(t, types.SourceGitHub, selected[1])
}
