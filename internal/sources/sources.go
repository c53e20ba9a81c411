// Package sources contains the adapters that fetch and normalize data from
// one external source each: GitHub, LinkedIn, web search, and the
// candidate's personal website. Adapters return empty payloads when a source
// has no data; they return errors only for network or API level failures.
package sources

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enricher/internal/cache"
	"github.com/jonathan/cv-enricher/internal/types"
)

// Request carries the per-user identifiers an adapter may need. Identifiers
// the adapter does not use are ignored.
type Request struct {
	UserID         string
	FullName       string
	GitHubUsername string
	LinkedInURL    string
	WebsiteURL     string
}

// Adapter fetches data from one external source.
type Adapter interface {
	ID() types.SourceID
	Fetch(ctx context.Context, req Request) (*types.SourcePayload, error)
}

// DefaultRegistry returns the static source registry. Lower priority values
// are scheduled first. LinkedIn leads because it is the highest-trust source.
func DefaultRegistry() []types.ExternalDataSource {
	return []types.ExternalDataSource{
		{ID: types.SourceLinkedIn, Name: "LinkedIn", Priority: 1, Enabled: true, RateLimit: 10},
		{ID: types.SourceGitHub, Name: "GitHub", Priority: 2, Enabled: true, RateLimit: 60},
		{ID: types.SourceWebsite, Name: "Personal Website", Priority: 3, Enabled: true},
		{ID: types.SourceWeb, Name: "Web Search", Priority: 4, Enabled: true, RateLimit: 100},
	}
}

// AdapterTTL is how long a single adapter's payload stays cached.
const AdapterTTL = time.Hour

// cachedAdapter wraps an adapter with the two-tier cache so repeated
// orchestrations within the TTL do not hit the upstream source again.
type cachedAdapter struct {
	inner Adapter
	cache *cache.Service
	ttl   time.Duration
	log   *zap.Logger
}

// WithCache returns an adapter that consults the cache before fetching.
// A nil cache returns the adapter unchanged.
func WithCache(a Adapter, c *cache.Service, ttl time.Duration, log *zap.Logger) Adapter {
	if c == nil {
		return a
	}
	if ttl <= 0 {
		ttl = AdapterTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &cachedAdapter{inner: a, cache: c, ttl: ttl, log: log}
}

func (c *cachedAdapter) ID() types.SourceID {
	return c.inner.ID()
}

func (c *cachedAdapter) Fetch(ctx context.Context, req Request) (*types.SourcePayload, error) {
	key := cacheKey(c.inner.ID(), req)

	if data, ok := c.cache.Get(ctx, key); ok {
		var payload types.SourcePayload
		if err := unmarshalPayload(data, &payload); err == nil {
			return &payload, nil
		}
		// A corrupt cache entry degrades to a fresh fetch.
		c.log.Warn("adapter cache entry unreadable, refetching",
			zap.String("source", string(c.inner.ID())), zap.String("key", key))
	}

	payload, err := c.inner.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, payload, c.ttl, string(c.inner.ID()))
	return payload, nil
}

func unmarshalPayload(data []byte, payload *types.SourcePayload) error {
	return json.Unmarshal(data, payload)
}

func cacheKey(id types.SourceID, req Request) string {
	identifier := ""
	switch id {
	case types.SourceGitHub:
		identifier = req.GitHubUsername
	case types.SourceLinkedIn:
		identifier = req.LinkedInURL
	case types.SourceWebsite:
		identifier = req.WebsiteURL
	case types.SourceWeb:
		identifier = req.FullName
	}
	return req.UserID + ":source:" + string(id) + ":" + identifier
}
