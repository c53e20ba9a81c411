package sources

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/cv-enricher/internal/types"
)

// resultsPerQuery bounds how many hits each templated query requests.
const resultsPerQuery = 5

// minRelevance drops hits that share nothing with the candidate's name.
const minRelevance = 0.1

// trustedDomains get a relevance boost: hits there are rarely noise.
var trustedDomains = []string{
	"github.com",
	"linkedin.com",
	"stackoverflow.com",
	"medium.com",
	"dev.to",
	"arxiv.org",
	"acm.org",
	"ieee.org",
	"youtube.com",
}

// trustedDomainBoost is added to the keyword-overlap score.
const trustedDomainBoost = 0.3

// WebSearchAdapter discovers a candidate's public web presence through
// templated search queries. Absent credentials degrade every fetch to an
// empty payload rather than an error.
type WebSearchAdapter struct {
	svc      *customsearch.Service
	engineID string
	log      *zap.Logger
}

// NewWebSearchAdapter creates a web-search adapter. With an empty apiKey or
// engineID the adapter is constructed without a backing service and returns
// empty results.
func NewWebSearchAdapter(ctx context.Context, apiKey, engineID string, log *zap.Logger) (*WebSearchAdapter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	adapter := &WebSearchAdapter{engineID: engineID, log: log}
	if apiKey == "" || engineID == "" {
		log.Info("web search credentials absent, adapter will return empty results")
		return adapter, nil
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	adapter.svc = svc
	return adapter, nil
}

// ID returns the source identifier.
func (a *WebSearchAdapter) ID() types.SourceID {
	return types.SourceWeb
}

// Fetch issues the templated queries, deduplicates hits by URL, scores
// relevance, and classifies publications.
func (a *WebSearchAdapter) Fetch(ctx context.Context, req Request) (*types.SourcePayload, error) {
	presence := &types.WebPresence{}
	if a.svc == nil || req.FullName == "" {
		return &types.SourcePayload{Web: presence}, nil
	}

	queries := []string{
		fmt.Sprintf("%q", req.FullName),
		fmt.Sprintf("%q publications OR articles OR blog", req.FullName),
		fmt.Sprintf("%q speaker OR talk OR conference", req.FullName),
		fmt.Sprintf("%q award OR recognition", req.FullName),
	}

	seen := make(map[string]bool)
	for _, query := range queries {
		resp, err := a.svc.Cse.List().Cx(a.engineID).Q(query).Num(resultsPerQuery).Context(ctx).Do()
		if err != nil {
			// One failed query does not sink the batch.
			a.log.Warn("web search query failed", zap.String("query", query), zap.Error(err))
			continue
		}
		for _, item := range resp.Items {
			if item.Link == "" || seen[item.Link] {
				continue
			}
			seen[item.Link] = true

			relevance := ScoreRelevance(req.FullName, item.Title, item.Snippet, item.Link)
			if relevance < minRelevance {
				continue
			}
			presence.Hits = append(presence.Hits, types.SearchHit{
				Title:     item.Title,
				URL:       item.Link,
				Snippet:   item.Snippet,
				Relevance: relevance,
			})

			if pubType := ClassifyPublication(item.Link, item.Title); pubType != "" {
				presence.Publications = append(presence.Publications, types.Publication{
					Title: item.Title,
					URL:   item.Link,
					Type:  pubType,
				})
			}
		}
	}

	return &types.SourcePayload{Web: presence}, nil
}

// ScoreRelevance rates how likely a hit concerns the candidate: the share of
// name tokens appearing in the title or snippet, plus a boost for trusted
// domains found in the URL.
func ScoreRelevance(fullName, title, snippet, url string) float64 {
	tokens := strings.Fields(strings.ToLower(fullName))
	if len(tokens) == 0 {
		return 0
	}
	haystack := strings.ToLower(title + " " + snippet)

	matched := 0
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			matched++
		}
	}
	score := float64(matched) / float64(len(tokens))

	lowerURL := strings.ToLower(url)
	for _, domain := range trustedDomains {
		if strings.Contains(lowerURL, domain) {
			score += trustedDomainBoost
			break
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}

// ClassifyPublication assigns a publication type from URL and title
// heuristics. Returns "" when the hit is not publication-like.
func ClassifyPublication(url, title string) string {
	lowerURL := strings.ToLower(url)
	lowerTitle := strings.ToLower(title)

	switch {
	case strings.Contains(lowerURL, "arxiv.org"),
		strings.Contains(lowerURL, "acm.org"),
		strings.Contains(lowerURL, "ieee.org"),
		strings.Contains(lowerTitle, "paper"):
		return "article"
	case strings.Contains(lowerURL, "medium.com"),
		strings.Contains(lowerURL, "dev.to"),
		strings.Contains(lowerURL, "/blog"):
		return "article"
	case strings.Contains(lowerURL, "youtube.com"),
		strings.Contains(lowerURL, "sessionize.com"),
		strings.Contains(lowerTitle, "talk"),
		strings.Contains(lowerTitle, "conference"),
		strings.Contains(lowerTitle, "keynote"):
		return "talk"
	case strings.Contains(lowerTitle, "award"),
		strings.Contains(lowerTitle, "winner"):
		return "award"
	case strings.Contains(lowerURL, "linkedin.com"),
		strings.Contains(lowerURL, "github.com"),
		strings.Contains(lowerURL, "twitter.com"):
		return "profile"
	}
	return ""
}
