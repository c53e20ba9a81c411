package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-enricher/internal/types"
)

func TestPortfolioMergesGitHubAndWebsite(t *testing.T) {
	svc := NewPortfolioService()

	cv := &types.CV{Projects: []types.Project{
		{Name: "raft-kv", Technologies: []string{"Go"}, Description: "kv store"},
	}}
	ext := &types.EnrichedData{
		GitHub: &types.GitHubData{Repositories: []types.GitHubRepo{
			{Name: "raft-kv", URL: "https://github.com/jane/raft-kv", Language: "Go", Stars: 120, Forks: 9,
				Description: "A replicated key-value store with Raft consensus"},
			{Name: "scratchpad", Language: "Go", Stars: 0},
			{Name: "blogctl", URL: "https://github.com/jane/blogctl", Language: "Go", Stars: 5},
		}},
		PersonalWebsite: &types.PersonalWebsite{
			Projects: []types.WebsiteProject{{Name: "homelab", Technologies: []string{"Terraform"}}},
		},
	}

	result := svc.Enrich(cv, ext)

	names := make(map[string]types.PortfolioProject)
	for _, p := range result.Projects {
		names[p.Name] = p
	}

	// Zero-star repos never make the portfolio.
	assert.NotContains(t, names, "scratchpad")

	// The CV entry absorbed the GitHub metrics and richer description.
	merged := names["raft-kv"]
	assert.Equal(t, 120, merged.Stars)
	assert.Equal(t, "https://github.com/jane/raft-kv", merged.URL)
	assert.Contains(t, merged.Description, "Raft consensus")

	assert.Equal(t, 2, result.NewProjects)
	assert.Equal(t, 1, result.EnhancedProjects)
}

func TestPortfolioSortsByScore(t *testing.T) {
	svc := NewPortfolioService()

	ext := &types.EnrichedData{
		GitHub: &types.GitHubData{Repositories: []types.GitHubRepo{
			{Name: "small", Language: "Go", Stars: 2},
			{Name: "popular", Language: "Go", Stars: 5000, Forks: 300},
		}},
	}

	result := svc.Enrich(&types.CV{}, ext)
	require.Len(t, result.Projects, 2)
	assert.Equal(t, "popular", result.Projects[0].Name)
}

func TestProjectScoreLogScaled(t *testing.T) {
	base := ProjectScore(&types.PortfolioProject{Confidence: 0.8})
	some := ProjectScore(&types.PortfolioProject{Confidence: 0.8, Stars: 100})
	many := ProjectScore(&types.PortfolioProject{Confidence: 0.8, Stars: 10000})

	assert.Greater(t, some, base)
	assert.Greater(t, many, some)
	// Log scaling: 100x the stars is nowhere near 100x the score.
	assert.Less(t, many, 2*some)
}

func TestPortfolioQualityScore(t *testing.T) {
	svc := NewPortfolioService()

	full := svc.Enrich(&types.CV{Projects: []types.Project{
		{Name: "p", Description: "d", URL: "https://x", Technologies: []string{"Go"}},
	}}, nil)
	bare := svc.Enrich(&types.CV{Projects: []types.Project{{Name: "p"}}}, nil)

	assert.Greater(t, full.QualityScore, bare.QualityScore)
	assert.Zero(t, svc.Enrich(&types.CV{}, nil).QualityScore)
}
